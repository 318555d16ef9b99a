package store

import "errors"

// ErrNotFound is returned by Persistence implementations when a form id is
// not in the available set.
var ErrNotFound = errors.New("form not found")

// ErrValidationFailed is returned by Save when validation errors block the
// persist. The individual errors are available from Errors().
var ErrValidationFailed = errors.New("form validation failed")

// ErrorKind classifies a collected store error.
type ErrorKind string

const (
	// KindValidation marks a structurally incomplete form or field.
	KindValidation ErrorKind = "validation"
	// KindLoad marks a referenced form id missing from the available set.
	KindLoad ErrorKind = "load"
	// KindSave marks a persistence collaborator failure.
	KindSave ErrorKind = "save"
)

// Error is one collected, non-fatal store error. The UI layer decides how
// to surface these; only validation errors block a save.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	FieldID string    `json:"fieldId,omitempty"`
	Message string    `json:"message"`
}

func (e Error) Error() string {
	if e.FieldID != "" {
		return string(e.Kind) + ": " + e.Message + " (field " + e.FieldID + ")"
	}
	return string(e.Kind) + ": " + e.Message
}
