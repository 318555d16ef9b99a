// Package live is the WebSocket channel behind the form builder canvas.
// The drag-and-drop surface sends document operations; the server applies
// them through the document store and streams back the updated document
// plus a rendered preview fragment.
package live

import (
	"encoding/json"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/store"
)

// ClientMessage is the envelope for all canvas-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id"` // client-assigned request id
	Data json.RawMessage `json:"data,omitempty"`
}

// AddFieldData is the payload for "add_field".
type AddFieldData struct {
	FieldType form.FieldType `json:"fieldType"`
	SectionID string         `json:"sectionId,omitempty"`
}

// FieldRefData addresses one field ("remove_field", "duplicate_field").
type FieldRefData struct {
	FieldID string `json:"fieldId"`
}

// UpdateFieldData is the payload for "update_field".
type UpdateFieldData struct {
	FieldID string           `json:"fieldId"`
	Patch   store.FieldPatch `json:"patch"`
}

// SetValidationRuleData is the payload for "set_validation_rule".
type SetValidationRuleData struct {
	FieldID string              `json:"fieldId"`
	Rule    form.ValidationRule `json:"rule"`
}

// MoveFieldData is the payload for "move_field".
type MoveFieldData struct {
	FieldID   string `json:"fieldId"`
	SectionID string `json:"sectionId"`
	Index     int    `json:"index"`
}

// SectionRefData addresses one section ("remove_section").
type SectionRefData struct {
	SectionID string `json:"sectionId"`
}

// UpdateSectionData is the payload for "update_section".
type UpdateSectionData struct {
	SectionID string             `json:"sectionId"`
	Patch     store.SectionPatch `json:"patch"`
}

// UpdateMetaData is the payload for "update_meta".
type UpdateMetaData struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SetValueData is the payload for "set_value": a raw edited value to fold
// into the preview's value bag.
type SetValueData struct {
	FieldID string          `json:"fieldId"`
	Value   json.RawMessage `json:"value"`
}

// ServerMessage is the envelope for all server-to-canvas messages.
type ServerMessage struct {
	Type      string `json:"type"` // "session", "document", "preview", "errors", "saved", "error", "pong"
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// SessionData announces the form under edit when the channel opens.
type SessionData struct {
	FormID string `json:"formId"`
}

// DocumentData carries the full document snapshot after a mutation.
type DocumentData struct {
	Form *form.Form `json:"form"`
}

// PreviewData carries the rendered preview fragment.
type PreviewData struct {
	HTML string `json:"html"`
}

// ErrorsData carries the store's collected error list.
type ErrorsData struct {
	Errors []store.Error `json:"errors"`
}

// ErrorData carries a protocol-level error.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
