// Package store owns the canonical model of one form-in-edit. It is the
// sole mutator: every operation enforces the structural invariants (a field
// id lives in at most one section, section fields exist and are not
// themselves sections, cascading deletes) and bumps the form's UpdatedAt.
//
// Missing-id operations are permissive no-ops, mirroring how the editing
// surface treats stale references from the canvas.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinformatics/formstudio/internal/form"
)

// defaultSectionTitle names the section auto-created when a field is added
// to a form that has none yet.
const defaultSectionTitle = "Main Section"

// Persistence is the storage collaborator. Load returns ErrNotFound when
// the id is not in the available set.
type Persistence interface {
	SaveForm(ctx context.Context, f *form.Form) error
	LoadForm(ctx context.Context, id string) (*form.Form, error)
}

// Store holds one form-in-edit. All operations are synchronous and atomic
// from the caller's perspective; Save and Load are the only ones that touch
// the persistence collaborator.
type Store struct {
	mu      sync.Mutex
	form    *form.Form
	errs    []Error
	saving  bool
	loading bool
	persist Persistence

	now   func() time.Time
	newID func() string
}

// New creates an empty store bound to the given persistence collaborator,
// which may be nil for pure in-memory editing.
func New(persist Persistence) *Store {
	return &Store{
		persist: persist,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// CreateForm installs a fresh empty form and returns a snapshot of it.
func (s *Store) CreateForm(projectID string) *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	s.form = &form.Form{
		ID:        s.newID(),
		ProjectID: projectID,
		Name:      "Untitled Form",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.errs = nil
	return s.form.Clone()
}

// Adopt installs an externally supplied document (a loaded form or an
// instantiated template body) as the form-in-edit.
func (s *Store) Adopt(f *form.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f.Clone()
	s.errs = nil
}

// FromTemplate stamps a fresh identity and timestamps onto a read-only
// template body and installs the result.
func (s *Store) FromTemplate(projectID string, body *form.Form) *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := body.Clone()
	now := s.now().UTC()
	f.ID = s.newID()
	f.ProjectID = projectID
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Version == 0 {
		f.Version = 1
	}
	s.form = f
	s.errs = nil
	return f.Clone()
}

// Form returns a deep-copy snapshot of the form-in-edit, or nil when the
// store is empty.
func (s *Store) Form() *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return nil
	}
	return s.form.Clone()
}

// Errors returns the collected error list.
func (s *Store) Errors() []Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Error, len(s.errs))
	copy(out, s.errs)
	return out
}

// IsSaving reports whether a save is in flight.
func (s *Store) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// IsLoading reports whether a load is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) touch() {
	s.form.UpdatedAt = s.now().UTC()
}

// AddField constructs a field from its type's default template and places
// it. Section-typed fields create their paired section instead of being
// placed. Other fields append to the target section when given, else to the
// first section, creating the default section when the form has none.
// Returns the new field id, or "" when no form is in edit.
func (s *Store) AddField(t form.FieldType, targetSectionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ""
	}

	fld := form.Template(t)
	fld.ID = s.newID()
	s.form.Fields = append(s.form.Fields, fld)

	if t == form.TypeSection {
		s.form.Layout.Sections = append(s.form.Layout.Sections, form.Section{
			ID:     fld.ID,
			Title:  fld.Label,
			Fields: []string{},
		})
		s.touch()
		return fld.ID
	}

	sec := s.form.SectionByID(targetSectionID)
	if sec == nil {
		if len(s.form.Layout.Sections) == 0 {
			s.ensureDefaultSection()
		}
		sec = &s.form.Layout.Sections[0]
	}
	sec.Fields = append(sec.Fields, fld.ID)
	s.touch()
	return fld.ID
}

// ensureDefaultSection creates the "Main Section" with its paired
// section-typed field. Caller holds the lock.
func (s *Store) ensureDefaultSection() {
	secField := form.Template(form.TypeSection)
	secField.ID = s.newID()
	secField.Label = defaultSectionTitle
	s.form.Fields = append(s.form.Fields, secField)
	s.form.Layout.Sections = append(s.form.Layout.Sections, form.Section{
		ID:     secField.ID,
		Title:  defaultSectionTitle,
		Fields: []string{},
	})
}

// RemoveField deletes a field and cleans its section reference. Removing a
// section-typed field cascades to the paired section and every field it
// contains. Removing an absent id is a no-op.
func (s *Store) RemoveField(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	fld := s.form.FieldByID(fieldID)
	if fld == nil {
		return
	}
	if fld.Type == form.TypeSection {
		s.removeSectionLocked(fieldID)
		return
	}
	s.deleteFields(fieldID)
	for i := range s.form.Layout.Sections {
		s.form.Layout.Sections[i].Fields = without(s.form.Layout.Sections[i].Fields, fieldID)
	}
	s.touch()
}

// FieldPatch is a partial field update. Nil members are left untouched.
type FieldPatch struct {
	Label        *string                `json:"label,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Required     *bool                  `json:"required,omitempty"`
	Validation   *[]form.ValidationRule `json:"validation,omitempty"`
	Options      *form.Options          `json:"options,omitempty"`
	Styling      *form.Styling          `json:"styling,omitempty"`
	DefaultValue *any                   `json:"defaultValue,omitempty"`
}

// UpdateField shallow-merges the patch into the field. A label change on a
// section-typed field also renames the paired section. No-op when absent.
func (s *Store) UpdateField(fieldID string, patch FieldPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	fld := s.form.FieldByID(fieldID)
	if fld == nil {
		return
	}
	if patch.Label != nil {
		fld.Label = *patch.Label
		if fld.Type == form.TypeSection {
			if sec := s.form.SectionByID(fieldID); sec != nil {
				sec.Title = *patch.Label
			}
		}
	}
	if patch.Description != nil {
		fld.Description = *patch.Description
	}
	if patch.Required != nil {
		fld.Required = *patch.Required
	}
	if patch.Validation != nil {
		fld.Validation = append([]form.ValidationRule(nil), (*patch.Validation)...)
	}
	if patch.Options != nil {
		fld.Options = *patch.Options
	}
	if patch.Styling != nil {
		fld.Styling = *patch.Styling
	}
	if patch.DefaultValue != nil {
		fld.DefaultValue = *patch.DefaultValue
	}
	s.touch()
}

// SetFieldValidationRule replaces the field's existing rule of the same
// type or appends a new one. Duplicate min/max rules never accumulate.
func (s *Store) SetFieldValidationRule(fieldID string, rule form.ValidationRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	fld := s.form.FieldByID(fieldID)
	if fld == nil {
		return
	}
	fld.SetValidationRule(rule)
	s.touch()
}

// MoveField places the field at index within the target section, clamping
// the index to [0, len]. The id is defensively removed from every section
// first. No-op when the target section is absent.
func (s *Store) MoveField(fieldID, targetSectionID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil || s.form.FieldByID(fieldID) == nil {
		return
	}
	if s.form.SectionByID(targetSectionID) == nil {
		return
	}
	for i := range s.form.Layout.Sections {
		s.form.Layout.Sections[i].Fields = without(s.form.Layout.Sections[i].Fields, fieldID)
	}
	sec := s.form.SectionByID(targetSectionID)
	if index < 0 {
		index = 0
	}
	if index > len(sec.Fields) {
		index = len(sec.Fields)
	}
	sec.Fields = append(sec.Fields, "")
	copy(sec.Fields[index+1:], sec.Fields[index:])
	sec.Fields[index] = fieldID
	s.touch()
}

// DuplicateField deep-copies the field under a new id, suffixes the label
// with " (Copy)", and inserts it immediately after the original in its
// section. Returns "" when the original is absent or orphaned.
func (s *Store) DuplicateField(fieldID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ""
	}
	fld := s.form.FieldByID(fieldID)
	if fld == nil || fld.Type == form.TypeSection {
		return ""
	}
	sec := s.form.SectionOf(fieldID)
	if sec == nil {
		return ""
	}
	dup := fld.Clone()
	dup.ID = s.newID()
	dup.Label = fld.Label + " (Copy)"
	s.form.Fields = append(s.form.Fields, dup)

	pos := 0
	for i, id := range sec.Fields {
		if id == fieldID {
			pos = i + 1
			break
		}
	}
	sec.Fields = append(sec.Fields, "")
	copy(sec.Fields[pos+1:], sec.Fields[pos:])
	sec.Fields[pos] = dup.ID
	s.touch()
	return dup.ID
}

// AddSection creates a new section with its paired section-typed field and
// returns the shared id.
func (s *Store) AddSection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ""
	}
	secField := form.Template(form.TypeSection)
	secField.ID = s.newID()
	s.form.Fields = append(s.form.Fields, secField)
	s.form.Layout.Sections = append(s.form.Layout.Sections, form.Section{
		ID:     secField.ID,
		Title:  secField.Label,
		Fields: []string{},
	})
	s.touch()
	return secField.ID
}

// RemoveSection deletes the section, every field it contains, and its
// paired section-typed field. Idempotent.
func (s *Store) RemoveSection(sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	s.removeSectionLocked(sectionID)
}

func (s *Store) removeSectionLocked(sectionID string) {
	sec := s.form.SectionByID(sectionID)
	if sec == nil {
		return
	}
	contained := append([]string(nil), sec.Fields...)
	s.deleteFields(contained...)
	s.deleteFields(sectionID)

	sections := s.form.Layout.Sections[:0]
	for _, candidate := range s.form.Layout.Sections {
		if candidate.ID != sectionID {
			sections = append(sections, candidate)
		}
	}
	s.form.Layout.Sections = sections
	s.touch()
}

// SectionPatch is a partial section update.
type SectionPatch struct {
	Title   *string              `json:"title,omitempty"`
	Styling *form.SectionStyling `json:"styling,omitempty"`
}

// UpdateSection merges the patch. A title change also renames the paired
// section-typed field's label, keeping the shared identity consistent.
func (s *Store) UpdateSection(sectionID string, patch SectionPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	sec := s.form.SectionByID(sectionID)
	if sec == nil {
		return
	}
	if patch.Title != nil {
		sec.Title = *patch.Title
		if fld := s.form.FieldByID(sectionID); fld != nil {
			fld.Label = *patch.Title
		}
	}
	if patch.Styling != nil {
		sec.Styling = *patch.Styling
	}
	s.touch()
}

// UpdateMeta sets form-level metadata (name, description).
func (s *Store) UpdateMeta(name, description *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	if name != nil {
		s.form.Name = *name
	}
	if description != nil {
		s.form.Description = *description
	}
	s.touch()
}

// Validate returns the structural validation errors without mutating the
// collected error list: blank form name, blank field labels, and choice
// fields with no options.
func (s *Store) Validate() []Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return nil
	}
	return validate(s.form)
}

func validate(f *form.Form) []Error {
	var errs []Error
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, Error{Kind: KindValidation, Message: "form name is required"})
	}
	for _, fld := range f.Fields {
		if strings.TrimSpace(fld.Label) == "" {
			errs = append(errs, Error{
				Kind:    KindValidation,
				FieldID: fld.ID,
				Message: "field label is required",
			})
		}
		if fld.Type.IsChoice() && len(fld.Options.Choices) == 0 {
			errs = append(errs, Error{
				Kind:    KindValidation,
				FieldID: fld.ID,
				Message: "choice fields must have at least one option",
			})
		}
	}
	return errs
}

// Save validates and persists the form-in-edit. Validation errors refuse
// the persist and are collected; a persistence failure is collected as a
// save error. A save issued while another is in flight simply re-persists
// the latest state (last-write-wins).
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.form == nil {
		s.mu.Unlock()
		return nil
	}
	if errs := validate(s.form); len(errs) > 0 {
		s.errs = errs
		s.saving = false
		s.mu.Unlock()
		return ErrValidationFailed
	}
	s.errs = nil
	s.saving = true
	snapshot := s.form.Clone()
	persist := s.persist
	s.mu.Unlock()

	var err error
	if persist != nil {
		err = persist.SaveForm(ctx, snapshot)
	}

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.errs = append(s.errs, Error{Kind: KindSave, Message: err.Error()})
	}
	s.mu.Unlock()
	if err != nil {
		return Error{Kind: KindSave, Message: err.Error()}
	}
	return nil
}

// Load fetches a form by id and installs it as the form-in-edit. A missing
// id is collected as a load error and leaves the current form untouched.
func (s *Store) Load(ctx context.Context, id string) error {
	s.mu.Lock()
	persist := s.persist
	s.loading = true
	s.mu.Unlock()

	var (
		loaded *form.Form
		err    error
	)
	if persist == nil {
		err = ErrNotFound
	} else {
		loaded, err = persist.LoadForm(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		e := Error{Kind: KindLoad, Message: err.Error()}
		if !errors.Is(err, ErrNotFound) {
			e.Message = "loading form: " + err.Error()
		}
		s.errs = append(s.errs, e)
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return e
	}
	s.form = loaded
	s.errs = nil
	return nil
}

// deleteFields removes the given ids from the flat field list.
func (s *Store) deleteFields(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	fields := s.form.Fields[:0]
	for _, fld := range s.form.Fields {
		if !drop[fld.ID] {
			fields = append(fields, fld)
		}
	}
	s.form.Fields = fields
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
