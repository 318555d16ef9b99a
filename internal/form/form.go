// Package form defines the canonical in-memory representation of a clinical
// data-collection form: a flat set of field definitions plus an ordered
// section layout. The model is data-only; all mutation goes through the
// document store.
package form

import "time"

const (
	// WidthCompact..WidthWide are the presentational width classes.
	WidthCompact = "compact"
	WidthNormal  = "normal"
	WidthWide    = "wide"
)

// SectionStyling holds presentation attributes of a section. FontSize scales
// label and description text for every field inside the section.
type SectionStyling struct {
	Color    string `json:"color,omitempty"`
	FontSize string `json:"fontSize,omitempty"` // "sm", "base", "lg"
}

// Section is an ordered, titled grouping of field ids. Its ID equals the id
// of the paired section-typed field.
type Section struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Fields  []string       `json:"fields"`
	Styling SectionStyling `json:"styling"`
}

// Contains reports whether the section lists the given field id.
func (s Section) Contains(fieldID string) bool {
	for _, id := range s.Fields {
		if id == fieldID {
			return true
		}
	}
	return false
}

// Layout is the ordered section arrangement of a form. Section order is
// display order; field order within a section is display order.
type Layout struct {
	Sections []Section `json:"sections"`
}

// Form is the aggregate root. Fields is unordered storage; display order is
// derived entirely from Layout.
type Form struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     int       `json:"version"`
	Fields      []Field   `json:"fields"`
	Layout      Layout    `json:"layout"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FieldByID returns a pointer into Fields, or nil when absent.
func (f *Form) FieldByID(id string) *Field {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}

// SectionByID returns a pointer into Layout.Sections, or nil when absent.
func (f *Form) SectionByID(id string) *Section {
	for i := range f.Layout.Sections {
		if f.Layout.Sections[i].ID == id {
			return &f.Layout.Sections[i]
		}
	}
	return nil
}

// SectionOf returns the section listing the given field id, or nil when the
// field is orphaned (pending placement) or absent.
func (f *Form) SectionOf(fieldID string) *Section {
	for i := range f.Layout.Sections {
		if f.Layout.Sections[i].Contains(fieldID) {
			return &f.Layout.Sections[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the form. Readers get snapshots so that store
// mutations never alias caller-held documents.
func (f *Form) Clone() *Form {
	c := *f
	c.Fields = make([]Field, len(f.Fields))
	for i, fld := range f.Fields {
		c.Fields[i] = fld.Clone()
	}
	c.Layout.Sections = make([]Section, len(f.Layout.Sections))
	for i, s := range f.Layout.Sections {
		cs := s
		cs.Fields = make([]string, len(s.Fields))
		copy(cs.Fields, s.Fields)
		c.Layout.Sections[i] = cs
	}
	return &c
}
