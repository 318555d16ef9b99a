// Package render interprets the canonical form model into interactive HTML
// controls. Rendering is a pure function of (field, stored value): the
// renderer holds parsed templates only, never document state. Edits flow
// back through the value package's ApplyChange, not through the renderer.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/clinformatics/formstudio/internal/form"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders forms and single fields from the canonical model.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded widget templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing render templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderForm renders the whole form: sections in layout order, each field
// resolved against the value bag. Fields listed in no section (orphaned,
// pending placement) are not rendered.
func (r *Renderer) RenderForm(f *form.Form, values map[string]any) (template.HTML, error) {
	view := FormView{Form: f}
	for _, sec := range f.Layout.Sections {
		sv := SectionView{
			Section:   sec,
			FontClass: fontClass(sec.Styling.FontSize),
		}
		if sec.Styling.Color != "" {
			sv.Style = template.CSS("color: " + sec.Styling.Color)
		}
		for _, fieldID := range sec.Fields {
			fld := f.FieldByID(fieldID)
			if fld == nil || fld.Type == form.TypeSection {
				// A dangling or misplaced id would violate the store's
				// invariants; skip rather than render garbage.
				continue
			}
			html, err := r.RenderField(*fld, sec.Styling, values[fieldID])
			if err != nil {
				return "", err
			}
			sv.Fields = append(sv.Fields, html)
		}
		view.Sections = append(view.Sections, sv)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "form", view); err != nil {
		return "", fmt.Errorf("rendering form %s: %w", f.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// RenderField renders one field with its resolved value. Unknown field
// types produce the diagnostic placeholder instead of an error.
func (r *Renderer) RenderField(fld form.Field, secStyle form.SectionStyling, stored any) (template.HTML, error) {
	view := buildFieldView(fld, secStyle, stored)

	var widget bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&widget, view.Widget, view); err != nil {
		return "", fmt.Errorf("rendering field %s (%s): %w", fld.ID, fld.Type, err)
	}
	view.WidgetHTML = template.HTML(widget.String())

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "field", view); err != nil {
		return "", fmt.Errorf("rendering field %s: %w", fld.ID, err)
	}
	return template.HTML(buf.String()), nil
}
