// Package legacyrender renders forms stored in the legacy schema dialect.
// It fulfils the same rendering contract as the render package but reads
// schema.properties + uiSchema entries instead of the canonical model:
// each legacy field is mapped back onto a field definition through a fixed
// widget registry and rendered with the shared widget templates. An
// unregistered widget name renders the same diagnostic placeholder as an
// unknown canonical field type.
package legacyrender

import (
	"html/template"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/legacy"
	"github.com/clinformatics/formstudio/internal/render"
)

// buildCtx carries one legacy field's definition through the registry.
type buildCtx struct {
	id   string
	prop legacy.Property
	ui   legacy.FieldUI
}

// builder maps one widget name to a canonical field definition.
type builder func(c buildCtx) form.Field

// registry is the closed widget dispatch table. Lookup is by ui:widget
// name; schema type decides when no widget is named.
var registry = map[string]builder{
	"text":         buildText,
	"autocomplete": buildAutocomplete,
	"date":         buildDate,
	"checkbox":     buildCheckbox,
	"switch":       buildSwitch,
	"radio":        func(c buildCtx) form.Field { return buildSingleChoice(c, "radio") },
	"select":       func(c buildCtx) form.Field { return buildSingleChoice(c, "dropdown") },
	"checkboxes":   buildCheckboxes,
	"updown":       buildNumber,
}

// schemaTypeWidgets picks the default widget per legacy schema type when
// the ui-schema names none.
var schemaTypeWidgets = map[string]string{
	"string":  "text",
	"number":  "updown",
	"integer": "updown",
	"boolean": "checkbox",
	"array":   "checkboxes",
}

// Renderer renders legacy documents through the shared widget templates.
type Renderer struct {
	inner *render.Renderer
}

// New parses the shared templates.
func New() (*Renderer, error) {
	inner, err := render.New()
	if err != nil {
		return nil, err
	}
	return &Renderer{inner: inner}, nil
}

// NewWith reuses an already-parsed canonical renderer.
func NewWith(inner *render.Renderer) *Renderer {
	return &Renderer{inner: inner}
}

// RenderDocument renders the legacy document grouped by its ui:sections,
// resolving each field's stored value from the value bag.
func (r *Renderer) RenderDocument(doc legacy.Document, values map[string]any) (template.HTML, error) {
	f := FormFromDocument(doc)
	return r.inner.RenderForm(f, values)
}

// RenderField renders a single legacy field.
func (r *Renderer) RenderField(doc legacy.Document, fieldID string, stored any) (template.HTML, error) {
	fld := fieldFrom(doc, fieldID)
	return r.inner.RenderField(fld, form.SectionStyling{}, stored)
}

// FormFromDocument reconstructs a renderable canonical document from the
// legacy shape. The result is a rendering view only — it is never written
// back; the one-way conversion runs in the other direction.
func FormFromDocument(doc legacy.Document) *form.Form {
	f := &form.Form{}
	seen := map[string]bool{}
	for _, su := range doc.UISchema.Sections {
		sec := form.Section{
			ID:      su.ID,
			Title:   su.Title,
			Fields:  append([]string(nil), su.Order...),
			Styling: sectionStyling(su.Styling),
		}
		f.Layout.Sections = append(f.Layout.Sections, sec)
		for _, id := range su.Order {
			if seen[id] {
				continue
			}
			seen[id] = true
			f.Fields = append(f.Fields, fieldFrom(doc, id))
		}
	}
	// Properties absent from every section still become fields so a
	// malformed legacy document loses nothing silently.
	for id := range doc.Schema.Properties {
		if !seen[id] {
			f.Fields = append(f.Fields, fieldFrom(doc, id))
		}
	}
	for _, id := range doc.Schema.Required {
		if fld := f.FieldByID(id); fld != nil {
			fld.Required = true
		}
	}
	return f
}

// fieldFrom dispatches one legacy field through the registry. A widget
// name with no registration yields a field whose type is the raw name, so
// the diagnostic placeholder reports exactly what was not understood.
func fieldFrom(doc legacy.Document, id string) form.Field {
	c := buildCtx{id: id, prop: doc.Schema.Properties[id], ui: doc.UISchema.Fields[id]}

	name := c.ui.Widget
	if name == "" {
		name = schemaTypeWidgets[c.prop.Type]
	}
	build, ok := registry[name]
	if !ok {
		unknown := name
		if unknown == "" {
			unknown = c.prop.Type
		}
		return form.Field{ID: id, Type: form.FieldType(unknown), Label: title(c)}
	}

	fld := build(c)
	fld.ID = id
	fld.Label = title(c)
	fld.Description = description(c)
	applyUIOptions(&fld, c.ui.Options)
	return fld
}

func title(c buildCtx) string {
	if c.prop.Title != "" {
		return c.prop.Title
	}
	return c.id
}

func description(c buildCtx) string {
	if c.prop.Description != "" {
		return c.prop.Description
	}
	return c.ui.Help
}

func buildText(c buildCtx) form.Field {
	return form.Field{Type: form.TypeText}
}

func buildAutocomplete(c buildCtx) form.Field {
	return form.Field{
		Type: form.TypeText,
		Options: form.Options{
			Variant: "autocomplete",
			Choices: choicesFrom(c.prop.Enum, c.prop.EnumNames),
		},
	}
}

func buildDate(c buildCtx) form.Field {
	return form.Field{Type: form.TypeDate}
}

func buildCheckbox(c buildCtx) form.Field {
	return form.Field{Type: form.TypeBoolean, Options: form.Options{DisplayAs: "checkbox"}}
}

func buildSwitch(c buildCtx) form.Field {
	return form.Field{Type: form.TypeBoolean, Options: form.Options{DisplayAs: "switch"}}
}

func buildSingleChoice(c buildCtx, displayAs string) form.Field {
	return form.Field{
		Type: form.TypeSingleChoice,
		Options: form.Options{
			DisplayAs: displayAs,
			Choices:   choicesFrom(c.prop.Enum, c.prop.EnumNames),
		},
	}
}

func buildCheckboxes(c buildCtx) form.Field {
	var values, labels []string
	if c.prop.Items != nil {
		values, labels = c.prop.Items.Enum, c.prop.Items.EnumNames
	}
	return form.Field{
		Type: form.TypeMultipleChoice,
		Options: form.Options{
			DisplayAs: "checkboxGroup",
			Choices:   choicesFrom(values, labels),
		},
	}
}

func buildNumber(c buildCtx) form.Field {
	fld := form.Field{Type: form.TypeNumber}
	if c.prop.Minimum != nil {
		fld.Validation = append(fld.Validation, form.ValidationRule{Type: form.RuleMin, Value: *c.prop.Minimum})
	}
	if c.prop.Maximum != nil {
		fld.Validation = append(fld.Validation, form.ValidationRule{Type: form.RuleMax, Value: *c.prop.Maximum})
	}
	return fld
}

func choicesFrom(values, labels []string) []form.Choice {
	out := make([]form.Choice, len(values))
	for i, v := range values {
		label := v
		if i < len(labels) {
			label = labels[i]
		}
		out[i] = form.Choice{Value: v, Label: label}
	}
	return out
}

// applyUIOptions folds ui:options back into the field: behavioral flags
// onto the option bag, presentation keys onto styling.
func applyUIOptions(fld *form.Field, opts map[string]any) {
	if opts == nil {
		return
	}
	if v, ok := opts["togglable"].(bool); ok {
		fld.Options.Togglable = v
	}
	if v, ok := opts["textFallback"].(bool); ok {
		fld.Options.TextFallback = v
	}
	if v, ok := opts["placeholder"].(string); ok {
		fld.Options.Placeholder = v
	}
	if v, ok := opts["displayAs"].(string); ok && v == "button-group" {
		fld.Options.DisplayAs = v
	}
	if v, ok := opts["color"].(string); ok {
		fld.Styling.Color = v
	}
	if v, ok := opts["width"].(string); ok {
		fld.Styling.Width = v
	}
	if v, ok := opts["textOverflow"].(string); ok {
		fld.Styling.TextOverflow = v
	}
	if layout, ok := opts["layout"].(map[string]any); ok {
		l := &form.ChoiceLayout{}
		if s, ok := layout["style"].(string); ok {
			l.Style = s
		}
		switch n := layout["columns"].(type) {
		case float64:
			l.Columns = int(n)
		case int:
			l.Columns = n
		}
		fld.Options.Layout = l
	}
}

func sectionStyling(styling map[string]any) form.SectionStyling {
	var s form.SectionStyling
	if styling == nil {
		return s
	}
	if v, ok := styling["color"].(string); ok {
		s.Color = v
	}
	if v, ok := styling["fontSize"].(string); ok {
		s.FontSize = v
	}
	return s
}
