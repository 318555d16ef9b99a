package render

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/value"
)

// ChoiceView is one selectable option with its current checked state.
type ChoiceView struct {
	Value   string
	Label   string
	Checked bool
}

// FieldView is everything the widget templates need to render one field.
// It is computed entirely from (field, stored value); the renderer keeps no
// state of its own.
type FieldView struct {
	Field  form.Field
	Value  value.Resolved
	Widget string

	WidthClass  string
	FontClass   string
	LayoutClass string
	Style       template.CSS

	Togglable bool
	ToggledOn bool
	Hidden    bool

	// Choice widgets.
	Choices       []ChoiceView
	OtherSelected bool
	FallbackText  string

	// Autocomplete tags: selected predefined choices resolved to labels.
	SelectedTags []ChoiceView

	// Number widget.
	NumberStr   string
	MinStr      string
	MaxStr      string
	ShowInput   bool
	ShowSlider  bool
	ShowStepper bool

	// Boolean widget.
	IsSwitch bool

	// Diagnostic placeholder.
	TypeName string

	// WidgetHTML is the rendered inner control, composed by the renderer
	// before the field wrapper template runs.
	WidgetHTML template.HTML
}

// SectionView groups the rendered fields of one section.
type SectionView struct {
	Section   form.Section
	FontClass string
	Style     template.CSS
	Fields    []template.HTML
}

// FormView is the root template context.
type FormView struct {
	Form     *form.Form
	Sections []SectionView
}

// widgetFor selects the widget template by field type and display mode.
// Unknown types and unknown display modes fall back to the diagnostic
// placeholder rather than failing the form.
func widgetFor(fld form.Field) string {
	switch fld.Type {
	case form.TypeText:
		if fld.Options.Variant == "autocomplete" {
			return "tags"
		}
		return "text"
	case form.TypeNumber:
		return "number"
	case form.TypeBoolean:
		return "boolean"
	case form.TypeDate:
		return "date"
	case form.TypeSingleChoice:
		switch fld.Options.DisplayAs {
		case "dropdown", "select":
			return "choice-select"
		case "button-group":
			return "choice-buttons"
		default:
			return "choice-radio"
		}
	case form.TypeMultipleChoice:
		if fld.Options.DisplayAs == "button-group" {
			return "multi-buttons"
		}
		return "multi-checkboxes"
	default:
		return "unknown"
	}
}

// buildFieldView resolves the stored value and assembles the view.
func buildFieldView(fld form.Field, secStyle form.SectionStyling, stored any) FieldView {
	resolved := value.Resolve(fld, stored)
	v := FieldView{
		Field:      fld,
		Value:      resolved,
		Widget:     widgetFor(fld),
		WidthClass: widthClass(fld.Styling.Width),
		FontClass:  fontClass(secStyle.FontSize),
		Togglable:  fld.Options.Togglable,
		TypeName:   string(fld.Type),
	}
	if fld.Styling.Color != "" {
		v.Style = template.CSS("color: " + fld.Styling.Color)
	}
	if v.Togglable {
		if resolved.Toggled != nil {
			v.ToggledOn = *resolved.Toggled
		}
		v.Hidden = !v.ToggledOn
	}

	switch v.Widget {
	case "number":
		if resolved.Number != nil {
			v.NumberStr = strconv.FormatFloat(*resolved.Number, 'f', -1, 64)
		}
		if min, ok := fld.MinRule(); ok {
			v.MinStr = strconv.FormatFloat(min, 'f', -1, 64)
		}
		if max, ok := fld.MaxRule(); ok {
			v.MaxStr = strconv.FormatFloat(max, 'f', -1, 64)
		}
		v.ShowInput = fld.HasInput("input")
		v.ShowSlider = fld.HasInput("slider")
		v.ShowStepper = fld.HasInput("stepper")
		if !v.ShowInput && !v.ShowSlider && !v.ShowStepper {
			v.ShowInput = true
		}
	case "boolean":
		v.IsSwitch = fld.Options.DisplayAs == "switch"
	case "choice-radio", "choice-select", "choice-buttons":
		v.LayoutClass = layoutClass(fld)
		v.OtherSelected = resolved.OtherSelected()
		v.FallbackText = resolved.FallbackText()
		v.Choices = make([]ChoiceView, len(fld.Options.Choices))
		for i, c := range fld.Options.Choices {
			v.Choices[i] = ChoiceView{
				Value:   c.Value,
				Label:   c.Label,
				Checked: resolved.Predefined && resolved.Choice == c.Value,
			}
		}
	case "multi-checkboxes", "multi-buttons":
		v.LayoutClass = layoutClass(fld)
		v.Choices = make([]ChoiceView, len(fld.Options.Choices))
		for i, c := range fld.Options.Choices {
			v.Choices[i] = ChoiceView{
				Value:   c.Value,
				Label:   c.Label,
				Checked: resolved.Multi.Has(c.Value),
			}
		}
	case "tags":
		for _, sel := range resolved.Multi.Selected {
			label := sel
			for _, c := range fld.Options.Choices {
				if c.Value == sel {
					label = c.Label
					break
				}
			}
			v.SelectedTags = append(v.SelectedTags, ChoiceView{Value: sel, Label: label, Checked: true})
		}
	}
	return v
}

func widthClass(width string) string {
	switch width {
	case form.WidthCompact:
		return "cf-width-compact"
	case form.WidthWide:
		return "cf-width-wide"
	default:
		return "cf-width-normal"
	}
}

func fontClass(size string) string {
	switch size {
	case "sm":
		return "cf-text-sm"
	case "lg":
		return "cf-text-lg"
	case "base":
		return "cf-text-base"
	default:
		return ""
	}
}

// layoutClass applies the choice layout rules: a fixed column grid only
// when the layout style is "columns" with a column count and the field is
// not compact; everything else flows automatically.
func layoutClass(fld form.Field) string {
	l := fld.Options.Layout
	if l == nil || l.Style != "columns" || l.Columns <= 0 {
		return "cf-choices-auto"
	}
	if fld.Styling.Width == form.WidthCompact {
		return "cf-choices-auto"
	}
	return fmt.Sprintf("cf-choices-cols-%d", l.Columns)
}
