package render

import (
	"strings"
	"testing"

	"github.com/clinformatics/formstudio/internal/form"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func renderField(t *testing.T, fld form.Field, stored any) string {
	t.Helper()
	r := newRenderer(t)
	html, err := r.RenderField(fld, form.SectionStyling{}, stored)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	return string(html)
}

func TestRenderForm_SectionsInLayoutOrder(t *testing.T) {
	f := &form.Form{
		ID:   "frm",
		Name: "Intake",
		Fields: []form.Field{
			{ID: "s1", Type: form.TypeSection, Label: "First"},
			{ID: "s2", Type: form.TypeSection, Label: "Second"},
			{ID: "t1", Type: form.TypeText, Label: "Name"},
			{ID: "t2", Type: form.TypeText, Label: "Notes"},
		},
		Layout: form.Layout{Sections: []form.Section{
			{ID: "s2", Title: "Second", Fields: []string{"t2"}},
			{ID: "s1", Title: "First", Fields: []string{"t1"}},
		}},
	}

	r := newRenderer(t)
	html, err := r.RenderForm(f, nil)
	if err != nil {
		t.Fatalf("RenderForm: %v", err)
	}
	out := string(html)

	second := strings.Index(out, "Second")
	first := strings.Index(out, "First")
	if second == -1 || first == -1 || second > first {
		t.Errorf("sections out of layout order:\n%s", out)
	}
	if !strings.Contains(out, `data-field-id="t1"`) || !strings.Contains(out, `data-field-id="t2"`) {
		t.Error("fields missing from output")
	}
}

func TestRenderForm_SkipsDanglingAndOrphaned(t *testing.T) {
	f := &form.Form{
		ID: "frm",
		Fields: []form.Field{
			{ID: "orphan", Type: form.TypeText, Label: "Orphan"},
		},
		Layout: form.Layout{Sections: []form.Section{
			{ID: "s", Title: "S", Fields: []string{"ghost"}},
		}},
	}

	r := newRenderer(t)
	html, err := r.RenderForm(f, nil)
	if err != nil {
		t.Fatalf("RenderForm: %v", err)
	}
	out := string(html)
	if strings.Contains(out, "ghost") {
		t.Error("dangling id rendered")
	}
	if strings.Contains(out, "orphan") {
		t.Error("orphaned field rendered outside any section")
	}
}

func TestRenderField_Text(t *testing.T) {
	out := renderField(t, form.Field{
		ID:      "t",
		Type:    form.TypeText,
		Label:   "Name",
		Options: form.Options{Placeholder: "Enter text"},
	}, "Ada")

	if !strings.Contains(out, `value="Ada"`) {
		t.Errorf("value missing:\n%s", out)
	}
	if !strings.Contains(out, `placeholder="Enter text"`) {
		t.Errorf("placeholder missing:\n%s", out)
	}
}

func TestRenderField_RequiredMarker(t *testing.T) {
	out := renderField(t, form.Field{ID: "t", Type: form.TypeText, Label: "Name", Required: true}, nil)
	if !strings.Contains(out, `cf-required`) {
		t.Error("required marker missing")
	}
}

func TestRenderField_NumberInputs(t *testing.T) {
	fld := form.Field{
		ID:    "n",
		Type:  form.TypeNumber,
		Label: "Dose",
		Options: form.Options{
			EnabledInputs: []string{"slider", "stepper"},
		},
		Validation: []form.ValidationRule{
			{Type: form.RuleMin, Value: float64(0)},
			{Type: form.RuleMax, Value: float64(100)},
		},
	}
	out := renderField(t, fld, float64(25))

	if strings.Contains(out, `type="number"`) {
		t.Error("plain input rendered though not enabled")
	}
	if !strings.Contains(out, `type="range"`) {
		t.Error("slider missing")
	}
	if !strings.Contains(out, "cf-stepper") {
		t.Error("stepper missing")
	}
	if !strings.Contains(out, `min="0"`) || !strings.Contains(out, `max="100"`) {
		t.Errorf("bounds missing:\n%s", out)
	}
	if !strings.Contains(out, `value="25"`) {
		t.Errorf("value missing:\n%s", out)
	}
}

func TestRenderField_BooleanSwitch(t *testing.T) {
	out := renderField(t, form.Field{
		ID:      "b",
		Type:    form.TypeBoolean,
		Label:   "Consent",
		Options: form.Options{DisplayAs: "switch"},
	}, true)
	if !strings.Contains(out, "cf-switch") {
		t.Error("switch variant missing")
	}
	if !strings.Contains(out, "checked") {
		t.Error("true value not checked")
	}
}

func TestRenderField_SingleChoiceRadioWithFallback(t *testing.T) {
	fld := form.Field{
		ID:    "c",
		Type:  form.TypeSingleChoice,
		Label: "Severity",
		Options: form.Options{
			TextFallback: true,
			Choices:      []form.Choice{{Value: "mild", Label: "Mild"}},
		},
	}
	out := renderField(t, fld, "self-reported")

	if !strings.Contains(out, `type="radio"`) {
		t.Error("radio inputs missing")
	}
	if !strings.Contains(out, "__OTHER_EMPTY__") {
		t.Error("Other sentinel missing")
	}
	if !strings.Contains(out, `value="self-reported"`) {
		t.Errorf("fallback text missing:\n%s", out)
	}
}

func TestRenderField_ChoiceColumnsLayout(t *testing.T) {
	fld := form.Field{
		ID:    "c",
		Type:  form.TypeSingleChoice,
		Label: "Severity",
		Options: form.Options{
			DisplayAs: "button-group",
			Choices:   []form.Choice{{Value: "a", Label: "A"}},
			Layout:    &form.ChoiceLayout{Style: "columns", Columns: 3},
		},
	}
	out := renderField(t, fld, nil)
	if !strings.Contains(out, "cf-choices-cols-3") {
		t.Errorf("column layout class missing:\n%s", out)
	}

	// Compact width forces the automatic flow.
	fld.Styling.Width = form.WidthCompact
	out = renderField(t, fld, nil)
	if !strings.Contains(out, "cf-choices-auto") {
		t.Errorf("compact width should fall back to auto flow:\n%s", out)
	}
}

func TestRenderField_TogglableCollapsed(t *testing.T) {
	fld := form.Field{
		ID:      "t",
		Type:    form.TypeText,
		Label:   "Narrative",
		Options: form.Options{Togglable: true},
	}

	// Off (or never toggled) collapses the control.
	out := renderField(t, fld, map[string]any{"value": "text", "toggled": false})
	if !strings.Contains(out, "cf-collapsed") {
		t.Error("toggled-off control not collapsed")
	}

	out = renderField(t, fld, map[string]any{"value": "text", "toggled": true})
	if strings.Contains(out, "cf-collapsed") {
		t.Error("toggled-on control collapsed")
	}
	if !strings.Contains(out, "cf-toggle") {
		t.Error("toggle switch missing")
	}
}

func TestRenderField_UnknownTypePlaceholder(t *testing.T) {
	out := renderField(t, form.Field{ID: "x", Type: "signature", Label: "Sign"}, nil)
	if !strings.Contains(out, "cf-unsupported") {
		t.Error("diagnostic placeholder missing")
	}
	if !strings.Contains(out, "signature") {
		t.Errorf("unknown type name missing:\n%s", out)
	}
}

func TestRenderField_MultiCheckboxesChecked(t *testing.T) {
	fld := form.Field{
		ID:    "m",
		Type:  form.TypeMultipleChoice,
		Label: "Symptoms",
		Options: form.Options{
			Choices: []form.Choice{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
		},
	}
	out := renderField(t, fld, map[string]any{
		"selected": []any{"b"},
		"custom":   []any{"typed entry"},
	})

	aIdx := strings.Index(out, `value="a"`)
	bIdx := strings.Index(out, `value="b"`)
	if aIdx == -1 || bIdx == -1 {
		t.Fatalf("choices missing:\n%s", out)
	}
	if !strings.Contains(out[bIdx:], "checked") {
		t.Error("selected choice not checked")
	}
	if !strings.Contains(out, "typed entry") {
		t.Error("custom entry missing")
	}
}
