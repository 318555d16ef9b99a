package form

import "testing"

func TestSetValidationRule_ReplacesSameType(t *testing.T) {
	f := Field{Type: TypeNumber}
	f.SetValidationRule(ValidationRule{Type: RuleMin, Value: float64(0)})
	f.SetValidationRule(ValidationRule{Type: RuleMax, Value: float64(10)})
	f.SetValidationRule(ValidationRule{Type: RuleMin, Value: float64(5)})

	if len(f.Validation) != 2 {
		t.Fatalf("len(Validation) = %d, want 2", len(f.Validation))
	}
	min, ok := f.MinRule()
	if !ok || min != 5 {
		t.Errorf("MinRule = %v, %v, want 5, true", min, ok)
	}
	max, ok := f.MaxRule()
	if !ok || max != 10 {
		t.Errorf("MaxRule = %v, %v, want 10, true", max, ok)
	}
	// Replacement happens in place.
	if f.Validation[0].Type != RuleMin {
		t.Errorf("Validation[0].Type = %s, want min", f.Validation[0].Type)
	}
}

func TestRemoveValidationRule(t *testing.T) {
	f := Field{Type: TypeNumber}
	f.SetValidationRule(ValidationRule{Type: RuleMin, Value: float64(1)})
	f.SetValidationRule(ValidationRule{Type: RuleRequired, Value: true})
	f.RemoveValidationRule(RuleMin)

	if len(f.Validation) != 1 {
		t.Fatalf("len(Validation) = %d, want 1", len(f.Validation))
	}
	if _, ok := f.MinRule(); ok {
		t.Error("MinRule still present after removal")
	}
}

func TestNumericRule_IntegerValues(t *testing.T) {
	// Rule values arrive as float64 from JSON and as int64 from CUE.
	for _, v := range []any{float64(3), int(3), int64(3)} {
		f := Field{Type: TypeNumber, Validation: []ValidationRule{{Type: RuleMax, Value: v}}}
		got, ok := f.MaxRule()
		if !ok || got != 3 {
			t.Errorf("MaxRule with %T value = %v, %v, want 3, true", v, got, ok)
		}
	}
}

func TestHasInput_DefaultsToPlainInput(t *testing.T) {
	f := Field{Type: TypeNumber}
	if !f.HasInput("input") {
		t.Error("empty EnabledInputs should enable the plain input")
	}
	if f.HasInput("slider") {
		t.Error("empty EnabledInputs should not enable the slider")
	}

	f.Options.EnabledInputs = []string{"slider", "stepper"}
	if f.HasInput("input") {
		t.Error("explicit EnabledInputs should exclude the plain input")
	}
	if !f.HasInput("slider") || !f.HasInput("stepper") {
		t.Error("listed inputs should be enabled")
	}
}

func TestFieldClone_Independence(t *testing.T) {
	f := Field{
		Type:       TypeSingleChoice,
		Validation: []ValidationRule{{Type: RuleRequired, Value: true}},
		Options: Options{
			Choices: []Choice{{Value: "a", Label: "A"}},
			Layout:  &ChoiceLayout{Style: "columns", Columns: 2},
		},
	}
	c := f.Clone()
	c.Validation[0].Type = RulePattern
	c.Options.Choices[0].Value = "b"
	c.Options.Layout.Columns = 4

	if f.Validation[0].Type != RuleRequired {
		t.Error("clone shares Validation backing array")
	}
	if f.Options.Choices[0].Value != "a" {
		t.Error("clone shares Choices backing array")
	}
	if f.Options.Layout.Columns != 2 {
		t.Error("clone shares Layout pointer")
	}
}

func TestTemplate_Defaults(t *testing.T) {
	fld := Template(TypeSingleChoice)
	if fld.Type != TypeSingleChoice {
		t.Fatalf("Type = %s, want single-choice", fld.Type)
	}
	if len(fld.Options.Choices) == 0 {
		t.Error("choice template should carry starter options")
	}
	if fld.Options.DisplayAs != "radio" {
		t.Errorf("DisplayAs = %q, want radio", fld.Options.DisplayAs)
	}

	sec := Template(TypeSection)
	if sec.Label != "New Section" {
		t.Errorf("section label = %q, want New Section", sec.Label)
	}
}
