package value

import (
	"reflect"
	"testing"

	"github.com/clinformatics/formstudio/internal/form"
)

func TestUnwrap_PlainValue(t *testing.T) {
	f := form.Field{Type: form.TypeText}
	raw, toggled := Unwrap(f, "hello")
	if raw != "hello" {
		t.Errorf("raw = %v, want hello", raw)
	}
	if toggled != nil {
		t.Errorf("toggled = %v, want nil", *toggled)
	}
}

func TestUnwrap_ToggleWrapper(t *testing.T) {
	f := form.Field{Type: form.TypeText, Options: form.Options{Togglable: true}}
	stored := map[string]any{"value": "hi", "toggled": true}

	raw, toggled := Unwrap(f, stored)
	if raw != "hi" {
		t.Errorf("raw = %v, want hi", raw)
	}
	if toggled == nil || !*toggled {
		t.Errorf("toggled = %v, want true", toggled)
	}
}

func TestUnwrap_SelectedCustomIsNotAWrapper(t *testing.T) {
	// {selected, custom} has map shape but no value/toggled co-presence.
	f := form.Field{Type: form.TypeMultipleChoice}
	stored := map[string]any{"selected": []any{"a"}, "custom": []any{}}

	raw, toggled := Unwrap(f, stored)
	if toggled != nil {
		t.Error("multi shape must not be treated as a toggle wrapper")
	}
	if !reflect.DeepEqual(raw, stored) {
		t.Errorf("raw = %v, want stored shape unchanged", raw)
	}
}

func TestRewrap_RoundTripIdentity(t *testing.T) {
	f := form.Field{Type: form.TypeText, Options: form.Options{Togglable: true}}

	cases := []any{
		"plain",
		map[string]any{"value": "wrapped", "toggled": false},
		map[string]any{"value": float64(7), "toggled": true},
	}
	for _, stored := range cases {
		raw, _ := Unwrap(f, stored)
		got := Rewrap(f, stored, raw)
		if !reflect.DeepEqual(got, stored) {
			t.Errorf("unwrap-rewrap(%v) = %v, want identity", stored, got)
		}
	}
}

func TestRewrap_NeverInventsWrapper(t *testing.T) {
	f := form.Field{Type: form.TypeText, Options: form.Options{Togglable: true}}
	got := Rewrap(f, "old", "new")
	if got != "new" {
		t.Errorf("got %v, want bare new value", got)
	}
}

func TestSetToggled(t *testing.T) {
	f := form.Field{Type: form.TypeText, Options: form.Options{Togglable: true}}

	// Creates the wrapper on first toggle.
	got := SetToggled(f, "hello", false)
	want := map[string]any{"value": "hello", "toggled": false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Flips in place on an existing wrapper.
	got = SetToggled(f, got, true)
	if m := got.(map[string]any); m["toggled"] != true || m["value"] != "hello" {
		t.Errorf("got %v, want toggled=true value=hello", got)
	}

	// Non-togglable fields pass through untouched.
	plain := form.Field{Type: form.TypeText}
	if got := SetToggled(plain, "x", true); got != "x" {
		t.Errorf("got %v, want x", got)
	}
}

func TestResolve_SingleChoiceFallback(t *testing.T) {
	f := form.Field{
		Type: form.TypeSingleChoice,
		Options: form.Options{
			TextFallback: true,
			Choices:      []form.Choice{{Value: "mild", Label: "Mild"}, {Value: "severe", Label: "Severe"}},
		},
	}

	// A predefined choice value.
	r := Resolve(f, "mild")
	if !r.Predefined || r.OtherSelected() || r.FallbackText() != "" {
		t.Errorf("predefined: %+v", r)
	}

	// Free text means Other is active and the input shows it.
	r = Resolve(f, "self-reported")
	if r.Predefined {
		t.Error("free text resolved as predefined")
	}
	if !r.OtherSelected() {
		t.Error("free text should select the Other option")
	}
	if r.FallbackText() != "self-reported" {
		t.Errorf("FallbackText = %q, want self-reported", r.FallbackText())
	}

	// The sentinel selects Other with an empty input.
	r = Resolve(f, OtherEmpty)
	if !r.OtherSelected() {
		t.Error("sentinel should select the Other option")
	}
	if r.FallbackText() != "" {
		t.Errorf("FallbackText = %q, want empty for sentinel", r.FallbackText())
	}
}

func TestResolve_NilUsesDefault(t *testing.T) {
	f := form.Field{Type: form.TypeNumber, DefaultValue: float64(37)}
	r := Resolve(f, nil)
	if r.Number == nil || *r.Number != 37 {
		t.Errorf("Number = %v, want 37", r.Number)
	}
}

func TestResolve_UnexpectedShapeDegradesToEmpty(t *testing.T) {
	f := form.Field{Type: form.TypeNumber}
	r := Resolve(f, "not a number")
	if r.Number != nil {
		t.Errorf("Number = %v, want nil", *r.Number)
	}

	f = form.Field{Type: form.TypeText}
	r = Resolve(f, map[string]any{"junk": true})
	if r.Text != "" {
		t.Errorf("Text = %q, want empty", r.Text)
	}
}

func TestApplyChange_NormalizesMultiAndKeepsWrapper(t *testing.T) {
	f := form.Field{Type: form.TypeMultipleChoice, Options: form.Options{Togglable: true}}
	stored := map[string]any{
		"value":   map[string]any{"selected": []any{"a"}, "custom": []any{}},
		"toggled": true,
	}

	got := ApplyChange(f, stored, []any{"a", "b"})
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T, want wrapper map", got)
	}
	if m["toggled"] != true {
		t.Error("wrapper toggled flag lost")
	}
	inner, ok := m["value"].(map[string]any)
	if !ok {
		t.Fatalf("inner value %T, want map", m["value"])
	}
	if !reflect.DeepEqual(inner["selected"], []string{"a", "b"}) {
		t.Errorf("selected = %v, want [a b]", inner["selected"])
	}
}
