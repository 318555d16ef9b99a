// Package value resolves the polymorphic stored value of a field into the
// shape each widget expects, and folds UI edits back into the stored shape.
//
// Stored shapes are per type: plain scalars for text/number/date/boolean,
// {selected, custom} for autocomplete text and multiple-choice (with a
// legacy {selected, otherValue} sibling shape still accepted on read), and
// a plain string for single-choice. Any of these may additionally be
// wrapped as {value, toggled} when the field is togglable.
//
// Normalization never fails: unexpected shapes degrade to the empty value,
// since value bags may be persisted across schema-version changes.
package value

import "github.com/clinformatics/formstudio/internal/form"

// OtherEmpty is the sentinel for "Other selected, no text entered yet" on
// radio-style single-choice displays with a text fallback.
const OtherEmpty = "__OTHER_EMPTY__"

// hasToggleWrapper reports whether stored is a {value, toggled} wrapper.
// The co-presence of both keys is what distinguishes the wrapper from a raw
// {selected, custom} shape, which never carries "toggled".
func hasToggleWrapper(stored any) bool {
	m, ok := stored.(map[string]any)
	if !ok {
		return false
	}
	_, hasValue := m["value"]
	_, hasToggled := m["toggled"]
	return hasValue && hasToggled
}

// Unwrap strips the togglable wrapper when present. The second return is
// nil when the stored value carried no wrapper.
func Unwrap(_ form.Field, stored any) (raw any, toggled *bool) {
	if !hasToggleWrapper(stored) {
		return stored, nil
	}
	m := stored.(map[string]any)
	on := asBool(m["toggled"])
	return m["value"], &on
}

// Rewrap merges newRaw back into the stored value, preserving an existing
// togglable wrapper's toggled flag. When no wrapper was present the raw
// value is returned directly, so unwrap-then-rewrap with an unchanged raw
// value is the identity.
func Rewrap(_ form.Field, stored any, newRaw any) any {
	if !hasToggleWrapper(stored) {
		return newRaw
	}
	m := stored.(map[string]any)
	return map[string]any{"value": newRaw, "toggled": asBool(m["toggled"])}
}

// SetToggled flips the wrapper flag, creating the wrapper when the field is
// togglable but the stored value was never wrapped.
func SetToggled(f form.Field, stored any, on bool) any {
	if hasToggleWrapper(stored) {
		m := stored.(map[string]any)
		return map[string]any{"value": m["value"], "toggled": on}
	}
	if !f.Options.Togglable {
		return stored
	}
	return map[string]any{"value": stored, "toggled": on}
}

// IsPredefined reports whether raw matches one of the field's choice
// values. A non-string raw is never predefined.
func IsPredefined(f form.Field, raw any) bool {
	s, ok := raw.(string)
	if !ok {
		return false
	}
	for _, c := range f.Options.Choices {
		if c.Value == s {
			return true
		}
	}
	return false
}

// ApplyChange folds an edited raw value into the stored value: multi-select
// shapes are normalized to the preferred {selected, custom} write shape,
// and an existing togglable wrapper is preserved.
func ApplyChange(f form.Field, stored any, newRaw any) any {
	switch f.Type {
	case form.TypeMultipleChoice:
		newRaw = MultiFrom(newRaw).Encode()
	case form.TypeText:
		if f.Options.Variant == "autocomplete" {
			newRaw = MultiFrom(newRaw).Encode()
		}
	}
	return Rewrap(f, stored, newRaw)
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asStringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		out := make([]string, len(vs))
		copy(out, vs)
		return out
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
