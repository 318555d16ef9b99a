package value

// MultiSelection is the decoded form of a structured multi-select value:
// predefined choice values in Selected, free-typed entries in Custom. It
// also carries the legacy {selected, otherValue} sibling shape so that
// choice toggles on old documents leave the other-text untouched.
type MultiSelection struct {
	Selected   []string
	Custom     []string
	OtherValue string
	legacy     bool
}

// MultiFrom decodes a stored multi-select value. Unexpected shapes decode
// to the empty selection.
func MultiFrom(raw any) MultiSelection {
	switch v := raw.(type) {
	case MultiSelection:
		return v
	case map[string]any:
		m := MultiSelection{
			Selected: asStringSlice(v["selected"]),
			Custom:   asStringSlice(v["custom"]),
		}
		if ov, ok := v["otherValue"]; ok {
			m.OtherValue = asString(ov)
			if _, hasCustom := v["custom"]; !hasCustom {
				m.legacy = true
			}
		}
		return m
	case []any:
		// A bare array of choice values, seen in very old documents.
		return MultiSelection{Selected: asStringSlice(v)}
	case []string:
		return MultiSelection{Selected: asStringSlice(v)}
	}
	return MultiSelection{}
}

// Has reports whether the choice value is currently selected.
func (m MultiSelection) Has(choiceValue string) bool {
	for _, s := range m.Selected {
		if s == choiceValue {
			return true
		}
	}
	return false
}

// Toggle adds or removes a choice value from the selection. The custom and
// otherValue siblings are never touched.
func (m MultiSelection) Toggle(choiceValue string, on bool) MultiSelection {
	if on {
		if !m.Has(choiceValue) {
			m.Selected = append(append([]string(nil), m.Selected...), choiceValue)
		}
		return m
	}
	out := make([]string, 0, len(m.Selected))
	for _, s := range m.Selected {
		if s != choiceValue {
			out = append(out, s)
		}
	}
	m.Selected = out
	return m
}

// AddCustom appends a free-typed entry, skipping duplicates.
func (m MultiSelection) AddCustom(text string) MultiSelection {
	if text == "" {
		return m
	}
	for _, c := range m.Custom {
		if c == text {
			return m
		}
	}
	m.Custom = append(append([]string(nil), m.Custom...), text)
	return m
}

// RemoveCustom drops a free-typed entry.
func (m MultiSelection) RemoveCustom(text string) MultiSelection {
	out := make([]string, 0, len(m.Custom))
	for _, c := range m.Custom {
		if c != text {
			out = append(out, c)
		}
	}
	m.Custom = out
	return m
}

// Empty reports whether nothing is selected or typed.
func (m MultiSelection) Empty() bool {
	return len(m.Selected) == 0 && len(m.Custom) == 0 && m.OtherValue == ""
}

// Encode produces the stored shape. New selections write the preferred
// {selected, custom} shape; a selection decoded from the legacy
// {selected, otherValue} shape keeps that shape so the sibling survives.
func (m MultiSelection) Encode() map[string]any {
	selected := m.Selected
	if selected == nil {
		selected = []string{}
	}
	if m.legacy {
		return map[string]any{"selected": selected, "otherValue": m.OtherValue}
	}
	custom := m.Custom
	if custom == nil {
		custom = []string{}
	}
	return map[string]any{"selected": selected, "custom": custom}
}
