package form

// FieldType classifies a field definition. The type is fixed at creation;
// changing a field's type is modeled as delete + recreate.
type FieldType string

const (
	TypeText           FieldType = "text"
	TypeNumber         FieldType = "number"
	TypeBoolean        FieldType = "boolean"
	TypeSingleChoice   FieldType = "single-choice"
	TypeMultipleChoice FieldType = "multiple-choice"
	TypeDate           FieldType = "date"
	TypeSection        FieldType = "section"
)

// Known reports whether t is one of the supported field types.
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeNumber, TypeBoolean, TypeSingleChoice,
		TypeMultipleChoice, TypeDate, TypeSection:
		return true
	}
	return false
}

// IsChoice reports whether the type carries a predefined option list.
func (t FieldType) IsChoice() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice
}

// RuleType identifies a validation rule kind.
type RuleType string

const (
	RuleRequired RuleType = "required"
	RuleMin      RuleType = "min"
	RuleMax      RuleType = "max"
	RulePattern  RuleType = "pattern"
)

// ValidationRule is one entry in a field's ordered rule list. For number
// fields at most one active min and one active max rule are meaningful;
// updates replace an existing rule of the same type rather than appending.
type ValidationRule struct {
	Type    RuleType `json:"type"`
	Value   any      `json:"value,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Choice is one predefined option of a choice field. Value is what gets
// stored; Label is what gets displayed.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ChoiceLayout controls how choice options wrap. Style "auto" flows options
// into as many columns as the width allows; "columns" pins a fixed grid.
type ChoiceLayout struct {
	Style   string `json:"style"` // "auto" or "columns"
	Columns int    `json:"columns,omitempty"`
}

// Options is the per-type option bag. The vocabulary is fixed per field
// type; keys that don't apply to a type are simply left zero and omitted
// from the wire form.
type Options struct {
	// Choices applies to single-choice, multiple-choice, and autocomplete
	// text fields.
	Choices []Choice `json:"choices,omitempty"`
	// DisplayAs selects the widget variant: radio/dropdown/button-group for
	// single-choice, checkboxGroup/button-group for multiple-choice,
	// checkbox/switch for boolean.
	DisplayAs string `json:"displayAs,omitempty"`
	// Variant distinguishes plain text input from the multi-tag
	// autocomplete ("autocomplete").
	Variant string `json:"variant,omitempty"`
	// Togglable wraps the stored value in {value, toggled} and renders a
	// header switch that collapses the control.
	Togglable bool `json:"togglable,omitempty"`
	// TextFallback enables the free-text "Other" escape hatch on
	// single-choice fields.
	TextFallback bool `json:"textFallback,omitempty"`
	// EnabledInputs lists the simultaneously enabled number inputs:
	// "input", "slider", "stepper".
	EnabledInputs []string `json:"enabledInputs,omitempty"`
	// Layout applies to choice fields only.
	Layout *ChoiceLayout `json:"layout,omitempty"`
	// Placeholder is shown in empty text/number inputs.
	Placeholder string `json:"placeholder,omitempty"`
}

// Styling holds presentation-only attributes. It never affects validation
// or the stored value shape.
type Styling struct {
	Color        string `json:"color,omitempty"`
	Width        string `json:"width,omitempty"` // "compact", "normal", "wide"
	TextOverflow string `json:"textOverflow,omitempty"`
}

// Field is one input definition. A field of type section carries no value;
// it exists 1:1 with a Section in the form layout and never appears inside
// any section's field list.
type Field struct {
	ID           string           `json:"id"`
	Type         FieldType        `json:"type"`
	Label        string           `json:"label"`
	Description  string           `json:"description,omitempty"`
	Required     bool             `json:"required,omitempty"`
	Validation   []ValidationRule `json:"validation,omitempty"`
	Options      Options          `json:"options"`
	Styling      Styling          `json:"styling"`
	DefaultValue any              `json:"defaultValue,omitempty"`
}

// HasInput reports whether the number field enables the named input kind.
// An empty EnabledInputs list means only the plain numeric input.
func (f Field) HasInput(kind string) bool {
	if len(f.Options.EnabledInputs) == 0 {
		return kind == "input"
	}
	for _, k := range f.Options.EnabledInputs {
		if k == kind {
			return true
		}
	}
	return false
}

// MinRule returns the numeric value of the field's min rule, if present.
func (f Field) MinRule() (float64, bool) {
	return f.numericRule(RuleMin)
}

// MaxRule returns the numeric value of the field's max rule, if present.
func (f Field) MaxRule() (float64, bool) {
	return f.numericRule(RuleMax)
}

func (f Field) numericRule(t RuleType) (float64, bool) {
	for _, r := range f.Validation {
		if r.Type != t {
			continue
		}
		switch v := r.Value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// SetValidationRule replaces the existing rule of the same type, or appends
// when none exists. Rule order is otherwise preserved.
func (f *Field) SetValidationRule(rule ValidationRule) {
	for i, r := range f.Validation {
		if r.Type == rule.Type {
			f.Validation[i] = rule
			return
		}
	}
	f.Validation = append(f.Validation, rule)
}

// RemoveValidationRule drops all rules of the given type.
func (f *Field) RemoveValidationRule(t RuleType) {
	out := f.Validation[:0]
	for _, r := range f.Validation {
		if r.Type != t {
			out = append(out, r)
		}
	}
	f.Validation = out
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	c := f
	if f.Validation != nil {
		c.Validation = make([]ValidationRule, len(f.Validation))
		copy(c.Validation, f.Validation)
	}
	if f.Options.Choices != nil {
		c.Options.Choices = make([]Choice, len(f.Options.Choices))
		copy(c.Options.Choices, f.Options.Choices)
	}
	if f.Options.EnabledInputs != nil {
		c.Options.EnabledInputs = make([]string, len(f.Options.EnabledInputs))
		copy(c.Options.EnabledInputs, f.Options.EnabledInputs)
	}
	if f.Options.Layout != nil {
		l := *f.Options.Layout
		c.Options.Layout = &l
	}
	return c
}
