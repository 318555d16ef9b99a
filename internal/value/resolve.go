package value

import "github.com/clinformatics/formstudio/internal/form"

// Kind is the resolved value variant for a field type.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindDate
	KindChoice
	KindMulti
	KindTags
	KindNone // section and unknown types carry no value
)

// KindOf maps a field definition to its value variant.
func KindOf(f form.Field) Kind {
	switch f.Type {
	case form.TypeText:
		if f.Options.Variant == "autocomplete" {
			return KindTags
		}
		return KindText
	case form.TypeNumber:
		return KindNumber
	case form.TypeBoolean:
		return KindBool
	case form.TypeDate:
		return KindDate
	case form.TypeSingleChoice:
		return KindChoice
	case form.TypeMultipleChoice:
		return KindMulti
	default:
		return KindNone
	}
}

// Resolved is a field's stored value normalized for rendering. Exactly one
// of the variant members is meaningful, selected by Kind.
type Resolved struct {
	Kind    Kind
	Toggled *bool // nil when the stored value carried no togglable wrapper

	Text   string
	Number *float64
	Bool   bool
	Date   string

	// Choice carries the single-choice raw string. Predefined is true when
	// it matches a known choice value; otherwise the string is fallback
	// text (or the OtherEmpty sentinel).
	Choice     string
	Predefined bool

	// Multi is shared by multiple-choice and autocomplete-text values.
	Multi MultiSelection
}

// Resolve normalizes a stored value against the field's expected shape.
// When stored is nil the field's default value is resolved instead.
func Resolve(f form.Field, stored any) Resolved {
	if stored == nil {
		stored = f.DefaultValue
	}
	raw, toggled := Unwrap(f, stored)
	r := Resolved{Kind: KindOf(f), Toggled: toggled}

	switch r.Kind {
	case KindText:
		r.Text = asString(raw)
	case KindNumber:
		if n, ok := asFloat(raw); ok {
			r.Number = &n
		}
	case KindBool:
		r.Bool = asBool(raw)
	case KindDate:
		r.Date = asString(raw)
	case KindChoice:
		r.Choice = asString(raw)
		r.Predefined = IsPredefined(f, r.Choice)
	case KindMulti, KindTags:
		r.Multi = MultiFrom(raw)
	}
	return r
}

// FallbackText returns the free text a single-choice fallback input should
// show: the raw value when it isn't a known choice, empty for the sentinel.
func (r Resolved) FallbackText() string {
	if r.Kind != KindChoice || r.Predefined || r.Choice == OtherEmpty {
		return ""
	}
	return r.Choice
}

// OtherSelected reports whether the single-choice fallback option is the
// active selection: either free text was typed or the sentinel is stored.
func (r Resolved) OtherSelected() bool {
	return r.Kind == KindChoice && r.Choice != "" && !r.Predefined
}
