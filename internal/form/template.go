package form

// Template returns the default field definition for a type. The store stamps
// an id onto the returned field at creation time.
func Template(t FieldType) Field {
	switch t {
	case TypeText:
		return Field{
			Type:    TypeText,
			Label:   "Text Field",
			Options: Options{Placeholder: "Enter text"},
			Styling: Styling{Width: WidthNormal},
		}
	case TypeNumber:
		return Field{
			Type:    TypeNumber,
			Label:   "Number Field",
			Options: Options{EnabledInputs: []string{"input"}},
			Styling: Styling{Width: WidthNormal},
		}
	case TypeBoolean:
		return Field{
			Type:    TypeBoolean,
			Label:   "Yes/No Field",
			Options: Options{DisplayAs: "checkbox"},
			Styling: Styling{Width: WidthNormal},
		}
	case TypeDate:
		return Field{
			Type:    TypeDate,
			Label:   "Date Field",
			Styling: Styling{Width: WidthNormal},
		}
	case TypeSingleChoice:
		return Field{
			Type:  TypeSingleChoice,
			Label: "Single Choice Field",
			Options: Options{
				DisplayAs: "radio",
				Choices: []Choice{
					{Value: "option-1", Label: "Option 1"},
					{Value: "option-2", Label: "Option 2"},
				},
			},
			Styling: Styling{Width: WidthNormal},
		}
	case TypeMultipleChoice:
		return Field{
			Type:  TypeMultipleChoice,
			Label: "Multiple Choice Field",
			Options: Options{
				DisplayAs: "checkboxGroup",
				Choices: []Choice{
					{Value: "option-1", Label: "Option 1"},
					{Value: "option-2", Label: "Option 2"},
				},
			},
			Styling: Styling{Width: WidthNormal},
		}
	case TypeSection:
		return Field{
			Type:  TypeSection,
			Label: "New Section",
		}
	default:
		// Unknown types still get a renderable definition; the renderer
		// shows a diagnostic placeholder for them.
		return Field{Type: t, Label: string(t)}
	}
}
