// Package convert produces the legacy schema dialect from the canonical
// form model. The transform is pure and one-directional: legacy documents
// are never converted back, old forms are rendered from the legacy shape
// directly.
package convert

import (
	"encoding/json"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/legacy"
)

// displayAsAliases normalizes canonical display names to the legacy
// vocabulary before they land in ui:options.
var displayAsAliases = map[string]string{
	"dropdown":      "select",
	"checkboxGroup": "checkboxes",
}

// Convert maps a form to its legacy schema document. The output is
// deterministic: converting an unchanged form twice yields structurally
// equal documents.
func Convert(f *form.Form) legacy.Document {
	doc := legacy.Document{
		Schema: legacy.Schema{
			Type:       "object",
			Properties: make(map[string]legacy.Property),
		},
		UISchema: legacy.UISchema{
			Fields: make(map[string]legacy.FieldUI),
		},
	}

	for _, fld := range f.Fields {
		if fld.Type == form.TypeSection {
			continue
		}
		doc.Schema.Properties[fld.ID] = property(fld)
		doc.UISchema.Fields[fld.ID] = fieldUI(fld)
		if fld.Required {
			doc.Schema.Required = append(doc.Schema.Required, fld.ID)
		}
	}

	doc.UISchema.Sections = make([]legacy.SectionUI, 0, len(f.Layout.Sections))
	for _, s := range f.Layout.Sections {
		order := make([]string, len(s.Fields))
		copy(order, s.Fields)
		doc.UISchema.Sections = append(doc.UISchema.Sections, legacy.SectionUI{
			ID:      s.ID,
			Title:   s.Title,
			Order:   order,
			Styling: sectionStyling(s.Styling),
		})
	}
	return doc
}

func property(fld form.Field) legacy.Property {
	p := legacy.Property{
		Title:       fld.Label,
		Description: fld.Description,
	}
	switch fld.Type {
	case form.TypeText:
		p.Type = "string"
	case form.TypeNumber:
		p.Type = "number"
		if min, ok := fld.MinRule(); ok {
			p.Minimum = &min
		}
		if max, ok := fld.MaxRule(); ok {
			p.Maximum = &max
		}
	case form.TypeBoolean:
		p.Type = "boolean"
	case form.TypeDate:
		p.Type = "string"
		p.Format = "date"
	case form.TypeSingleChoice:
		p.Type = "string"
		p.Enum, p.EnumNames = enumLists(fld.Options.Choices)
	case form.TypeMultipleChoice:
		p.Type = "array"
		p.UniqueItems = true
		items := legacy.Items{Type: "string"}
		items.Enum, items.EnumNames = enumLists(fld.Options.Choices)
		p.Items = &items
	default:
		// Unknown types pass through as strings so the legacy renderer can
		// still show its diagnostic placeholder for them.
		p.Type = "string"
	}
	return p
}

func fieldUI(fld form.Field) legacy.FieldUI {
	ui := legacy.FieldUI{
		Widget:  widgetFor(fld),
		Options: optionsAsMap(fld.Options),
		Help:    fld.Description,
	}
	if alias, ok := displayAsAliases[fld.Options.DisplayAs]; ok {
		ui.Options["displayAs"] = alias
	}
	// Styling merges last so it wins over any stale option values.
	if fld.Styling.Color != "" {
		ui.Options["color"] = fld.Styling.Color
	}
	if fld.Styling.Width != "" {
		ui.Options["width"] = fld.Styling.Width
	}
	if fld.Styling.TextOverflow != "" {
		ui.Options["textOverflow"] = fld.Styling.TextOverflow
	}
	return ui
}

// widgetFor selects the legacy widget name by type and display mode.
func widgetFor(fld form.Field) string {
	switch fld.Type {
	case form.TypeText:
		if fld.Options.Variant == "autocomplete" {
			return "autocomplete"
		}
		return ""
	case form.TypeBoolean:
		if fld.Options.DisplayAs == "switch" {
			return "switch"
		}
		return "checkbox"
	case form.TypeDate:
		return "date"
	case form.TypeSingleChoice:
		switch fld.Options.DisplayAs {
		case "dropdown", "select":
			return "select"
		default: // radio and button-group render as the radio widget
			return "radio"
		}
	case form.TypeMultipleChoice:
		return "checkboxes"
	default:
		return ""
	}
}

func enumLists(choices []form.Choice) (values, labels []string) {
	if len(choices) == 0 {
		return nil, nil
	}
	values = make([]string, len(choices))
	labels = make([]string, len(choices))
	for i, c := range choices {
		values[i] = c.Value
		labels[i] = c.Label
	}
	return values, labels
}

// optionsAsMap copies the option bag verbatim through its JSON form.
func optionsAsMap(opts form.Options) map[string]any {
	data, err := json.Marshal(opts)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func sectionStyling(s form.SectionStyling) map[string]any {
	out := map[string]any{}
	if s.Color != "" {
		out["color"] = s.Color
	}
	if s.FontSize != "" {
		out["fontSize"] = s.FontSize
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
