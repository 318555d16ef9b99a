// Package legacy holds the older JSON-Schema + ui-schema dual representation
// of a form, retained for backward compatibility. It is a derived view: the
// canonical model is authoritative and the convert package regenerates this
// shape on demand. Old stored forms are rendered from it directly.
package legacy

import "encoding/json"

// Document pairs the JSON-Schema-like schema with its ui-schema.
type Document struct {
	Schema   Schema   `json:"schema"`
	UISchema UISchema `json:"uiSchema"`
}

// Schema is the JSON-Schema-like half. Properties are keyed by field id.
type Schema struct {
	Type       string              `json:"type"` // always "object"
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one field in the legacy dialect.
type Property struct {
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Format      string   `json:"format,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	EnumNames   []string `json:"enumNames,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Items       *Items   `json:"items,omitempty"`
	UniqueItems bool     `json:"uniqueItems,omitempty"`
}

// Items describes the element schema of an array property.
type Items struct {
	Type      string   `json:"type"`
	Enum      []string `json:"enum,omitempty"`
	EnumNames []string `json:"enumNames,omitempty"`
}

// FieldUI is the per-field ui-schema entry.
type FieldUI struct {
	Widget  string         `json:"ui:widget,omitempty"`
	Options map[string]any `json:"ui:options,omitempty"`
	Help    string         `json:"ui:help,omitempty"`
}

// SectionUI is one entry of the ui:sections array. Order preserves the
// canonical section's field order verbatim.
type SectionUI struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Order   []string       `json:"ui:order"`
	Styling map[string]any `json:"styling,omitempty"`
}

// UISchema is keyed by field id on the wire, with the ui:sections array as
// a sibling key. The Go representation keeps the two apart; marshaling
// flattens them into the historical layout.
type UISchema struct {
	Fields   map[string]FieldUI
	Sections []SectionUI
}

// MarshalJSON emits field entries keyed by id plus the "ui:sections" key.
func (u UISchema) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(u.Fields)+1)
	for id, fu := range u.Fields {
		flat[id] = fu
	}
	if u.Sections != nil {
		flat["ui:sections"] = u.Sections
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat wire object back into fields and sections.
func (u *UISchema) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	u.Fields = make(map[string]FieldUI, len(flat))
	for key, raw := range flat {
		if key == "ui:sections" {
			if err := json.Unmarshal(raw, &u.Sections); err != nil {
				return err
			}
			continue
		}
		var fu FieldUI
		if err := json.Unmarshal(raw, &fu); err != nil {
			return err
		}
		u.Fields[key] = fu
	}
	return nil
}
