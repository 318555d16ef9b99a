package legacyrender

import (
	"strings"
	"testing"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/legacy"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func minDoc(props map[string]legacy.Property, fields map[string]legacy.FieldUI, order []string) legacy.Document {
	return legacy.Document{
		Schema: legacy.Schema{Type: "object", Properties: props},
		UISchema: legacy.UISchema{
			Fields: fields,
			Sections: []legacy.SectionUI{
				{ID: "main", Title: "Main", Order: order},
			},
		},
	}
}

func TestFormFromDocument_SectionsAndRequired(t *testing.T) {
	doc := minDoc(
		map[string]legacy.Property{
			"name": {Type: "string", Title: "Name"},
			"age":  {Type: "number", Title: "Age"},
		},
		map[string]legacy.FieldUI{},
		[]string{"name", "age"},
	)
	doc.Schema.Required = []string{"name"}

	f := FormFromDocument(doc)
	if len(f.Layout.Sections) != 1 || f.Layout.Sections[0].Title != "Main" {
		t.Fatalf("sections = %+v", f.Layout.Sections)
	}
	name := f.FieldByID("name")
	if name == nil || !name.Required {
		t.Error("required flag not applied")
	}
	age := f.FieldByID("age")
	if age == nil || age.Type != form.TypeNumber {
		t.Errorf("age = %+v, want number field", age)
	}
}

func TestFormFromDocument_UnlistedPropertiesSurvive(t *testing.T) {
	doc := minDoc(
		map[string]legacy.Property{
			"listed":   {Type: "string"},
			"unlisted": {Type: "string"},
		},
		map[string]legacy.FieldUI{},
		[]string{"listed"},
	)

	f := FormFromDocument(doc)
	if f.FieldByID("unlisted") == nil {
		t.Error("property absent from every section was dropped")
	}
}

func TestFieldFrom_WidgetRegistry(t *testing.T) {
	cases := []struct {
		widget string
		prop   legacy.Property
		want   form.FieldType
	}{
		{"text", legacy.Property{Type: "string"}, form.TypeText},
		{"autocomplete", legacy.Property{Type: "string", Enum: []string{"a"}}, form.TypeText},
		{"date", legacy.Property{Type: "string", Format: "date"}, form.TypeDate},
		{"switch", legacy.Property{Type: "boolean"}, form.TypeBoolean},
		{"radio", legacy.Property{Type: "string", Enum: []string{"a"}}, form.TypeSingleChoice},
		{"select", legacy.Property{Type: "string", Enum: []string{"a"}}, form.TypeSingleChoice},
		{"checkboxes", legacy.Property{Type: "array"}, form.TypeMultipleChoice},
		{"updown", legacy.Property{Type: "number"}, form.TypeNumber},
	}
	for _, tc := range cases {
		doc := minDoc(
			map[string]legacy.Property{"f": tc.prop},
			map[string]legacy.FieldUI{"f": {Widget: tc.widget}},
			[]string{"f"},
		)
		fld := FormFromDocument(doc).FieldByID("f")
		if fld.Type != tc.want {
			t.Errorf("widget %q: type = %s, want %s", tc.widget, fld.Type, tc.want)
		}
	}
}

func TestFieldFrom_SchemaTypeFallback(t *testing.T) {
	// No ui:widget named: the schema type picks the default widget.
	doc := minDoc(
		map[string]legacy.Property{
			"s": {Type: "string"},
			"n": {Type: "integer"},
			"b": {Type: "boolean"},
			"a": {Type: "array"},
		},
		map[string]legacy.FieldUI{},
		[]string{"s", "n", "b", "a"},
	)
	f := FormFromDocument(doc)

	want := map[string]form.FieldType{
		"s": form.TypeText,
		"n": form.TypeNumber,
		"b": form.TypeBoolean,
		"a": form.TypeMultipleChoice,
	}
	for id, typ := range want {
		if got := f.FieldByID(id).Type; got != typ {
			t.Errorf("%s: type = %s, want %s", id, got, typ)
		}
	}
}

func TestFieldFrom_NumberBoundsFromSchema(t *testing.T) {
	min, max := 1.0, 9.0
	doc := minDoc(
		map[string]legacy.Property{"n": {Type: "number", Minimum: &min, Maximum: &max}},
		map[string]legacy.FieldUI{},
		[]string{"n"},
	)
	fld := FormFromDocument(doc).FieldByID("n")
	if got, ok := fld.MinRule(); !ok || got != 1 {
		t.Errorf("min = %v, %v", got, ok)
	}
	if got, ok := fld.MaxRule(); !ok || got != 9 {
		t.Errorf("max = %v, %v", got, ok)
	}
}

func TestFieldFrom_UIOptionsApplied(t *testing.T) {
	doc := minDoc(
		map[string]legacy.Property{"c": {Type: "string", Enum: []string{"a", "b"}, EnumNames: []string{"A", "B"}}},
		map[string]legacy.FieldUI{"c": {
			Widget: "radio",
			Options: map[string]any{
				"displayAs": "button-group",
				"togglable": true,
				"color":     "#112233",
				"layout":    map[string]any{"style": "columns", "columns": float64(2)},
			},
		}},
		[]string{"c"},
	)
	fld := FormFromDocument(doc).FieldByID("c")
	if fld.Options.DisplayAs != "button-group" {
		t.Errorf("DisplayAs = %q", fld.Options.DisplayAs)
	}
	if !fld.Options.Togglable {
		t.Error("togglable not applied")
	}
	if fld.Styling.Color != "#112233" {
		t.Errorf("Color = %q", fld.Styling.Color)
	}
	if fld.Options.Layout == nil || fld.Options.Layout.Columns != 2 {
		t.Errorf("Layout = %+v", fld.Options.Layout)
	}
	if len(fld.Options.Choices) != 2 || fld.Options.Choices[1].Label != "B" {
		t.Errorf("Choices = %+v", fld.Options.Choices)
	}
}

func TestRenderDocument_UnknownWidgetDiagnostic(t *testing.T) {
	doc := minDoc(
		map[string]legacy.Property{"x": {Type: "string", Title: "X"}},
		map[string]legacy.FieldUI{"x": {Widget: "hologram"}},
		[]string{"x"},
	)

	r := newTestRenderer(t)
	html, err := r.RenderDocument(doc, nil)
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "cf-unsupported") {
		t.Error("diagnostic placeholder missing")
	}
	if !strings.Contains(out, "hologram") {
		t.Errorf("unknown widget name missing:\n%s", out)
	}
}

func TestRenderDocument_ValuesResolved(t *testing.T) {
	doc := minDoc(
		map[string]legacy.Property{"name": {Type: "string", Title: "Name"}},
		map[string]legacy.FieldUI{},
		[]string{"name"},
	)

	r := newTestRenderer(t)
	html, err := r.RenderDocument(doc, map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if !strings.Contains(string(html), `value="Grace"`) {
		t.Errorf("stored value missing:\n%s", html)
	}
}
