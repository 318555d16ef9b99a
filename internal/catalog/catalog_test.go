package catalog

import (
	"testing"

	"github.com/clinformatics/formstudio/internal/form"
)

func TestLoad_CompilesEmbeddedTemplates(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	infos := c.List()
	if len(infos) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, info := range infos {
		if info.Name == "" || info.Title == "" {
			t.Errorf("incomplete listing entry: %+v", info)
		}
	}
}

func TestGet_PatientIntake(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tpl, ok := c.Get("patient-intake")
	if !ok {
		t.Fatal("patient-intake template missing")
	}

	body := tpl.Body()
	if body.Name == "" {
		t.Error("template body has no form name")
	}
	if len(body.Fields) == 0 || len(body.Layout.Sections) == 0 {
		t.Fatal("template body is structurally empty")
	}
	// Identity is stamped at instantiation, never authored.
	if body.ID != "" || body.ProjectID != "" {
		t.Error("template body carries identity")
	}

	// Every section field id resolves, and section fields stay out of the
	// section lists.
	for _, sec := range body.Layout.Sections {
		if body.FieldByID(sec.ID) == nil {
			t.Errorf("section %s has no paired field", sec.ID)
		}
		for _, id := range sec.Fields {
			fld := body.FieldByID(id)
			if fld == nil {
				t.Errorf("section %s references unknown field %s", sec.ID, id)
				continue
			}
			if fld.Type == form.TypeSection {
				t.Errorf("section field %s listed inside a section", id)
			}
		}
	}
}

func TestGet_UnknownName(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Get("no-such-template"); ok {
		t.Error("unknown name resolved")
	}
}

func TestBody_ReturnsIndependentCopies(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tpl, ok := c.Get("vitals-panel")
	if !ok {
		t.Fatal("vitals-panel template missing")
	}

	a := tpl.Body()
	b := tpl.Body()
	a.Fields[0].Label = "mutated"
	if b.Fields[0].Label == "mutated" {
		t.Error("template bodies share field storage")
	}
}
