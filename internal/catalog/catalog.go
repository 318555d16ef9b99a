// Package catalog is the read-only library of pre-built form bodies. The
// templates are authored in CUE, compiled and validated at startup, and
// instantiated into fresh forms by the store (which stamps identity and
// timestamps).
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/clinformatics/formstudio/internal/form"
)

//go:embed templates/*.cue
var templateFS embed.FS

// Template is one named catalog entry. Form carries no id, project or
// timestamps; those are stamped at instantiation.
type Template struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Form        struct {
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Version     int          `json:"version"`
		Fields      []form.Field `json:"fields"`
		Layout      form.Layout  `json:"layout"`
	} `json:"form"`
}

// Body materializes the template's form body as a standalone document,
// ready for the store to stamp identity onto.
func (t Template) Body() *form.Form {
	f := &form.Form{
		Name:        t.Form.Name,
		Description: t.Form.Description,
		Version:     t.Form.Version,
		Fields:      t.Form.Fields,
		Layout:      t.Form.Layout,
	}
	return f.Clone()
}

// Info is the listing view of a template.
type Info struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog holds the compiled templates keyed by name.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// Load compiles every embedded CUE template. A template that fails to
// compile, validate, or decode fails the whole load; the catalog ships with
// the binary and must be coherent.
func Load() (*Catalog, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("reading template dir: %w", err)
	}

	cctx := cuecontext.New()
	c := &Catalog{templates: make(map[string]Template)}
	for _, entry := range entries {
		path := "templates/" + entry.Name()
		data, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		v := cctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("compiling %s: %w", path, err)
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		var t Template
		if err := v.Decode(&t); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("%s: template name is required", path)
		}
		if _, dup := c.templates[t.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate template %q", path, t.Name)
		}
		c.templates[t.Name] = t
		c.order = append(c.order, t.Name)
	}
	sort.Strings(c.order)
	return c, nil
}

// List returns template infos in name order.
func (c *Catalog) List() []Info {
	out := make([]Info, 0, len(c.order))
	for _, name := range c.order {
		t := c.templates[name]
		out = append(out, Info{Name: t.Name, Title: t.Title, Description: t.Description})
	}
	return out
}

// Get looks up a template by name.
func (c *Catalog) Get(name string) (Template, bool) {
	t, ok := c.templates[name]
	return t, ok
}
