// cmd/formrender renders a form document to an HTML fragment from the
// command line.
//
// It reads a canonical form JSON file (or a legacy schema document with
// -legacy), optionally merges a value bag, and writes the rendered
// fragment to stdout or -o. With -schema it emits the legacy schema
// conversion as JSON instead of HTML.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clinformatics/formstudio/internal/convert"
	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/legacy"
	"github.com/clinformatics/formstudio/internal/legacyrender"
	"github.com/clinformatics/formstudio/internal/render"
)

func main() {
	var (
		inPath     = flag.String("in", "", "path to the form JSON document (required)")
		valuesPath = flag.String("values", "", "path to a value bag JSON file")
		outPath    = flag.String("o", "", "output file (default stdout)")
		asLegacy   = flag.Bool("legacy", false, "treat the input as a legacy schema document")
		toSchema   = flag.Bool("schema", false, "emit the legacy schema conversion instead of HTML")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	values := map[string]any{}
	if *valuesPath != "" {
		if err := readJSON(*valuesPath, &values); err != nil {
			log.Fatalf("reading values: %v", err)
		}
	}

	out, err := run(*inPath, values, *asLegacy, *toSchema)
	if err != nil {
		log.Fatal(err)
	}

	if *outPath == "" {
		fmt.Print(string(out))
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}

func run(inPath string, values map[string]any, asLegacy, toSchema bool) ([]byte, error) {
	if asLegacy {
		var doc legacy.Document
		if err := readJSON(inPath, &doc); err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
		if toSchema {
			return nil, fmt.Errorf("-schema requires a canonical form document")
		}
		r, err := legacyrender.New()
		if err != nil {
			return nil, err
		}
		html, err := r.RenderDocument(doc, values)
		if err != nil {
			return nil, fmt.Errorf("rendering document: %w", err)
		}
		return []byte(html), nil
	}

	var f form.Form
	if err := readJSON(inPath, &f); err != nil {
		return nil, fmt.Errorf("reading form: %w", err)
	}

	if toSchema {
		out, err := json.MarshalIndent(convert.Convert(&f), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}

	r, err := render.New()
	if err != nil {
		return nil, err
	}
	html, err := r.RenderForm(&f, values)
	if err != nil {
		return nil, fmt.Errorf("rendering form: %w", err)
	}
	return []byte(html), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
