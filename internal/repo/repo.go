// Package repo is the sqlite persistence collaborator behind the document
// store. Forms and value bags are stored as whole JSON documents — the
// engine exchanges in-memory documents only, so the database never needs to
// understand field structure.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/store"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS forms (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS forms_project_idx ON forms (project_id);

CREATE TABLE IF NOT EXISTS value_bags (
	form_id  TEXT PRIMARY KEY REFERENCES forms (id) ON DELETE CASCADE,
	document TEXT NOT NULL
);
`

// Repo wraps the sqlite handle. It implements store.Persistence.
type Repo struct {
	db *sql.DB
}

// Open connects to the sqlite database and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Repo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Repo{db: db}, nil
}

// Close releases the database handle.
func (r *Repo) Close() error {
	return r.db.Close()
}

// SaveForm upserts the form document keyed by its id.
func (r *Repo) SaveForm(ctx context.Context, f *form.Form) error {
	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding form %s: %w", f.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO forms (id, project_id, name, document, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			project_id = excluded.project_id,
			name       = excluded.name,
			document   = excluded.document,
			updated_at = excluded.updated_at`,
		f.ID, f.ProjectID, f.Name, string(doc), f.UpdatedAt.Format("2006-01-02T15:04:05.999999999Z07:00"))
	if err != nil {
		return fmt.Errorf("saving form %s: %w", f.ID, err)
	}
	return nil
}

// LoadForm fetches a form document by id. Returns store.ErrNotFound when
// the id is absent.
func (r *Repo) LoadForm(ctx context.Context, id string) (*form.Form, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM forms WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading form %s: %w", id, err)
	}
	var f form.Form
	if err := json.Unmarshal([]byte(doc), &f); err != nil {
		return nil, fmt.Errorf("decoding form %s: %w", id, err)
	}
	return &f, nil
}

// DeleteForm removes a form and, via the cascade, its value bag.
func (r *Repo) DeleteForm(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting form %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListForms returns all form documents, optionally filtered by project,
// most recently updated first.
func (r *Repo) ListForms(ctx context.Context, projectID string) ([]*form.Form, error) {
	query := `SELECT document FROM forms ORDER BY updated_at DESC`
	args := []any{}
	if projectID != "" {
		query = `SELECT document FROM forms WHERE project_id = ? ORDER BY updated_at DESC`
		args = append(args, projectID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	defer rows.Close()

	var out []*form.Form
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var f form.Form
		if err := json.Unmarshal([]byte(doc), &f); err != nil {
			return nil, fmt.Errorf("decoding form document: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// SaveValues upserts the value bag for a form.
func (r *Repo) SaveValues(ctx context.Context, formID string, values map[string]any) error {
	doc, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding values for %s: %w", formID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO value_bags (form_id, document) VALUES (?, ?)
		ON CONFLICT (form_id) DO UPDATE SET document = excluded.document`,
		formID, string(doc))
	if err != nil {
		return fmt.Errorf("saving values for %s: %w", formID, err)
	}
	return nil
}

// LoadValues fetches the value bag for a form. A form with no recorded
// values yields an empty bag, not an error.
func (r *Repo) LoadValues(ctx context.Context, formID string) (map[string]any, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM value_bags WHERE form_id = ?`, formID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading values for %s: %w", formID, err)
	}
	values := map[string]any{}
	if err := json.Unmarshal([]byte(doc), &values); err != nil {
		return nil, fmt.Errorf("decoding values for %s: %w", formID, err)
	}
	return values, nil
}
