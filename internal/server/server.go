// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinformatics/formstudio/internal/catalog"
	"github.com/clinformatics/formstudio/internal/handler"
	"github.com/clinformatics/formstudio/internal/live"
	"github.com/clinformatics/formstudio/internal/render"
	"github.com/clinformatics/formstudio/internal/repo"
	"github.com/clinformatics/formstudio/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port    int
	Repo    *repo.Repo
	Catalog *catalog.Catalog
}

// Run starts the HTTP server with all routes registered.
func Run(ctx context.Context, cfg Config) error {
	router, err := NewRouter(cfg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	return srv.ListenAndServe()
}

// NewRouter assembles the route tree.
func NewRouter(cfg Config) (chi.Router, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("parsing widget templates: %w", err)
	}

	sessions := store.NewManager(cfg.Repo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- FormService ---
	fh := handler.NewFormHandler(cfg.Repo, sessions, renderer)
	lh := live.NewHandler(sessions, renderer)
	r.Route("/v1/forms", func(r chi.Router) {
		r.Post("/", fh.CreateForm)
		r.Get("/", fh.ListForms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", fh.GetForm)
			r.Patch("/", fh.UpdateMeta)
			r.Delete("/", fh.DeleteForm)
			r.Post("/save", fh.SaveForm)
			r.Get("/schema", fh.GetSchema)
			r.Get("/render", fh.RenderForm)
			r.Post("/fields", fh.AddField)
			r.Route("/fields/{field_id}", func(r chi.Router) {
				r.Patch("/", fh.UpdateField)
				r.Delete("/", fh.RemoveField)
				r.Put("/rules", fh.SetValidationRule)
				r.Post("/move", fh.MoveField)
				r.Post("/duplicate", fh.DuplicateField)
			})
			r.Post("/sections", fh.AddSection)
			r.Route("/sections/{section_id}", func(r chi.Router) {
				r.Patch("/", fh.UpdateSection)
				r.Delete("/", fh.RemoveSection)
			})
			r.Get("/values", fh.GetValues)
			r.Put("/values/{field_id}", fh.SetValue)
			r.Get("/live", lh.ServeHTTP)
		})
	})
	r.Post("/v1/render/legacy", fh.RenderLegacy)

	// --- TemplateService ---
	th := handler.NewTemplateHandler(cfg.Catalog, sessions)
	r.Get("/v1/templates", th.ListTemplates)
	r.Get("/v1/templates/{name}", th.GetTemplate)
	r.Post("/v1/templates/{name}/instantiate", th.InstantiateTemplate)

	return r, nil
}
