package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinformatics/formstudio/internal/catalog"
	"github.com/clinformatics/formstudio/internal/store"
)

// TemplateHandler implements HTTP handlers for the template catalog.
type TemplateHandler struct {
	catalog  *catalog.Catalog
	sessions *store.Manager
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(c *catalog.Catalog, sessions *store.Manager) *TemplateHandler {
	return &TemplateHandler{catalog: c, sessions: sessions}
}

// ListTemplates lists the catalog entries.
// GET /v1/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.catalog.List()})
}

// GetTemplate returns one template body.
// GET /v1/templates/{name}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tpl, ok := h.catalog.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown template: "+name)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// InstantiateTemplate creates a new form from a template and persists it.
// POST /v1/templates/{name}/instantiate
func (h *TemplateHandler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tpl, ok := h.catalog.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown template: "+name)
		return
	}
	var req struct {
		ProjectID string `json:"projectId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PROJECT", "projectId is required")
		return
	}

	sess := h.sessions.Instantiate(req.ProjectID, tpl.Body())
	if err := sess.Save(r.Context()); err != nil {
		storeErrorToHTTP(w, err, sess.Errors())
		return
	}
	writeJSON(w, http.StatusCreated, sess.Form())
}
