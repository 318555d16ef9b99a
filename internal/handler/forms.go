// Package handler implements the HTTP surface of the form service. Editing
// endpoints operate on live document sessions; list and delete go straight
// to the repository.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinformatics/formstudio/internal/convert"
	"github.com/clinformatics/formstudio/internal/form"
	"github.com/clinformatics/formstudio/internal/legacy"
	"github.com/clinformatics/formstudio/internal/legacyrender"
	"github.com/clinformatics/formstudio/internal/render"
	"github.com/clinformatics/formstudio/internal/repo"
	"github.com/clinformatics/formstudio/internal/store"
	"github.com/clinformatics/formstudio/internal/value"
)

// FormHandler implements HTTP handlers for FormService.
type FormHandler struct {
	repo     *repo.Repo
	sessions *store.Manager
	renderer *render.Renderer
	legacyr  *legacyrender.Renderer
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(r *repo.Repo, sessions *store.Manager, renderer *render.Renderer) *FormHandler {
	return &FormHandler{
		repo:     r,
		sessions: sessions,
		renderer: renderer,
		legacyr:  legacyrender.NewWith(renderer),
	}
}

// CreateForm creates a blank form and persists it.
// POST /v1/forms
func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID   string  `json:"projectId"`
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PROJECT", "projectId is required")
		return
	}

	sess := h.sessions.Create(req.ProjectID)
	sess.UpdateMeta(req.Name, req.Description)
	if err := sess.Save(r.Context()); err != nil {
		storeErrorToHTTP(w, err, sess.Errors())
		return
	}
	writeJSON(w, http.StatusCreated, sess.Form())
}

// ListForms lists persisted forms, optionally filtered by project.
// GET /v1/forms?project_id=...
func (h *FormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.repo.ListForms(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

// GetForm returns the current document for a form.
// GET /v1/forms/{id}
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Form())
}

// DeleteForm removes a form and its value bag.
// DELETE /v1/forms/{id}
func (h *FormHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteForm(r.Context(), id); err != nil {
		storeErrorToHTTP(w, err, nil)
		return
	}
	h.sessions.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateMeta patches the form name and description.
// PATCH /v1/forms/{id}
func (h *FormHandler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	sess.UpdateMeta(req.Name, req.Description)
	writeJSON(w, http.StatusOK, sess.Form())
}

// SaveForm validates and persists the in-edit document.
// POST /v1/forms/{id}/save
func (h *FormHandler) SaveForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		storeErrorToHTTP(w, err, sess.Errors())
		return
	}
	writeJSON(w, http.StatusOK, sess.Form())
}

// AddField appends a field of the requested type.
// POST /v1/forms/{id}/fields
func (h *FormHandler) AddField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var req struct {
		FieldType form.FieldType `json:"fieldType"`
		SectionID string         `json:"sectionId,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	fieldID := sess.AddField(req.FieldType, req.SectionID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"fieldId": fieldID,
		"form":    sess.Form(),
	})
}

// RemoveField deletes a field. Removing a section field removes the section.
// DELETE /v1/forms/{id}/fields/{field_id}
func (h *FormHandler) RemoveField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	sess.RemoveField(chi.URLParam(r, "field_id"))
	writeJSON(w, http.StatusOK, sess.Form())
}

// UpdateField patches field properties.
// PATCH /v1/forms/{id}/fields/{field_id}
func (h *FormHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var patch store.FieldPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	sess.UpdateField(chi.URLParam(r, "field_id"), patch)
	writeJSON(w, http.StatusOK, sess.Form())
}

// SetValidationRule upserts one validation rule on a field.
// PUT /v1/forms/{id}/fields/{field_id}/rules
func (h *FormHandler) SetValidationRule(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var rule form.ValidationRule
	if err := decodeJSON(r, &rule); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	sess.SetFieldValidationRule(chi.URLParam(r, "field_id"), rule)
	writeJSON(w, http.StatusOK, sess.Form())
}

// MoveField relocates a field to a position inside a section.
// POST /v1/forms/{id}/fields/{field_id}/move
func (h *FormHandler) MoveField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var req struct {
		SectionID string `json:"sectionId"`
		Index     int    `json:"index"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	sess.MoveField(chi.URLParam(r, "field_id"), req.SectionID, req.Index)
	writeJSON(w, http.StatusOK, sess.Form())
}

// DuplicateField clones a field next to the original.
// POST /v1/forms/{id}/fields/{field_id}/duplicate
func (h *FormHandler) DuplicateField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	copyID := sess.DuplicateField(chi.URLParam(r, "field_id"))
	writeJSON(w, http.StatusCreated, map[string]any{
		"fieldId": copyID,
		"form":    sess.Form(),
	})
}

// AddSection appends a new empty section.
// POST /v1/forms/{id}/sections
func (h *FormHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	sectionID := sess.AddSection()
	writeJSON(w, http.StatusCreated, map[string]any{
		"sectionId": sectionID,
		"form":      sess.Form(),
	})
}

// RemoveSection deletes a section and everything in it.
// DELETE /v1/forms/{id}/sections/{section_id}
func (h *FormHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	sess.RemoveSection(chi.URLParam(r, "section_id"))
	writeJSON(w, http.StatusOK, sess.Form())
}

// UpdateSection patches section properties.
// PATCH /v1/forms/{id}/sections/{section_id}
func (h *FormHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var patch store.SectionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	sess.UpdateSection(chi.URLParam(r, "section_id"), patch)
	writeJSON(w, http.StatusOK, sess.Form())
}

// GetSchema converts the document to the legacy schema dialect.
// GET /v1/forms/{id}/schema
func (h *FormHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, convert.Convert(sess.Form()))
}

// RenderForm renders the document as an HTML fragment using the stored
// value bag.
// GET /v1/forms/{id}/render
func (h *FormHandler) RenderForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	values, err := h.repo.LoadValues(r.Context(), sess.Form().ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	html, err := h.renderer.RenderForm(sess.Form(), values)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "RENDER_ERROR", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// RenderLegacy renders a posted legacy document.
// POST /v1/render/legacy
func (h *FormHandler) RenderLegacy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document legacy.Document `json:"document"`
		Values   map[string]any  `json:"values,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}
	html, err := h.legacyr.RenderDocument(req.Document, req.Values)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "RENDER_ERROR", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// GetValues returns the stored value bag for a form.
// GET /v1/forms/{id}/values
func (h *FormHandler) GetValues(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	values, err := h.repo.LoadValues(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": values})
}

// SetValue normalizes and stores one field value.
// PUT /v1/forms/{id}/values/{field_id}
func (h *FormHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	fieldID := chi.URLParam(r, "field_id")
	fld := sess.Form().FieldByID(fieldID)
	if fld == nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_FIELD", "unknown field: "+fieldID)
		return
	}
	var req struct {
		Value any `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	formID := sess.Form().ID
	values, err := h.repo.LoadValues(r.Context(), formID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	values[fieldID] = value.ApplyChange(*fld, values[fieldID], req.Value)
	if err := h.repo.SaveValues(r.Context(), formID, values); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": values})
}

// open resolves the session for the form id in the URL.
func (h *FormHandler) open(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return nil, false
	}
	sess, err := h.sessions.Open(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err, nil)
		return nil, false
	}
	return sess, true
}
