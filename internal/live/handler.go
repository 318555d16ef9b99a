package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/clinformatics/formstudio/internal/render"
	"github.com/clinformatics/formstudio/internal/store"
	"github.com/clinformatics/formstudio/internal/value"
)

// Handler upgrades builder connections and runs the message loop. Each
// connection edits the shared session for its form id and keeps its own
// preview value bag.
type Handler struct {
	sessions *store.Manager
	renderer *render.Renderer
}

// NewHandler creates the live channel handler.
func NewHandler(sessions *store.Manager, renderer *render.Renderer) *Handler {
	return &Handler{sessions: sessions, renderer: renderer}
}

// ServeHTTP upgrades to WebSocket and processes operations until the
// canvas disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")
	ctx := r.Context()

	sess, err := h.sessions.Open(ctx, formID)
	if err != nil {
		http.Error(w, "form not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("live: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	h.send(ctx, conn, ServerMessage{Type: "session", Data: SessionData{FormID: formID}})

	// Preview values are per-connection scratch state, never persisted.
	values := map[string]any{}

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("live: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}

		switch msg.Type {
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		case "save":
			h.handleSave(ctx, conn, sess, msg)
		case "set_value":
			h.handleSetValue(ctx, conn, sess, msg, values)
		default:
			if !h.applyOp(ctx, conn, sess, msg) {
				continue
			}
			h.sendState(ctx, conn, sess, msg.ID, values)
		}
	}
}

// applyOp dispatches one document operation. Returns false when the
// message was rejected (an error reply has been sent already).
func (h *Handler) applyOp(ctx context.Context, conn *websocket.Conn, sess *store.Store, msg ClientMessage) bool {
	switch msg.Type {
	case "add_field":
		var data AddFieldData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.AddField(data.FieldType, data.SectionID)
	case "remove_field":
		var data FieldRefData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.RemoveField(data.FieldID)
	case "update_field":
		var data UpdateFieldData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.UpdateField(data.FieldID, data.Patch)
	case "set_validation_rule":
		var data SetValidationRuleData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.SetFieldValidationRule(data.FieldID, data.Rule)
	case "move_field":
		var data MoveFieldData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.MoveField(data.FieldID, data.SectionID, data.Index)
	case "duplicate_field":
		var data FieldRefData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.DuplicateField(data.FieldID)
	case "add_section":
		sess.AddSection()
	case "remove_section":
		var data SectionRefData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.RemoveSection(data.SectionID)
	case "update_section":
		var data UpdateSectionData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.UpdateSection(data.SectionID, data.Patch)
	case "update_meta":
		var data UpdateMetaData
		if !h.decode(ctx, conn, msg, &data) {
			return false
		}
		sess.UpdateMeta(data.Name, data.Description)
	default:
		h.sendError(ctx, conn, msg.ID, "unknown_type", "unknown message type: "+msg.Type)
		return false
	}
	return true
}

func (h *Handler) handleSetValue(ctx context.Context, conn *websocket.Conn, sess *store.Store, msg ClientMessage, values map[string]any) {
	var data SetValueData
	if !h.decode(ctx, conn, msg, &data) {
		return
	}
	f := sess.Form()
	if f == nil {
		h.sendError(ctx, conn, msg.ID, "no_form", "no form in edit")
		return
	}
	fld := f.FieldByID(data.FieldID)
	if fld == nil {
		h.sendError(ctx, conn, msg.ID, "unknown_field", "unknown field: "+data.FieldID)
		return
	}
	var raw any
	if err := json.Unmarshal(data.Value, &raw); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid value payload")
		return
	}
	values[data.FieldID] = value.ApplyChange(*fld, values[data.FieldID], raw)
	h.sendPreview(ctx, conn, sess, msg.ID, values)
}

func (h *Handler) handleSave(ctx context.Context, conn *websocket.Conn, sess *store.Store, msg ClientMessage) {
	if err := sess.Save(ctx); err != nil {
		h.send(ctx, conn, ServerMessage{
			Type:      "errors",
			RequestID: msg.ID,
			Data:      ErrorsData{Errors: sess.Errors()},
		})
		return
	}
	h.send(ctx, conn, ServerMessage{Type: "saved", RequestID: msg.ID})
}

// sendState pushes the document snapshot followed by the preview.
func (h *Handler) sendState(ctx context.Context, conn *websocket.Conn, sess *store.Store, requestID string, values map[string]any) {
	f := sess.Form()
	if f == nil {
		return
	}
	h.send(ctx, conn, ServerMessage{
		Type:      "document",
		RequestID: requestID,
		Data:      DocumentData{Form: f},
	})
	h.sendPreview(ctx, conn, sess, requestID, values)
}

func (h *Handler) sendPreview(ctx context.Context, conn *websocket.Conn, sess *store.Store, requestID string, values map[string]any) {
	f := sess.Form()
	if f == nil {
		return
	}
	html, err := h.renderer.RenderForm(f, values)
	if err != nil {
		h.sendError(ctx, conn, requestID, "render_error", err.Error())
		return
	}
	h.send(ctx, conn, ServerMessage{
		Type:      "preview",
		RequestID: requestID,
		Data:      PreviewData{HTML: string(html)},
	})
}

func (h *Handler) decode(ctx context.Context, conn *websocket.Conn, msg ClientMessage, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid "+msg.Type+" data")
		return false
	}
	return true
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("live: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}
