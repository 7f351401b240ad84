package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
	"pagebuilder/internal/service"
)

// documentHandler serves whole-document operations.
type documentHandler struct {
	editor *service.Editor
	logger *zap.Logger
}

// MoveRequest is the body of POST /api/move.
type MoveRequest struct {
	OldIndex *int `json:"oldIndex" validate:"required"`
	NewIndex *int `json:"newIndex" validate:"required"`
}

// StateRequest is the body of PUT /api/state. Absent fields are left alone.
type StateRequest struct {
	SelectedComponent *string `json:"selectedComponent"`
	CurrentlyDragging *string `json:"currentlyDragging"`
	IsPreviewMode     *bool   `json:"isPreviewMode"`
	OutputType        *string `json:"outputType" validate:"omitempty,oneof=tailwind inline-styles css-classes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// GetDocument handles GET /api/document
func (h *documentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	text, err := h.editor.ExportJSON()
	if err != nil {
		respondError(h.logger, w, http.StatusInternalServerError, err.Error())
		return
	}
	respondText(w, "application/json", text)
}

// ImportDocument handles PUT /api/document. The body is the document array.
func (h *documentHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.editor.ImportJSON(r.Context(), string(body)); err != nil {
		respondEngineError(h.logger, w, "import", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Components imported successfully"})
}

// GetTree handles GET /api/tree
func (h *documentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	respondText(w, "text/plain; charset=utf-8", render.Tree(h.editor.Document()))
}

// Move handles POST /api/move
func (h *documentHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.editor.MoveComponent(r.Context(), *req.OldIndex, *req.NewIndex); err != nil {
		respondEngineError(h.logger, w, "move_component", err)
		return
	}
	h.respondDocument(w)
}

// Undo handles POST /api/undo
func (h *documentHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Undo(r.Context()); err != nil {
		respondEngineError(h.logger, w, "undo", err)
		return
	}
	h.respondDocument(w)
}

// Redo handles POST /api/redo
func (h *documentHandler) Redo(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Redo(r.Context()); err != nil {
		respondEngineError(h.logger, w, "redo", err)
		return
	}
	h.respondDocument(w)
}

// History handles GET /api/history
func (h *documentHandler) History(w http.ResponseWriter, r *http.Request) {
	labels := h.editor.HistoryLabels()
	if labels == nil {
		labels = []string{}
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]any{"undo": labels})
}

// Clear handles POST /api/clear
func (h *documentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.ClearCanvas(r.Context()); err != nil {
		respondEngineError(h.logger, w, "clear_canvas", err)
		return
	}
	h.respondDocument(w)
}

// GetState handles GET /api/state
func (h *documentHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.editor.State())
}

// PutState handles PUT /api/state
func (h *documentHandler) PutState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OutputType != nil {
		if err := h.editor.SetOutputType(*req.OutputType); err != nil {
			respondEngineError(h.logger, w, "set_output_type", err)
			return
		}
	}
	if req.SelectedComponent != nil {
		if *req.SelectedComponent == "" {
			h.editor.ClearSelection()
		} else {
			h.editor.SelectComponent(*req.SelectedComponent)
		}
	}
	if req.CurrentlyDragging != nil {
		h.editor.SetDragging(*req.CurrentlyDragging)
	}
	if req.IsPreviewMode != nil && h.editor.State().Preview != *req.IsPreviewMode {
		h.editor.TogglePreviewMode()
	}
	respondJSON(h.logger, w, http.StatusOK, h.editor.State())
}

// ExportHTML handles GET /api/export/html?mode=
func (h *documentHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		respondText(w, "text/html; charset=utf-8", h.editor.ExportHTML())
		return
	}
	html, err := h.editor.ExportHTMLAs(domain.OutputMode(mode))
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	respondText(w, "text/html; charset=utf-8", html)
}

// ExportJSON handles GET /api/export/json as a download.
func (h *documentHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	text, err := h.editor.ExportJSON()
	if err != nil {
		respondError(h.logger, w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="landing-page.json"`)
	respondText(w, "application/json", text)
}

// Properties handles GET /api/properties
func (h *documentHandler) Properties(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]any{
		"groups":     domain.PropertyGroups,
		"properties": domain.StyleProperties,
	})
}

func (h *documentHandler) respondDocument(w http.ResponseWriter) {
	respondJSON(h.logger, w, http.StatusOK, h.editor.Document())
}
