package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

// componentHandler serves single-component operations.
type componentHandler struct {
	editor *service.Editor
	logger *zap.Logger
}

type createdResponse struct {
	ID string `json:"id"`
}

// Create handles POST /api/components
func (h *componentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c domain.Component
	if err := decodeJSON(r, &c); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.editor.AddComponent(r.Context(), &c)
	if err != nil {
		respondEngineError(h.logger, w, "add_component", err)
		return
	}
	h.logger.Info("component added", zap.String("component_id", id))
	respondJSON(h.logger, w, http.StatusCreated, createdResponse{ID: id})
}

// Get handles GET /api/components/{id}
func (h *componentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := h.editor.FindComponentByID(id)
	if c == nil {
		respondError(h.logger, w, http.StatusNotFound, "component not found: "+id)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, c)
}

// Update handles PATCH /api/components/{id}
func (h *componentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch map[string]any
	if err := decodeJSON(r, &patch); err != nil || patch == nil {
		respondError(h.logger, w, http.StatusBadRequest, "patch must be a JSON object")
		return
	}
	if err := h.editor.UpdateComponent(r.Context(), id, patch); err != nil {
		respondEngineError(h.logger, w, "update_component", err)
		return
	}
	h.respondComponent(w, id)
}

// UpdateStyles handles PATCH /api/components/{id}/styles
func (h *componentHandler) UpdateStyles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var styles map[string]string
	if err := decodeJSON(r, &styles); err != nil || styles == nil {
		respondError(h.logger, w, http.StatusBadRequest, "styles must be a JSON object of strings")
		return
	}
	if err := h.editor.UpdateComponentStyles(r.Context(), id, styles); err != nil {
		respondEngineError(h.logger, w, "update_styles", err)
		return
	}
	h.respondComponent(w, id)
}

// Delete handles DELETE /api/components/{id}
func (h *componentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.RemoveComponent(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondEngineError(h.logger, w, "remove_component", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddChild handles POST /api/components/{id}/children
func (h *componentHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	var c domain.Component
	if err := decodeJSON(r, &c); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.editor.AddChildToContainer(r.Context(), chi.URLParam(r, "id"), &c)
	if err != nil {
		respondEngineError(h.logger, w, "add_child", err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, createdResponse{ID: id})
}

// RemoveChild handles DELETE /api/components/{parentId}/children/{childId}
func (h *componentHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	err := h.editor.RemoveChildFromContainer(r.Context(), chi.URLParam(r, "parentId"), chi.URLParam(r, "childId"))
	if err != nil {
		respondEngineError(h.logger, w, "remove_child", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *componentHandler) respondComponent(w http.ResponseWriter, id string) {
	respondJSON(h.logger, w, http.StatusOK, h.editor.FindComponentByID(id))
}
