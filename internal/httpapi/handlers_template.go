package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pagebuilder/internal/service"
)

// templateHandler serves the template registry.
type templateHandler struct {
	templates *service.TemplateService
	logger    *zap.Logger
}

// SaveTemplateRequest is the body of POST /api/templates.
type SaveTemplateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// List handles GET /api/templates
func (h *templateHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.templates.List())
}

// Save handles POST /api/templates
func (h *templateHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveTemplateRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.templates.Save(r.Context(), req.Name)
	if err != nil {
		respondEngineError(h.logger, w, "save_template", err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, t)
}

// Load handles POST /api/templates/{id}/load
func (h *templateHandler) Load(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.templates.Load(r.Context(), id); err != nil {
		respondEngineError(h.logger, w, "load_template", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Template loaded"})
}

// Delete handles DELETE /api/templates/{id}
func (h *templateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondEngineError(h.logger, w, "delete_template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
