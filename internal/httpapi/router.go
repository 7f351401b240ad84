// Package httpapi exposes the editor over a small REST API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pagebuilder/internal/service"
)

// Router creates and configures the HTTP router
type Router struct {
	editor    *service.Editor
	templates *service.TemplateService
	logger    *zap.Logger
	origins   []string
}

// NewRouter creates a new router instance. origins lists the browser
// origins allowed by CORS; nil allows any origin.
func NewRouter(editor *service.Editor, templates *service.TemplateService, logger *zap.Logger, origins []string) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Router{editor: editor, templates: templates, logger: logger, origins: origins}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		docs := &documentHandler{editor: rt.editor, logger: rt.logger}
		r.Get("/document", docs.GetDocument)
		r.Put("/document", docs.ImportDocument)
		r.Get("/tree", docs.GetTree)
		r.Post("/move", docs.Move)
		r.Post("/undo", docs.Undo)
		r.Post("/redo", docs.Redo)
		r.Get("/history", docs.History)
		r.Post("/clear", docs.Clear)
		r.Get("/state", docs.GetState)
		r.Put("/state", docs.PutState)
		r.Get("/export/html", docs.ExportHTML)
		r.Get("/export/json", docs.ExportJSON)
		r.Get("/properties", docs.Properties)

		r.Route("/components", func(r chi.Router) {
			h := &componentHandler{editor: rt.editor, logger: rt.logger}
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Patch("/{id}/styles", h.UpdateStyles)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/children", h.AddChild)
			r.Delete("/{parentId}/children/{childId}", h.RemoveChild)
		})

		r.Route("/templates", func(r chi.Router) {
			h := &templateHandler{templates: rt.templates, logger: rt.logger}
			r.Get("/", h.List)
			r.Post("/", h.Save)
			r.Post("/{id}/load", h.Load)
			r.Delete("/{id}", h.Delete)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
