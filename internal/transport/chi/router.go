package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/metrics"
)

// maxFormBytes bounds page form submissions.
const maxFormBytes = 64 << 10

// NewRouter mounts the page, the JSON API and ops endpoints with the standard middleware stack.
func NewRouter(s *Server, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiMiddleware.RequestSize(maxFormBytes))
	r.Use(CredentialMiddleware())
	r.Use(metrics.Middleware())

	r.Get("/", s.Page)
	r.Post("/search", s.PageSearch)
	r.Post("/reset", s.PageReset)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchAPI)
		r.Post("/search/structured", s.StructuredSearchAPI)
		r.Post("/reset", s.ResetAPI)
		r.Get("/examples", s.ExamplesAPI)
		r.Get("/schema", s.SchemaAPI)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}
