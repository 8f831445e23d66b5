package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route prefixes.
const (
	APIPrefix   = "/api"
	ToolsPrefix = APIPrefix + "/tools"
)

// Handler returns the complete HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(observe)
	r.Use(recoverer)
	r.Use(corsHandler(s.origins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", false, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", false, nil)
	})

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(limitBody(s.cfg.MaxBodyBytes))
		r.Get("/", s.handleAPIRoot)
		r.Get("/tools", s.handleListTools)
		r.Post("/batch", s.handleBatch)
		r.Post("/tools/{category}/{action}", s.handleTool)
		r.Get("/tools/{category}/{action}", s.handleToolQuery)
	})

	return r
}
