// Package api serves the compile pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 build information
//	GET  /v1/kinds                block kinds, building kinds and generators
//	POST /v1/compile?format=toml  manifest body → savestring
//	POST /v1/decode               savestring body → resolved graph
//	GET  /v1/artifacts            stored artifacts (with a store)
//	GET  /v1/artifacts/{name}     one stored artifact (with a store)
//
// Errors are JSON objects {"code", "message"}; invalid input is 400, unknown
// artifacts are 404 and everything else is 500.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/httputil"
	"github.com/matzehuels/cm2kit/pkg/pipeline"
	"github.com/matzehuels/cm2kit/pkg/store"
)

// DefaultTimeout bounds the work done for a single request.
const DefaultTimeout = 30 * time.Second

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	// Store is optional; without it the artifact routes are not mounted and
	// compile requests cannot save.
	Store  store.Store
	Logger *log.Logger
}

// New creates a server. A nil logger means log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Handler returns the routed handler with logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLogger(s.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/compile", s.handleCompile)
		r.Post("/decode", s.handleDecode)
		if s.Store != nil {
			r.Get("/artifacts", s.handleListArtifacts)
			r.Get("/artifacts/{name}", s.handleGetArtifact)
		}
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorBody{Code: errors.ErrCodeNotFound, Message: "no route for " + r.URL.Path})
	})
	return r
}
