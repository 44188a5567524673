// Package api serves scenarios, layouts and diagrams over HTTP.
//
// Every request acts on behalf of the user named in the X-User-ID header,
// falling back to the configured default user; authentication is left to a
// fronting proxy.
//
// # Routes
//
//	GET    /api/scenarios                       list the user's scenarios
//	POST   /api/scenarios                       create (JSON or YAML body)
//	GET    /api/scenarios/{filename}            fetch (JSON, or YAML via Accept)
//	PUT    /api/scenarios/{filename}            replace
//	DELETE /api/scenarios/{filename}            delete
//	GET    /api/scenarios/{filename}/layout     level assignment
//	GET    /api/scenarios/{filename}/diagram    positioned nodes and edges
//	GET    /api/scenarios/{filename}/diagram.svg|.dot|.mmd
//	POST   /api/layout                          lay out a posted scenario
//	GET    /healthz
//	GET    /metrics
//
// Errors are returned as {"error":{"code":"...","message":"..."}} with the
// status from errors.HTTPStatus.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scenarioflow/pkg/diagram"
	"github.com/matzehuels/scenarioflow/pkg/pipeline"
	"github.com/matzehuels/scenarioflow/pkg/store"
)

// UserHeader names the request header carrying the owner id.
const UserHeader = "X-User-ID"

// DefaultUser owns requests without a UserHeader.
const DefaultUser = "local"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Server holds the API dependencies.
type Server struct {
	store       store.Store
	runner      *pipeline.Runner
	logger      *log.Logger
	defaultUser string
	diagram     diagram.Config
	metrics     http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultUser sets the owner used when UserHeader is absent.
func WithDefaultUser(user string) Option {
	return func(s *Server) {
		if user != "" {
			s.defaultUser = user
		}
	}
}

// WithDiagramConfig sets node placement for diagram endpoints.
func WithDiagramConfig(cfg diagram.Config) Option {
	return func(s *Server) {
		s.diagram = cfg
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// New creates a Server. A nil runner gets an uncached default.
func New(st store.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		store:       st,
		runner:      runner,
		logger:      log.Default(),
		defaultUser: DefaultUser,
		diagram:     diagram.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.adhocLayout)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", s.listScenarios)
			r.Post("/", s.createScenario)

			r.Route("/{filename}", func(r chi.Router) {
				r.Get("/", s.getScenario)
				r.Put("/", s.updateScenario)
				r.Delete("/", s.deleteScenario)
				r.Get("/layout", s.scenarioLayout)
				r.Get("/diagram", s.scenarioDiagram)
				r.Get("/diagram.svg", s.renderArtifact(pipeline.FormatSVG))
				r.Get("/diagram.dot", s.renderArtifact(pipeline.FormatDOT))
				r.Get("/diagram.mmd", s.renderArtifact(pipeline.FormatMermaid))
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.logger, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	return errors.Join(s.runner.Close(), s.store.Close())
}

// user returns the owner of the request.
func (s *Server) user(r *http.Request) string {
	if u := r.Header.Get(UserHeader); u != "" {
		return u
	}
	return s.defaultUser
}
