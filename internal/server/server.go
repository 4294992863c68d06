// Package server exposes the query and research pipelines over HTTP:
// synchronous JSON endpoints, server-sent event streams, and the
// session history API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sleuth/internal/research"
	"sleuth/internal/session"
	"sleuth/internal/sqlquery"
)

// requestTimeout bounds synchronous requests. Streaming routes are
// exempt: a research run can legitimately outlive it, and a client
// disconnect already tears the run down.
const requestTimeout = 30 * time.Second

type Server struct {
	Router *chi.Mux
	Port   int

	logger     *slog.Logger
	queries    *sqlquery.Service
	researcher *research.Service
	sessions   session.Store
	schema     string
	http       *http.Server
}

func New(port int, logger *slog.Logger, queries *sqlquery.Service, researcher *research.Service, sessions session.Store, schema string) *Server {
	s := &Server{
		Port:       port,
		logger:     logger,
		queries:    queries,
		researcher: researcher,
		sessions:   sessions,
		schema:     schema,
	}

	r := chi.NewRouter()

	// Apply middleware in order
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	// Wrap with OpenTelemetry HTTP instrumentation
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "sleuth")
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Post("/query", s.handleQuery)
			r.Post("/research", s.handleResearch)
			r.Get("/sessions", s.handleSessionList)
			r.Get("/sessions/{id}", s.handleSessionGet)
			r.Delete("/sessions", s.handleSessionClear)
			r.Get("/samples", s.handleSamples)
			r.Get("/schema", s.handleSchema)
		})
		r.Post("/query/stream", s.handleQueryStream)
		r.Post("/research/stream", s.handleResearchStream)
	})

	s.Router = r
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.Int("port", s.Port))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
