// Package server exposes the umlsync pipeline as a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz            liveness and version
//	POST /v1/entities        extract entities from a document
//	POST /v1/layout/seed     seed canvas positions for a document
//	POST /v1/layout/apply    write a layout back into a document
//	POST /v1/preview         draw the constraint preview of a layout
//	POST /v1/render          render a document on the PlantUML server
//	POST /v1/url             build the PlantUML server URL of a document
//
// Every response carries an X-Request-ID header. Errors are returned as
// {"error": {"code": ..., "message": ...}, "request_id": ...} with the HTTP
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/umlsync/pkg/pipeline"
)

// maxBodySize bounds request bodies. Documents themselves are bounded
// tighter by errors.MaxDocumentSize; the rest is room for positions.
const maxBodySize = 4 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New creates a server. base carries the configured defaults (min gap,
// grid, formats) that request fields override.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, base: base, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Mount attaches h under pattern, for example the MCP streamable HTTP
// handler at /mcp.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/entities", s.handleEntities)
		r.Post("/layout/seed", s.handleSeed)
		r.Post("/layout/apply", s.handleApply)
		r.Post("/preview", s.handlePreview)
		r.Post("/render", s.handleRender)
		r.Post("/url", s.handleURL)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http api listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
