// Package server exposes the layout pipeline and interactive view sessions
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lexora/casemap/pkg/mindmap/layout"
	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/session"
)

// Defaults.
const (
	DefaultMaxBodyBytes = 10 << 20
	DefaultSweepPeriod  = time.Minute
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Layout       layout.Config
	MaxNodes     int   // 0 uses the pipeline default, negative disables
	MaxBodyBytes int64 // 0 uses DefaultMaxBodyBytes
}

// Server routes HTTP requests to the pipeline runner and the session store.
type Server struct {
	runner   *pipeline.Runner
	sessions *session.Store
	logger   *log.Logger
	opts     Options
}

// New creates a server.
func New(runner *pipeline.Runner, sessions *session.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	return &Server{
		runner:   runner,
		sessions: sessions,
		logger:   logger,
		opts:     opts,
	}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/render", s.render)
		r.Get("/cases/{caseID}/mindmap", s.caseMindMap)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Post("/events", s.sessionEvent)
				r.Put("/graph", s.replaceGraph)
				r.Post("/reset", s.resetSession)
				r.Post("/nodes/{nodeID}/activate", s.activateNode)
				r.Get("/svg", s.sessionSVG)
			})
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, DefaultSweepPeriod)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Layout:   s.opts.Layout,
		MaxNodes: s.opts.MaxNodes,
		Logger:   s.logger,
	}
}
