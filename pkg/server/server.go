// Package server exposes folder generation over HTTP.
//
// The API mirrors the desktop app's local backend: a client posts a request
// to /api/generate, receives a job id and downloads the artifact from
// /api/download/{job_id}. Jobs are kept in a [jobs.Registry] and their
// artifacts in an [artifacts.Store].
//
// # Startup
//
// [Server.ListenAndServe] binds the configured address. Port 0 asks the OS
// for a free port; the chosen port is announced on stdout as
// SERVER_PORT=<n> so a parent process can connect. Artifacts older than
// Options.MaxAge are removed before the first request is served.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/buildinfo"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/pipeline"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "folder-backend"

// MaxRequestBytes bounds the size of a generate request body.
const MaxRequestBytes = 10 << 20

// Options configures a Server.
type Options struct {
	Addr           string
	Port           int
	AllowedOrigins []string
	// Keep is the number of jobs retained by /api/cleanup.
	Keep int
	// MaxAge is the artifact age removed at startup.
	MaxAge time.Duration
	// ShutdownTimeout bounds graceful shutdown. Zero means 10 seconds.
	ShutdownTimeout time.Duration
}

// Server handles the folder HTTP API.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	jobs   jobs.Registry
	store  *artifacts.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. The registry and store are owned by the caller.
func New(opts Options, runner *pipeline.Runner, reg jobs.Registry, store *artifacts.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Keep <= 0 {
		opts.Keep = jobs.DefaultKeep
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = artifacts.DefaultMaxAge
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		opts:   opts,
		runner: runner,
		jobs:   reg,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)
	r.Use(cors(s.opts.AllowedOrigins))

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.generate)
		r.Get("/download/{job_id}", s.download)
		r.Get("/status/{job_id}", s.status)
		r.Get("/jobs", s.list)
		r.Delete("/cleanup", s.cleanup)
	})
	return r
}

// Listen binds the configured address and port.
func (s *Server) Listen() (net.Listener, error) {
	addr := net.JoinHostPort(s.opts.Addr, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// ListenAndServe binds, announces the port on announce and serves until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, announce io.Writer) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if announce != nil {
		fmt.Fprintf(announce, "SERVER_PORT=%d\n", port)
		if f, ok := announce.(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
	}
	return s.Serve(ctx, ln)
}

// Serve sweeps stale artifacts and serves on ln until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if _, err := s.store.Cleanup(s.opts.MaxAge); err != nil {
		s.logger.Warn("artifact cleanup failed", "err", err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "version", buildinfo.Version)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
