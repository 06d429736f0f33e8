// Package service exposes the parser over HTTP as a JSON API.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Server serves the parser API.
type Server struct {
	addr    string
	logger  *slog.Logger
	version string
}

// Config holds server configuration.
type Config struct {
	// Addr is the address to listen on, host:port.
	Addr string
	// Logger for request and lifecycle logging. Optional.
	Logger *slog.Logger
	// Version reported by the health endpoint.
	Version string
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Server{
		addr:    cfg.Addr,
		logger:  logger,
		version: cfg.Version,
	}
}

// Serve runs the HTTP server until the context is canceled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		s.logger.Debug("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Handler builds the routed handler. Split out from Serve so tests can
// drive it without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		s.logRequests,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Post("/v1/parse", s.handleParse)
	r.Post("/v1/deparse", s.handleDeparse)
	r.Post("/v1/scan", s.handleScan)
	r.Post("/v1/convert", s.handleConvert)
	r.Get("/healthz", s.handleHealth)

	return r
}

// requestIDKey carries the request ID through the request context.
type requestIDKey struct{}

// requestID tags each request with a fresh UUID, exposed on the response
// and carried through the context for logging.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(requestIDKey{}).(string)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
		)
	})
}

// discardHandler mirrors slog.DiscardHandler, which requires Go 1.24+;
// this module builds with Go 1.21 toolchains.
type discardHandler struct{}

func (d discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (d discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return d }
func (d discardHandler) WithGroup(string) slog.Handler             { return d }
