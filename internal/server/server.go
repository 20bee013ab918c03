// Package server exposes translation over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	GET  /backends         registered backend names
//	GET  /backends/{name}  one backend's descriptors
//	POST /translate        {"expression", "from", "to"} -> {"result"}
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/formulate/internal/server/notifier"
	"github.com/leapstack-labs/formulate/pkg/translate"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Config holds configuration for the HTTP server.
type Config struct {
	Addr        string
	Logger      *slog.Logger
	Translator  *translate.Translator
	DefaultFrom string
	DefaultTo   string
	// BackendsDir is watched for backend files when Watch is set.
	BackendsDir string
	Watch       bool
}

// ReloadEvent reports one reload of the backends directory.
type ReloadEvent struct {
	Backends []string
	Err      error
}

// Server serves the translation API.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	translator *translate.Translator
	reloads    *notifier.Notifier[ReloadEvent]
}

// New creates a server. A nil logger discards output and a nil translator
// uses translate defaults.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tr := cfg.Translator
	if tr == nil {
		tr = translate.New(translate.Config{Logger: logger})
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		translator: tr,
		reloads:    notifier.New[ReloadEvent](4),
	}
}

// Reloads returns the notifier that receives an event after every reload of
// the watched backends directory.
func (s *Server) Reloads() *notifier.Notifier[ReloadEvent] {
	return s.reloads
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/backends", s.handleListBackends)
	r.Get("/backends/{name}", s.handleShowBackend)
	r.Post("/translate", s.handleTranslate)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", errors.New("no such route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", errors.New("method not allowed"))
	})

	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.BackendsDir != "" {
		eg.Go(func() error {
			return s.watchBackends(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
