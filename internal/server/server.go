package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
)

const internalErrorBody = "<h1>Internal Server Error</h1>"

// Server runs the HTTP listener and hands every request to the router. The
// route table is held behind an atomic pointer so a reload can swap in a
// freshly built table without locking the request path.
type Server struct {
	cfg        config.ServerConfig
	logger     observability.Logger
	metrics    *observability.Metrics
	table      atomic.Pointer[router.Router]
	httpServer *http.Server
	handler    http.Handler
}

// ServerOption is a functional option for configuring the server.
type ServerOption func(*Server)

// WithMetrics attaches server metrics and, when the metrics config enables
// it, the metrics endpoint.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a Server serving the given route table.
func New(
	cfg *config.Config,
	rt *router.Router,
	logger observability.Logger,
	opts ...ServerOption,
) *Server {
	s := &Server{
		cfg:    cfg.Server,
		logger: logger,
	}
	s.table.Store(rt)

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	if cfg.Metrics.Enabled && s.metrics != nil {
		mux.Handle(cfg.Metrics.Path, s.metrics.Handler())
	}
	mux.Handle("/", Chain(
		http.HandlerFunc(s.serveRequest),
		RequestID(),
		AccessLog(logger),
		Metrics(s.metrics),
	))
	s.handler = mux

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	return s
}

// Handler returns the composed request entry point.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Swap atomically replaces the route table for subsequent requests.
// In-flight dispatches keep using the table they started with.
func (s *Server) Swap(rt *router.Router) {
	s.table.Store(rt)
	s.logger.Info("route table replaced",
		observability.Int("routes", len(rt.Routes())),
	)
}

// serveRequest adapts one HTTP request for the router. A failure escaping
// dispatch is the router telling us no error handler is configured; the
// transport policy is to log it and serve a generic 500 if nothing was
// written yet.
func (s *Server) serveRequest(w http.ResponseWriter, r *http.Request) {
	req := newHTTPRequest(w, r)

	if err := s.table.Load().Dispatch(req); err != nil {
		s.logger.WithContext(r.Context()).Error("request handler failed",
			observability.String("method", r.Method),
			observability.String("uri", r.RequestURI),
			observability.Error(err),
		)
		if !req.responded {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(internalErrorBody))
		}
	}
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening",
			observability.String("address", s.cfg.Address),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the server, waiting for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
