// Package api exposes the sommelier over HTTP.
//
// Endpoints:
//
//	GET  /health            liveness probe with the agent name
//	GET  /ready             readiness probe (database ping)
//	POST /agui              agent-UI streaming protocol (named SSE events)
//	POST /chat/completions  voice-relay chat-completions protocol
//
// Every POST passes through the inbound identity bridge before its handler:
// the body is inspected for whichever identity shape the client protocol
// carries, the session cache is updated, and the handler receives the body
// byte-for-byte as it arrived.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aionysus/dionysus/internal/agent"
	"github.com/aionysus/dionysus/internal/identity"
	"github.com/aionysus/dionysus/internal/log"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:8084"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response. Streams
	// are word-paced, so even long answers finish well inside this.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum keep-alive wait between requests.
	IdleTimeout = 120 * time.Second
)

// Config carries the server's tunable behaviour.
type Config struct {
	Addr string

	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string

	// StreamWordDelay is the pause between streamed word frames. Zero sends
	// frames back to back.
	StreamWordDelay time.Duration
}

// Server is the HTTP front for the sommelier.
type Server struct {
	mux         *http.ServeMux
	sommelier   *agent.Sommelier
	cache       *identity.Cache
	pool        *pgxpool.Pool
	logger      log.Logger
	addr        string
	origins     []string
	streamDelay time.Duration
}

// NewServer creates a server with all routes registered. pool may be nil in
// tests; readiness then reports unavailable.
func NewServer(sommelier *agent.Sommelier, cache *identity.Cache, pool *pgxpool.Pool, logger log.Logger, cfg Config) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		sommelier:   sommelier,
		cache:       cache,
		pool:        pool,
		logger:      logger,
		addr:        cfg.Addr,
		origins:     cfg.AllowedOrigins,
		streamDelay: cfg.StreamWordDelay,
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.HandleFunc("POST /agui", s.handleAgui)
	s.mux.HandleFunc("POST /chat/completions", s.handleCompletions)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Order: recovery, logging, CORS, identity bridge, then the mux.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		corsMiddleware(s.origins),
		s.identityMiddleware,
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.addr
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
