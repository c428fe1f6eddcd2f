// Package server is the thin web shell over the trading engine: a JSON API
// for trades and status plus an HTML dashboard.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"papertrader/internal/logger"
	"papertrader/internal/types"
)

// Trader is what the shell needs from the trading engine.
type Trader interface {
	Buy(ctx context.Context, ticker string, qty int) (*types.Receipt, error)
	Sell(ctx context.Context, ticker string, qty int) (*types.Receipt, error)
	Status(ctx context.Context) *types.StatusReport
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	trader Trader
}

// New creates a new HTTP server
func New(addr string, trader Trader) *Server {
	s := &Server{
		router: chi.NewRouter(),
		trader: trader,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/", s.handleDashboard)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/buy", s.handleBuy)
		r.Post("/sell", s.handleSell)
		r.Get("/status", s.handleStatus)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	logger.Info(context.Background(), "HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
