package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tournament-wallet-ledger/internal/api_gateway/handler"
	"github.com/tournament-wallet-ledger/internal/api_gateway/middleware"
	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
	cfg        config.ServerConfig
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Viewer   walletview.Viewer
	Verifier middleware.TokenVerifier
	Gatherer prometheus.Gatherer
	Checks   map[string]HealthCheck
}

// NewServer creates and configures a new HTTP server
func NewServer(log *slog.Logger, cfg *config.Config, deps Deps) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	httpRouter := gin.New()
	walletHandler := handler.NewWalletHandler(log, deps.Viewer)
	setupRouter(log, httpRouter, walletHandler, deps.Verifier, deps.Gatherer, deps.Checks)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
		cfg:        cfg.Server,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server within the configured shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
