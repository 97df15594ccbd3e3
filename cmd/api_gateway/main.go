package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tournament-wallet-ledger/internal/api_gateway"
	"github.com/tournament-wallet-ledger/internal/auth"
	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/data/mongo"
	"github.com/tournament-wallet-ledger/internal/data/postgres"
	rediscache "github.com/tournament-wallet-ledger/internal/data/redis"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/logger"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
	"github.com/tournament-wallet-ledger/internal/platform/persistence"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "wallet-api")

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("Failed to initialize token verifier", "error", err)
		os.Exit(1)
	}

	// Fetch pool shared by every request's snapshot load
	fetchPool, err := ants.NewPool(cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to create fetch pool", "error", err)
		os.Exit(1)
	}

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	sources := wallet.Sources{
		Ledger:        mongo.NewLedgerRepository(log, mongoDB.Database()),
		UpiPayments:   postgres.NewUpiPaymentRepository(log, postgresDB),
		Withdrawals:   postgres.NewWithdrawalRepository(log, postgresDB),
		Registrations: postgres.NewRegistrationRepository(log, postgresDB),
	}
	loader := walletview.NewSnapshotLoader(log, sources, fetchPool, cfg.Reconciliation.SourceTimeout, appMetrics)
	viewCache := rediscache.NewViewCache(log, redisClient, cfg.Reconciliation.ViewCacheTTL)
	viewService := walletview.NewService(log, loader, viewCache, appMetrics)

	server := api_gateway.NewServer(log, cfg, api_gateway.Deps{
		Viewer:   viewService,
		Verifier: authManager,
		Gatherer: prometheus.DefaultGatherer,
		Checks: map[string]api_gateway.HealthCheck{
			"postgres": postgresDB.Ping,
			"mongodb":  mongoDB.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	var shutdownErr error
	// Stop accepting requests before the stores go away
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	fetchPool.Release()

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
		shutdownErr = err
	}

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
