package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tournament-wallet-ledger/internal/auth"
	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/data/mongo"
	"github.com/tournament-wallet-ledger/internal/data/postgres"
	rediscache "github.com/tournament-wallet-ledger/internal/data/redis"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/logger"
	"github.com/tournament-wallet-ledger/internal/platform/messaging/consumers"
	"github.com/tournament-wallet-ledger/internal/platform/messaging/producers"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
	"github.com/tournament-wallet-ledger/internal/platform/persistence"
	"github.com/tournament-wallet-ledger/internal/refresher"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("wallet_refresher")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "wallet-refresher")

	log.Info("Starting Wallet Refresher",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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
		log.Error("Failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	// Four fetches per event, each on its own worker
	fetchPool, err := ants.NewPool(cfg.WorkerPool.Size * 4)
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

	summaryProducer, err := producers.NewSummaryProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize summary Kafka producer", "error", err)
		os.Exit(1)
	}

	// dlqProducer is nil when no DLQ topic is configured; the handler drops instead.
	dlqProducer, err := producers.NewDLQProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	processingService := refresher.NewProcessingService(
		log,
		authManager,
		viewService,
		summaryProducer,
		cfg.Auth.ServiceTokenTTL,
		appMetrics,
	)
	workerPool, err := refresher.NewWorkerPoolProcessingService(
		processingService,
		refresher.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to create worker pool", "error", err)
		os.Exit(1)
	}
	log.Info("Worker pool started", "capacity", workerPool.Capacity())

	eventHandler := refresher.NewEventHandler(log, workerPool, dlqProducer, appMetrics)
	var kafkaConsumer consumers.Consumer = consumers.NewKafkaConsumer(log, &cfg.Kafka)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.WalletEventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Consume(appCtx, eventHandler.HandleMessage); err != nil {
			log.Error("Kafka consumer stopped with error", "error", err)
		}
	}()

	metricsServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     promhttp.Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}
	go func() {
		log.Info("Serving metrics", "port", cfg.Server.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info("Shutdown signal received")

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("Kafka consumer stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	workerPool.Shutdown()
	fetchPool.Release()

	var shutdownErr error
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics server", "error", err)
		shutdownErr = err
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}
	if err := summaryProducer.Close(); err != nil {
		log.Error("Error closing summary Kafka producer", "error", err)
		shutdownErr = err
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
		shutdownErr = err
	}
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
		shutdownErr = err
	}
	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}
	postgresDB.Close()

	if shutdownErr != nil {
		log.Error("Wallet Refresher shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Wallet Refresher shutdown completed successfully")
}
