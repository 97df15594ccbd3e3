package api_gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tournament-wallet-ledger/internal/api_gateway/handler"
	"github.com/tournament-wallet-ledger/internal/api_gateway/middleware"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	walletHandler *handler.WalletHandler,
	verifier middleware.TokenVerifier,
	gatherer prometheus.Gatherer,
	checks map[string]HealthCheck,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(verifier))
	{
		wallet := v1.Group("/wallet")
		{
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.GET("/summary", walletHandler.Summary)
		}
	}

	r.GET("/health", healthHandler(checks))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.NoRoute(func(c *gin.Context) {
		handler.RespondNotFound(c, "")
	})
}

// healthHandler reports ok only when every dependency answers.
func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		dependencies := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				dependencies[name] = err.Error()
				continue
			}
			dependencies[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "dependencies": dependencies, "timestamp": time.Now().UTC()})
	}
}
