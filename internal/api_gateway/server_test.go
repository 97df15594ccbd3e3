package api_gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournament-wallet-ledger/internal/auth"
	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

// recordingViewer returns an empty view and remembers the last credential.
type recordingViewer struct {
	last wallet.Credential
}

func (v *recordingViewer) GetView(_ context.Context, cred wallet.Credential) (*reconciliation.Result, error) {
	v.last = cred
	result := reconciliation.Reconcile(reconciliation.Inputs{AsOf: time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)})
	return &result, nil
}

func newTestServer(t *testing.T, checks map[string]HealthCheck) (*Server, *recordingViewer, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Application: config.ApplicationConfig{Env: "test"},
		Server:      config.ServerConfig{Port: 0, ShutdownTimeout: time.Second},
		Auth: config.AuthConfig{
			JWTSecret:   "router-test-secret-123",
			JWTIssuer:   "tournament-wallet",
			JWTAudience: "wallet-api",
		},
	}
	manager, err := auth.NewManager(cfg.Auth)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg).CacheLookup(true)

	viewer := &recordingViewer{}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	srv := NewServer(logger, cfg, Deps{Viewer: viewer, Verifier: manager, Gatherer: reg, Checks: checks})
	return srv, viewer, manager
}

func serve(srv *Server, path, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestServer_WalletRoutes(t *testing.T) {
	srv, viewer, manager := newTestServer(t, nil)

	t.Run("AuthenticatedSummary", func(t *testing.T) {
		token, err := manager.Issue("42", time.Hour)
		require.NoError(t, err)

		rr := serve(srv, "/api/v1/wallet/summary", "Bearer "+token)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "42", viewer.last.Subject)
		assert.NotEmpty(t, rr.Header().Get("X-Correlation-ID"))
	})

	t.Run("AnonymousTransactions", func(t *testing.T) {
		rr := serve(srv, "/api/v1/wallet/transactions", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, viewer.last.IsZero())
	})

	t.Run("InvalidToken", func(t *testing.T) {
		rr := serve(srv, "/api/v1/wallet/summary", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		rr := serve(srv, "/api/v1/wallet/unknown", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), `"NOT_FOUND"`)
	})

	t.Run("Metrics", func(t *testing.T) {
		rr := serve(srv, "/metrics", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "wallet_view_cache_lookups_total")
	})
}

func TestServer_Health(t *testing.T) {
	t.Run("AllDependenciesUp", func(t *testing.T) {
		srv, _, _ := newTestServer(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return nil },
		})

		rr := serve(srv, "/health", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("DependencyDown", func(t *testing.T) {
		srv, _, _ := newTestServer(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"mongodb":  func(context.Context) error { return errors.New("server selection timeout") },
		})

		rr := serve(srv, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body["status"])
		deps := body["dependencies"].(map[string]interface{})
		assert.Equal(t, "ok", deps["postgres"])
		assert.Equal(t, "server selection timeout", deps["mongodb"])
	})
}

func TestServer_StopWithoutStart(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
