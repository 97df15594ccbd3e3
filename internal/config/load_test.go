package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := t.TempDir()

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "WalletTest"
	testPort := 9090
	testLogLevel := "debug"
	testRedisAddr := "redis-test:6380"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nREDIS_ADDR=%s\nRECONCILIATION_SOURCE_TIMEOUT=2s\n",
		testAppName, testPort, testLogLevel, testRedisAddr,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(tempDir))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Reconciliation.SourceTimeout)

	// defaults
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "wallet_events", cfg.Kafka.WalletEventsTopic)
	assert.Equal(t, "wallet_summaries", cfg.Kafka.SummaryTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 10*time.Minute, cfg.Reconciliation.ViewCacheTTL)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgFromFile, err := LoadConfigFile(envFilePath)
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgFromFile.Application.Name)
	assert.Equal(t, testRedisAddr, cfgFromFile.Redis.Addr)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	defaults := func() *Config {
		v := viper.New()
		setDefaults(v)
		return fromViper(v)
	}

	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, defaults().validate())
	})

	t.Run("ReportsEveryProblem", func(t *testing.T) {
		cfg := defaults()
		cfg.Auth.JWTSecret = "short"
		cfg.Redis.Addr = ""
		cfg.Reconciliation.SourceTimeout = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET must be at least 16 characters")
		assert.Contains(t, err.Error(), "REDIS_ADDR is required")
		assert.Contains(t, err.Error(), "RECONCILIATION_SOURCE_TIMEOUT must be greater than 0")
	})

	t.Run("MinConnsAboveMax", func(t *testing.T) {
		cfg := defaults()
		cfg.Postgres.MinConns = 50
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_MIN_CONNS must not exceed POSTGRES_MAX_CONNS")
	})
}
