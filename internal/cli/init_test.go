package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspese/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CURRENCY_SYMBOL=€\nDASHBOARD_CACHE_SIZE=7\n"), 0o600))
	t.Setenv("CURRENCY_SYMBOL", "")
	os.Unsetenv("CURRENCY_SYMBOL")
	t.Setenv("DASHBOARD_CACHE_SIZE", "3")

	LoadEnvFile(path)
	cfg := config.Load()

	assert.Equal(t, "€", cfg.CurrencySymbol)
	assert.Equal(t, 3, cfg.DashboardCacheSize, "existing environment wins over .env")
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NotPanics(t, func() { LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")) })
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	assert.Same(t, logger.Logger, slog.Default())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
