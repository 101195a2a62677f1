package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibajeti/internal/app"
	"jibajeti/internal/config"
	"jibajeti/internal/session"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=cli")
}

func TestLoadAndValidateConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("info", &buf)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("BACKUP_DIR", t.TempDir())
	t.Setenv("AMQP_URL", "")
	cfg, err := LoadAndValidateConfig(logger)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)

	t.Setenv("STORAGE_BACKEND", "carrier-pigeon")
	_, err = LoadAndValidateConfig(logger)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Configuration validation failed")
}

func TestOpen_PersistsAcrossRuntimes(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := SetupLogger("info", &buf)

	cfg := &config.Config{
		LogLevel: "info",
		Storage: config.Storage{
			Backend:    "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "jibajeti.db"),
		},
		Session: config.Session{InsightsDelay: session.DefaultInsightsDelay},
	}

	rt, err := Open(ctx, cfg, logger, app.Options{})
	require.NoError(t, err)
	require.NoError(t, rt.App.Session.Login(ctx))
	require.NoError(t, rt.App.Session.Navigate(ctx, session.ScreenSummary))
	require.NoError(t, rt.App.Currency.SetCurrency(ctx, "TZS"))
	require.NoError(t, rt.Close())

	rt, err = Open(ctx, cfg, logger, app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })

	assert.True(t, rt.App.Session.IsLoggedIn())
	assert.Equal(t, session.ScreenSummary, rt.App.Session.Screen())
	assert.Equal(t, "TSh5.00", rt.App.Currency.Format(5))
}

func TestOpen_InvalidBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Backend: "tape"}}
	_, err := Open(context.Background(), cfg, SetupLogger("error", &bytes.Buffer{}), app.Options{})
	assert.Error(t, err)
}
