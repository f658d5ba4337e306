package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"HOST", "PORT", "SHUTDOWN_TIMEOUT", "READ_HEADER_TIMEOUT", "GZIP_ENABLED",
	"APP_TITLE", "APP_VERSION",
	"RELOAD", "RELOAD_DIRS", "RELOAD_INCLUDES", "RELOAD_EXCLUDES", "RELOAD_DELAY",
	"LOG_LEVEL", "LOG_DEV",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_ENABLED",
	"CORS_ORIGINS",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Server.Compression)

	// App config
	assert.Equal(t, "main:app", cfg.App.Ref)
	assert.Equal(t, "Flood Detection Backend API", cfg.App.Title)

	// Reload is a development feature
	assert.False(t, cfg.Reload.Enabled)
	assert.Equal(t, []string{"."}, cfg.Reload.Dirs)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadMatchesDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8001", cfg.Server.Addr())
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"PORT":               "9090",
		"HOST":               "127.0.0.1",
		"RELOAD":             "true",
		"RELOAD_DIRS":        "cmd,internal",
		"RELOAD_DELAY":       "1s",
		"LOG_LEVEL":          "debug",
		"LOG_DEV":            "true",
		"RATE_LIMIT_RPS":     "500",
		"RATE_LIMIT_BURST":   "1000",
		"RATE_LIMIT_ENABLED": "false",
		"CORS_ORIGINS":       "http://localhost:3000,https://floodsight.app",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.True(t, cfg.Reload.Enabled)
	assert.Equal(t, []string{"cmd", "internal"}, cfg.Reload.Dirs)
	assert.Equal(t, time.Second, cfg.Reload.Delay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "https://floodsight.app"}, cfg.CORS.AllowOrigins)
}

func TestLoadReadsBareVariableNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SERVER_PORT", "1234")
	t.Setenv("SERVER_HOST", "10.0.0.9")
	t.Setenv("LOGGING_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestAppReferenceIgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP", "floodsight")
	t.Setenv("APP_APP", "other:app")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAppRef, cfg.App.Ref)
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort int
		wantHost string
	}{
		{
			name:     "default values",
			wantPort: 8001,
			wantHost: "0.0.0.0",
		},
		{
			name:     "custom port",
			port:     "9000",
			wantPort: 9000,
			wantHost: "0.0.0.0",
		},
		{
			name:     "custom host",
			host:     "localhost",
			wantPort: 8001,
			wantHost: "localhost",
		},
		{
			name:     "ephemeral port",
			port:     "0",
			wantPort: 0,
			wantHost: "0.0.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantKey string
	}{
		{name: "port not a number", key: "PORT", value: "not-a-number", wantKey: "PORT"},
		{name: "port empty", key: "PORT", value: "", wantKey: "PORT"},
		{name: "negative port", key: "PORT", value: "-1", wantKey: "PORT"},
		{name: "port out of range", key: "PORT", value: "70000", wantKey: "PORT"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "chatty", wantKey: "LOG_LEVEL"},
		{name: "bad reload flag", key: "RELOAD", value: "maybe", wantKey: "RELOAD"},
		{name: "bad shutdown timeout", key: "SHUTDOWN_TIMEOUT", value: "soon", wantKey: "SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Equal(t, tt.value, cfgErr.Value)
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9100\nLOG_LEVEL=warn\n"), 0o600))

	t.Run("environment wins without override", func(t *testing.T) {
		t.Setenv("PORT", "9200")
		t.Setenv("LOG_LEVEL", "error")

		cfg, err := LoadFile(path, false)
		require.NoError(t, err)
		assert.Equal(t, 9200, cfg.Server.Port)
		assert.Equal(t, "error", cfg.Logging.Level)
	})

	t.Run("file wins with override", func(t *testing.T) {
		t.Setenv("PORT", "9200")
		t.Setenv("LOG_LEVEL", "error")

		cfg, err := LoadFile(path, true)
		require.NoError(t, err)
		assert.Equal(t, 9100, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"), false)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "ENV_FILE", cfgErr.Key)
	})
}
