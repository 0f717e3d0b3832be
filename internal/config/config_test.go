package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/route/internal/config"
)

func defaults(t *testing.T) *config.Config {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))
	return &cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "API 文档", cfg.OpenAPI.Title)
	assert.Equal(t, "/api-docs", cfg.Docs.UIPath)
	assert.Equal(t, "/swagger.json", cfg.Docs.JSONPath)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.Zero(t, cfg.RateLimit.Rate)

	limit, err := cfg.Server.BodyLimitBytes()
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, limit)

	upload, err := cfg.Upload.MaxSizeBytes()
	require.NoError(t, err)
	assert.EqualValues(t, 10_000_000, upload)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ROUTE_SERVER_PORT", "8080")
	t.Setenv("ROUTE_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("ROUTE_LOG_FORMAT", "json")
	t.Setenv("ROUTE_OPENAPI_TITLE", "Env API")
	t.Setenv("ROUTE_RATELIMIT_RATE", "2.5")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "Env API", cfg.OpenAPI.Title)
	assert.InDelta(t, 2.5, cfg.RateLimit.Rate, 0)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9000
upload:
  dir: /tmp/files
  max_size: 2MB
cors:
  allow_origins:
    - https://a.example.com
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "/tmp/files", cfg.Upload.Dir)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep their defaults")

	size, err := cfg.Upload.MaxSizeBytes()
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, size)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600))
	t.Setenv("ROUTE_SERVER_PORT", "9100")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("ROUTE_LOG_LEVEL", "verbose")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROUTE_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("ROUTE_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("ROUTE_DOTENV_PROBE"))

	require.NoError(t, config.LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("ROUTE_DOTENV_PROBE"))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*config.Config)
		wantErr bool
	}{
		"defaults": {
			mutate: func(*config.Config) {},
		},
		"zero port": {
			mutate:  func(c *config.Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		"bad body limit": {
			mutate:  func(c *config.Config) { c.Server.BodyLimit = "lots" },
			wantErr: true,
		},
		"zero upload size": {
			mutate:  func(c *config.Config) { c.Upload.MaxSize = "0" },
			wantErr: true,
		},
		"unknown log format": {
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		"relative docs path": {
			mutate:  func(c *config.Config) { c.Docs.UIPath = "api-docs" },
			wantErr: true,
		},
		"elements disabled": {
			mutate: func(c *config.Config) { c.Docs.ElementsPath = "" },
		},
		"negative rate": {
			mutate:  func(c *config.Config) { c.RateLimit.Rate = -1 },
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := defaults(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
