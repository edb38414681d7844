package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8081", AllowedOrigins: []string{"http://localhost:3000"}},
		Database: DatabaseConfig{URL: "postgres://localhost/webhooks", MaxConns: 20, MinConns: 2},
		Auth:     AuthConfig{JWTSecret: testSecret},
		Webhooks: WebhooksConfig{MaxPerScope: 10},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "production environment",
			config:   &Config{Server: ServerConfig{AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(c *Config)
		errorMsg string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "missing port", modify: func(c *Config) { c.Server.Port = "" }, errorMsg: "PORT is required"},
		{name: "missing origins", modify: func(c *Config) { c.Server.AllowedOrigins = nil }, errorMsg: "ALLOWED_CORS_ORIGINS is required"},
		{name: "missing database url", modify: func(c *Config) { c.Database.URL = "" }, errorMsg: "DATABASE_URL is required"},
		{name: "min above max", modify: func(c *Config) { c.Database.MinConns = 30 }, errorMsg: "DB_MIN_CONNS"},
		{name: "missing jwt secret", modify: func(c *Config) { c.Auth.JWTSecret = "" }, errorMsg: "JWT_SECRET is required"},
		{name: "short jwt secret", modify: func(c *Config) { c.Auth.JWTSecret = "short" }, errorMsg: "at least 32 characters"},
		{name: "zero max per scope", modify: func(c *Config) { c.Webhooks.MaxPerScope = 0 }, errorMsg: "WEBHOOKS_MAX_PER_SCOPE"},
		{
			name:     "profiling without endpoint",
			modify:   func(c *Config) { c.Profiling.Enabled = true },
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/webhooks")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
	assert.Equal(t, "webhooks-api", cfg.Auth.JWTIssuer)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 60, cfg.Webhooks.ListCacheTTLSeconds)
	assert.Equal(t, 10, cfg.Webhooks.MaxPerScope)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("DATABASE_URL", "postgres://db/webhooks")
	t.Setenv("DB_MAX_CONNS", "5")
	t.Setenv("DB_MIN_CONNS", "1")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("WEBHOOKS_LIST_CACHE_TTL", "5")
	t.Setenv("WEBHOOKS_MAX_PER_SCOPE", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(5), cfg.Database.MaxConns)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, 5, cfg.Webhooks.ListCacheTTLSeconds)
	assert.Equal(t, 3, cfg.Webhooks.MaxPerScope)
}

func TestLoad_ValidationFailure(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadClient(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WEBHOOKS_API_URL", "")
	t.Setenv("WEBHOOKS_ORGANIZATION", "org1")
	t.Setenv("WEBHOOKS_LOCALE", "ru")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadClient()

	assert.Equal(t, "org1", cfg.Organization)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	require.NoError(t, cfg.Validate())
}

func TestClientConfig_Validate(t *testing.T) {
	cfg := &ClientConfig{APIURL: "localhost:8081", TimeoutSeconds: 30}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "http://"))

	cfg = &ClientConfig{APIURL: "https://webhooks.example.com", TimeoutSeconds: 0}
	assert.Error(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
