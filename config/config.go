package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the webhooks API server configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Webhooks      WebhooksConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL string
	// CACertPath is read when URL requests a verified TLS connection
	CACertPath string
	MaxConns   int32
	MinConns   int32
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	TokenTTLHours int
}

type WebhooksConfig struct {
	ListCacheTTLSeconds int
	MaxPerScope         int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// ClientConfig holds the configuration of the webhooks CLI
type ClientConfig struct {
	APIURL         string
	APIToken       string
	Organization   string
	Project        string
	TimeoutSeconds int
	Locale         string
	LogLevel       string
}

func newViper() *viper.Viper {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	return v
}

// Load reads the server configuration from environment variables
func Load() (*Config, error) {
	v := newViper()

	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("DATABASE_CA_CERT", "certs/ca.crt")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("JWT_ISSUER", "webhooks-api")
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("WEBHOOKS_LIST_CACHE_TTL", 60)
	v.SetDefault("WEBHOOKS_MAX_PER_SCOPE", 10)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_BE_SERVICE_NAME", "webhooks-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "webhooks")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "webhooks-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			MinConns:   v.GetInt32("DB_MIN_CONNS"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			JWTIssuer:     v.GetString("JWT_ISSUER"),
			TokenTTLHours: v.GetInt("TOKEN_TTL_HOURS"),
		},
		Webhooks: WebhooksConfig{
			ListCacheTTLSeconds: v.GetInt("WEBHOOKS_LIST_CACHE_TTL"),
			MaxPerScope:         v.GetInt("WEBHOOKS_MAX_PER_SCOPE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if c.Webhooks.MaxPerScope <= 0 {
		return fmt.Errorf("WEBHOOKS_MAX_PER_SCOPE must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// LoadClient reads the CLI configuration from environment variables.
// Flags override these values afterwards, so only defaults are applied here.
func LoadClient() *ClientConfig {
	v := newViper()

	v.SetDefault("WEBHOOKS_API_URL", "http://localhost:8081")
	v.SetDefault("WEBHOOKS_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("WEBHOOKS_LOCALE", "en")
	v.SetDefault("LOG_LEVEL", "warn")

	return &ClientConfig{
		APIURL:         v.GetString("WEBHOOKS_API_URL"),
		APIToken:       v.GetString("WEBHOOKS_API_TOKEN"),
		Organization:   v.GetString("WEBHOOKS_ORGANIZATION"),
		Project:        v.GetString("WEBHOOKS_PROJECT"),
		TimeoutSeconds: v.GetInt("WEBHOOKS_API_TIMEOUT_SECONDS"),
		Locale:         v.GetString("WEBHOOKS_LOCALE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}
}

// Validate checks the CLI configuration after flags are applied
func (c *ClientConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("WEBHOOKS_API_URL is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("WEBHOOKS_API_URL must start with http:// or https://")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("WEBHOOKS_API_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
