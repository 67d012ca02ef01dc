package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Transport kinds accepted by ServerConfig.Kind.
const (
	KindHTTP  = "http"
	KindHTTPS = "https"
)

// DefaultPort is used when neither the override nor the configured port is set.
const DefaultPort = 8080

// Config holds all process configuration. It is loaded once at startup and
// treated as immutable afterward, with two exceptions owned by the server:
// the transport kind downgrade on certificate failure and the resolved port.
// Both writes happen before the listener binds.
type Config struct {
	Server    ServerConfig
	TLS       TLSConfig
	CORS      CORSConfig
	Webhook   WebhookConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Kind      string `envconfig:"SERVER_KIND" default:"http"`
	Port      int    `envconfig:"SERVER_PORT" default:"8080"`
	PublicURL string `envconfig:"SERVER_URL" default:"http://localhost:8080"`

	// PortOverride is the externally injected port (typically set by the
	// hosting platform). It takes precedence over Port when non-zero.
	PortOverride int `envconfig:"PORT"`
}

// TLSConfig holds certificate material paths for the https transport.
type TLSConfig struct {
	PrivKeyPath   string `envconfig:"SSL_PRIVKEY_PATH"`
	FullchainPath string `envconfig:"SSL_FULLCHAIN_PATH"`
}

// CORSConfig holds cross-origin policy configuration. Origins may contain
// the wildcard sentinel "*".
type CORSConfig struct {
	Origins     []string `envconfig:"CORS_ORIGINS" default:"*"`
	Methods     []string `envconfig:"CORS_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	Credentials bool     `envconfig:"CORS_CREDENTIALS" default:"true"`
}

// WebhookConfig holds the optional error-reporting webhook.
type WebhookConfig struct {
	URL     string `envconfig:"WEBHOOK_URL"`
	Enabled bool   `envconfig:"WEBHOOK_EVENTS" default:"false"`
	APIKey  string `envconfig:"WEBHOOK_API_KEY"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Kind:      KindHTTP,
			Port:      DefaultPort,
			PublicURL: "http://localhost:8080",
		},
		CORS: CORSConfig{
			Origins:     []string{"*"},
			Methods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			Credentials: true,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

// ResolvePort returns the effective listen port: the injected override when
// present, then the configured port, then DefaultPort.
func (c *Config) ResolvePort() int {
	if c.Server.PortOverride > 0 {
		return c.Server.PortOverride
	}
	if c.Server.Port > 0 {
		return c.Server.Port
	}
	return DefaultPort
}
