package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration, resolved once at startup and passed
// explicitly into every component.
type Config struct {
	// Databricks workspace
	Host     string `env:"DATABRICKS_HOST"`          // workspace URL, scheme optional
	HTTPPath string `env:"DATABRICKS_SQL_HTTP_PATH"` // SQL warehouse HTTP path, required
	Token    string `env:"DATABRICKS_TOKEN"`         // developer PAT, local mode only

	// HTTP server
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8000"`
	StaticDir  string `env:"STATIC_DIR" envDefault:"./static"`

	// EchoSQL includes the statement text and bound params in API responses.
	// Debug affordance, leave off outside local development.
	EchoSQL bool `env:"ECHO_SQL" envDefault:"false"`

	// QueryTimeout bounds every warehouse round trip.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"2m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Legacy env names still in use on some workspaces
	if cfg.Host == "" {
		cfg.Host = os.Getenv("DATABRICKS_WORKSPACE_URL")
	}
	if cfg.HTTPPath == "" {
		cfg.HTTPPath = os.Getenv("DATABRICKS_HTTP_PATH")
	}

	cfg.Host = normalizeHost(cfg.Host)
	if cfg.Host == "" {
		return nil, fmt.Errorf("missing workspace host: set DATABRICKS_HOST")
	}
	cfg.HTTPPath = strings.TrimSpace(cfg.HTTPPath)
	if cfg.HTTPPath == "" {
		return nil, fmt.Errorf("missing warehouse path: set DATABRICKS_SQL_HTTP_PATH to your SQL warehouse HTTP path")
	}

	return cfg, nil
}

// normalizeHost trims the host and guarantees an explicit scheme.
func normalizeHost(h string) string {
	h = strings.TrimRight(strings.TrimSpace(h), "/")
	if h == "" {
		return ""
	}
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		h = "https://" + h
	}
	return h
}

// ServerHostname returns the workspace host without its scheme,
// the form the SQL driver expects.
func (c *Config) ServerHostname() string {
	h := strings.TrimPrefix(c.Host, "https://")
	return strings.TrimPrefix(h, "http://")
}

// HasToken reports whether a developer PAT is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}
