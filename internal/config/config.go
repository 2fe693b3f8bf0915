// Package config provides configuration management for the storefront client.
// It supports environment variable-based configuration with validation and
// default values for the API connection, order polling, session storage,
// metrics, and logging settings, plus an optional YAML overlay for the
// backend endpoint paths.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// MinPollInterval is the shortest allowed order polling interval.
	MinPollInterval = 500 * time.Millisecond
)

// Config represents the complete configuration for the storefront client,
// aggregating all component-specific configurations.
type Config struct {
	// Environment holds environment-specific settings.
	Environment EnvironmentConfig `envconfig:"ENVIRONMENT"`
	// API contains the backend connection settings.
	API APIConfig `envconfig:"API"`
	// Poll contains the order polling cadence and the post-order settle delay.
	Poll PollConfig `envconfig:"POLL"`
	// Storage selects and configures the persisted-session backend.
	Storage StorageConfig `envconfig:"STORAGE"`
	// Redis contains Redis connection settings for the redis storage backend.
	Redis RedisConfig `envconfig:"REDIS"`
	// Metrics contains the optional Prometheus endpoint settings.
	Metrics MetricsConfig `envconfig:"METRICS"`
	// Logging contains logging configuration.
	Logging LoggingConfig `envconfig:"LOGGING"`

	// Endpoints holds the backend paths, filled from defaults and the
	// optional configs/endpoints.yaml overlay (not an environment section).
	Endpoints Endpoints `ignored:"true"`
}

type Environment string

const (
	Local   Environment = "LOCAL"
	NonProd Environment = "NONPROD"
	Prod    Environment = "PROD"
)

// EnvironmentConfig holds environment-specific settings.
type EnvironmentConfig struct {
	// Environment indicates the current running environment (LOCAL, NONPROD, PROD).
	Environment Environment `envconfig:"ENV" default:"LOCAL"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	// BaseURL is the storefront backend base URL.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	// Timeout is the HTTP request timeout for all backend calls.
	Timeout time.Duration `envconfig:"TIMEOUT"  default:"10s"`
}

// PollConfig holds the order polling cadence.
type PollConfig struct {
	// OrdersInterval is the fixed interval between order refetches while a
	// session is active.
	OrdersInterval time.Duration `envconfig:"ORDERS_INTERVAL"    default:"3s"`
	// OrderSettleDelay is how long to wait after placing an order before
	// refetching, giving the backend's async pipeline time to settle.
	OrderSettleDelay time.Duration `envconfig:"ORDER_SETTLE_DELAY" default:"800ms"`
}

// StorageBackend selects a persisted-session store implementation.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

// StorageConfig selects and configures the persisted-session backend.
type StorageConfig struct {
	// Backend is one of "file", "redis", or "memory".
	Backend StorageBackend `envconfig:"BACKEND"   default:"file"`
	// FilePath is the session document location for the file backend.
	FilePath string `envconfig:"FILE_PATH" default:".leninkart/session.json"`
}

// RedisConfig contains Redis connection configuration including
// connection pool settings and timeouts.
type RedisConfig struct {
	// URL is the Redis connection URL.
	URL string `envconfig:"URL"           default:"redis://localhost:6379"`
	// Password is the Redis authentication password.
	Password string `envconfig:"PASSWORD"`
	// DB is the Redis database number to use.
	DB int `envconfig:"DB"            default:"0"`
	// MaxRetries is the maximum number of retry attempts for failed operations.
	MaxRetries int `envconfig:"MAX_RETRIES"   default:"3"`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `envconfig:"POOL_SIZE"     default:"10"`
	// MinIdleConn is the minimum number of idle connections.
	MinIdleConn int `envconfig:"MIN_IDLE_CONN" default:"5"`
	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT"  default:"5s"`
	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT"  default:"3s"`
	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	// PoolTimeout is the amount of time client waits for connection.
	PoolTimeout time.Duration `envconfig:"POOL_TIMEOUT"  default:"4s"`
}

// MetricsConfig contains the optional Prometheus endpoint settings.
type MetricsConfig struct {
	// Enabled turns the /metrics HTTP endpoint on.
	Enabled bool `envconfig:"ENABLED" default:"false"`
	// Addr is the listen address for the metrics endpoint.
	Addr string `envconfig:"ADDR"    default:":9100"`
}

// LoggingConfig contains logging configuration including
// log level, format, and output destination.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `envconfig:"LEVEL"  default:"info"`
	// Format is the log output format (json, text).
	Format string `envconfig:"FORMAT" default:"json"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `envconfig:"OUTPUT" default:"stdout"`
}

// Load reads configuration from environment variables, applies the endpoint
// defaults and the optional YAML overlay, and returns a validated Config
// instance. It returns an error if configuration is invalid.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	endpoints, err := loadEndpoints()
	if err != nil {
		return nil, fmt.Errorf("failed to load endpoint configuration: %w", err)
	}
	cfg.Endpoints = endpoints

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate performs validation of all configuration values, ensuring they
// meet operational requirements.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API base URL is required")
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if c.API.Timeout <= 0 {
		return errors.New("API timeout must be positive")
	}

	if c.Poll.OrdersInterval < MinPollInterval {
		return fmt.Errorf("orders poll interval must be at least %s", MinPollInterval)
	}
	if c.Poll.OrderSettleDelay < 0 {
		return errors.New("order settle delay must not be negative")
	}

	switch c.Storage.Backend {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageFile && c.Storage.FilePath == "" {
		return errors.New("storage file path is required for the file backend")
	}

	return c.Endpoints.Validate()
}
