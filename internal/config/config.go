// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env`
// file when present), loads them into structured Go types and
// validates that required values are present so they can be
// reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the TRAVEL_ prefix. The prefix is stripped,
	the rest is lower-cased, and "." marks nesting:

		TRAVEL_SERVER.PORT         -> server.port         -> Config.Server.Port
		TRAVEL_DATABASE.SSL_MODE   -> database.ssl_mode   -> Config.Database.SSLMode
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "TRAVEL_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "travel-bucket"

// Supported values for DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"min=0"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig bounds how many requests a single client IP may make per window.
// Requests == 0 disables the limiter.
type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=0"`
	Window   time.Duration `koanf:"window"`
}

// DatabaseConfig selects the persistence backend and, for Postgres, carries
// connection parameters and pool tuning.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"omitempty,oneof=postgres memory"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// DSN builds a postgres:// connection URL from the config.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s@%s/%s?sslmode=%s",
		userInfo(d.User, d.Password),
		hostPort(d.Host, d.Port),
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// An empty Address means Redis is not used.
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, applies defaults, validates it, and returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Observability defaults are decoded over, so a partial block keeps
	// the rest of its defaults.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.RateLimit.Window == 0 {
		c.Server.RateLimit.Window = time.Second
	}
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	if c.Observability.HealthChecks.Timeout == 0 {
		c.Observability.HealthChecks.Timeout = 5 * time.Second
	}

	// Service name and environment always come from the primary block so
	// logs and traces agree on naming.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
}

// IsMemory reports whether records live in the in-process go-memdb backend.
func (c *Config) IsMemory() bool {
	return c.Database.Driver == DriverMemory
}
