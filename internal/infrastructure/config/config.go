package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultHost   = "0.0.0.0"
	DefaultPort   = 8001
	DefaultAppRef = "main:app"
	ServiceName   = "Flood Detection Backend API"
	maxPort       = 65535
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Reload    ReloadConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host              string        `envconfig:"HOST" default:"0.0.0.0"`
	Port              int           `envconfig:"PORT" default:"8001"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	Compression       bool          `envconfig:"GZIP_ENABLED" default:"true"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AppConfig identifies the application object served by the runtime. The
// reference is fixed at main:app and only the -app flag changes it.
type AppConfig struct {
	Ref     string `ignored:"true"`
	Title   string `envconfig:"APP_TITLE" default:"Flood Detection Backend API"`
	Version string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// ReloadConfig holds reload-on-change settings. Reload is a development
// feature and stays off unless RELOAD or -reload turns it on.
type ReloadConfig struct {
	Enabled  bool          `envconfig:"RELOAD" default:"false"`
	Dirs     []string      `envconfig:"RELOAD_DIRS" default:"."`
	Includes []string      `envconfig:"RELOAD_INCLUDES" default:"*.go,.env"`
	Excludes []string      `envconfig:"RELOAD_EXCLUDES" default:".git/**,vendor/**,**/*_test.go"`
	Delay    time.Duration `envconfig:"RELOAD_DELAY" default:"250ms"`
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
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// ConfigurationError reports a configuration value that could not be used.
type ConfigurationError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Load loads configuration from environment variables. Each section is
// processed on its own so variables are read by their bare names (PORT,
// HOST, LOG_LEVEL) and section-prefixed spellings such as SERVER_PORT are
// never consulted.
func Load() (*Config, error) {
	cfg := Config{App: AppConfig{Ref: DefaultAppRef}}
	sections := []any{&cfg.Server, &cfg.App, &cfg.Reload, &cfg.Logging, &cfg.RateLimit, &cfg.CORS}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			var perr *envconfig.ParseError
			if errors.As(err, &perr) {
				return nil, &ConfigurationError{Key: perr.KeyName, Value: perr.Value, Err: perr.Err}
			}
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a dotenv file into the process environment and then calls
// Load. With override set, values from the file replace variables that are
// already present.
func LoadFile(path string, override bool) (*Config, error) {
	if path != "" {
		load := godotenv.Load
		if override {
			load = godotenv.Overload
		}
		if err := load(path); err != nil {
			return nil, &ConfigurationError{Key: "ENV_FILE", Value: path, Err: err}
		}
	}
	return Load()
}

// Validate checks values envconfig cannot check by type alone.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > maxPort {
		return &ConfigurationError{
			Key:   "PORT",
			Value: strconv.Itoa(c.Server.Port),
			Err:   fmt.Errorf("port must be between 0 and %d", maxPort),
		}
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return &ConfigurationError{Key: "LOG_LEVEL", Value: c.Logging.Level, Err: err}
	}
	if c.Reload.Delay < 0 {
		return &ConfigurationError{
			Key:   "RELOAD_DELAY",
			Value: c.Reload.Delay.String(),
			Err:   errors.New("delay must not be negative"),
		}
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ShutdownTimeout:   10 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			Compression:       true,
		},
		App: AppConfig{
			Ref:     DefaultAppRef,
			Title:   ServiceName,
			Version: "1.0.0",
		},
		Reload: ReloadConfig{
			Enabled:  false,
			Dirs:     []string{"."},
			Includes: []string{"*.go", ".env"},
			Excludes: []string{".git/**", "vendor/**", "**/*_test.go"},
			Delay:    250 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
