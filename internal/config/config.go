// Package config provides unified configuration loading for Flipbook Studio.
// Supports YAML files, .env files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/flipbook-studio/internal/domain"
)

// Config holds all configuration for Flipbook Studio.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Voice         VoiceConfig         `yaml:"voice"`
	Flipbook      FlipbookConfig      `yaml:"flipbook"`
	Reader        ReaderConfig        `yaml:"reader"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ResolverConfig holds settings for the remote voice command resolver.
type ResolverConfig struct {
	URL            string        `yaml:"url"` // empty disables remote resolution
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// VoiceConfig holds speech capture and supervisor timing.
type VoiceConfig struct {
	Language           string        `yaml:"language"`
	RestartDelay       time.Duration `yaml:"restart_delay"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
	RouteSettleDelay   time.Duration `yaml:"route_settle_delay"`
	MaxRestartAttempts int           `yaml:"max_restart_attempts"`
}

// FlipbookConfig holds conversion settings.
type FlipbookConfig struct {
	MaxUploadBytes int64   `yaml:"max_upload_bytes"`
	RenderScale    float64 `yaml:"render_scale"`
	JPEGQuality    int     `yaml:"jpeg_quality"`
}

// ReaderConfig holds reader zoom bounds.
type ReaderConfig struct {
	ZoomStep float64 `yaml:"zoom_step"`
	MinZoom  float64 `yaml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string      `yaml:"driver"` // memory or redis
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file "+path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file "+path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("invalid configuration", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Resolver: ResolverConfig{
			URL:            "http://localhost:8080/api/voice-command",
			Timeout:        5 * time.Second,
			MaxRetries:     1,
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			CacheTTL:       10 * time.Minute,
		},
		Voice: VoiceConfig{
			Language:           "en-US",
			RestartDelay:       300 * time.Millisecond,
			RetryDelay:         1000 * time.Millisecond,
			RouteSettleDelay:   500 * time.Millisecond,
			MaxRestartAttempts: 2,
		},
		Flipbook: FlipbookConfig{
			MaxUploadBytes: 50 * 1024 * 1024,
			RenderScale:    1.5,
			JPEGQuality:    80,
		},
		Reader: ReaderConfig{
			ZoomStep: 1.2,
			MinZoom:  0.5,
			MaxZoom:  3.0,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			MaxEntries: 1000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
				Prefix:   "flipbook:",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "console",
			ServiceName: "flipbook-studio",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Resolver.MaxRetries < 0 {
		return fmt.Errorf("resolver max_retries must not be negative")
	}

	if c.Voice.MaxRestartAttempts < 1 {
		return fmt.Errorf("voice max_restart_attempts must be at least 1")
	}

	if c.Voice.RestartDelay < 0 || c.Voice.RetryDelay < 0 || c.Voice.RouteSettleDelay < 0 {
		return fmt.Errorf("voice delays must not be negative")
	}

	if c.Flipbook.MaxUploadBytes <= 0 {
		return fmt.Errorf("flipbook max_upload_bytes must be positive")
	}

	if c.Flipbook.RenderScale <= 0 {
		return fmt.Errorf("flipbook render_scale must be positive")
	}

	if c.Flipbook.JPEGQuality < 1 || c.Flipbook.JPEGQuality > 100 {
		return fmt.Errorf("flipbook jpeg_quality must be between 1 and 100, got %d", c.Flipbook.JPEGQuality)
	}

	if c.Reader.MinZoom <= 0 || c.Reader.MinZoom > c.Reader.MaxZoom {
		return fmt.Errorf("reader zoom bounds are invalid: [%v, %v]", c.Reader.MinZoom, c.Reader.MaxZoom)
	}

	if c.Reader.ZoomStep <= 1 {
		return fmt.Errorf("reader zoom_step must be greater than 1")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v, ok := os.LookupEnv("RESOLVER_URL"); ok {
		cfg.Resolver.URL = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
