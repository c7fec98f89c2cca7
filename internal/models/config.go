// Package models - Service configuration and operational settings.
// This file defines the configuration structures for every component of the
// status service: the HTTP listener, logging, metrics, tracing and the
// optional request rate limiter.
//
// Configuration Philosophy:
// - Defaults that run unchanged inside a Fargate task (PORT or 3000)
// - Hierarchical grouping so a YAML file mirrors the structs
// - Validation up front so a bad task definition fails at startup
package models

import (
	"errors"
	"fmt"
	"time"
)

// DefaultPort is the listener port used when PORT is not set.
const DefaultPort = 3000

// Rate limit backend constants
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Tracing exporter constants
const (
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// Config is the root configuration structure containing all service settings.
//
// Configuration Structure:
// - Server: listener address and HTTP timeouts
// - Logging: structured logging and output configuration
// - Metrics: Prometheus exposition on a separate port
// - Observability: OpenTelemetry service identity and tracing
// - RateLimit: optional per-client request limiting
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`               // HTTP listener configuration
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`             // Logging and output configuration
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`             // Monitoring and metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"` // Tracing and service identity
	RateLimit     RateLimitConfig     `yaml:"rate_limit" json:"rate_limit"`       // Request rate limiting
}

type ServerConfig struct {
	Port            int           `yaml:"port" json:"port"`
	Host            string        `yaml:"host" json:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled" json:"enabled"`
	Backend           string        `yaml:"backend" json:"backend"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int           `yaml:"burst_size" json:"burst_size"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval" json:"cleanup_interval"`
	Redis             RedisConfig   `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	Password  string `yaml:"password" json:"password"`
	DB        int    `yaml:"db" json:"db"`
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
}

// NewDefaultConfig creates a configuration that serves the status route on
// port 3000 with JSON logs on stdout and every optional subsystem disabled.
//
// Default Values Rationale:
// - Port 3000: the port the container image has always exposed
// - 30-second timeouts: Balance between user experience and resource protection
// - Metrics, tracing and rate limiting off: the task runs with no sidecars
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "statusapi",
			Tracing: TracingConfig{
				Enabled:      false,
				Exporter:     TracingExporterStdout,
				OTLPEndpoint: "localhost:4317",
				SampleRate:   1.0,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			Backend:           RateLimitBackendMemory,
			RequestsPerMinute: 600,
			BurstSize:         100,
			CleanupInterval:   5 * time.Minute,
			Redis: RedisConfig{
				KeyPrefix: "statusapi:rl",
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if c.Metrics.Enabled && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("invalid metrics config: metrics port %d collides with server port", c.Metrics.Port)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}

	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}

	if sc.ReadTimeout < 0 {
		return errors.New("read timeout cannot be negative")
	}

	if sc.WriteTimeout < 0 {
		return errors.New("write timeout cannot be negative")
	}

	if sc.IdleTimeout < 0 {
		return errors.New("idle timeout cannot be negative")
	}

	if sc.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout cannot be negative")
	}

	return nil
}

func (lc *LoggingConfig) Validate() error {
	if !oneOf(lc.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	if !oneOf(lc.Format, "json", "text") {
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}

	if !oneOf(lc.Output, "stdout", "stderr", "file") {
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}

	if lc.Output == "file" && lc.FilePath == "" {
		return errors.New("file path is required when output is file")
	}

	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}

	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}

	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}

	return nil
}

func (oc *ObservabilityConfig) Validate() error {
	if !oc.Tracing.Enabled {
		return nil
	}

	if oc.ServiceName == "" {
		return errors.New("service name is required when tracing is enabled")
	}

	if !oneOf(oc.Tracing.Exporter, TracingExporterStdout, TracingExporterOTLP) {
		return fmt.Errorf("invalid tracing exporter: %s", oc.Tracing.Exporter)
	}

	if oc.Tracing.SampleRate < 0 || oc.Tracing.SampleRate > 1 {
		return errors.New("tracing sample rate must be between 0 and 1")
	}

	if oc.Tracing.Exporter == TracingExporterOTLP && oc.Tracing.OTLPEndpoint == "" {
		return errors.New("OTLP endpoint is required when tracing exporter is otlp")
	}

	return nil
}

func (rc *RateLimitConfig) Validate() error {
	if !rc.Enabled {
		return nil
	}

	if !oneOf(rc.Backend, RateLimitBackendMemory, RateLimitBackendRedis) {
		return fmt.Errorf("invalid rate limit backend: %s", rc.Backend)
	}

	if rc.RequestsPerMinute <= 0 {
		return errors.New("requests per minute must be positive")
	}

	if rc.BurstSize <= 0 {
		return errors.New("burst size must be positive")
	}

	if rc.Backend == RateLimitBackendMemory && rc.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive")
	}

	if rc.Backend == RateLimitBackendRedis && rc.Redis.Addr == "" {
		return errors.New("Redis address is required when backend is redis")
	}

	return nil
}

func oneOf(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
