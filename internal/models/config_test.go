package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	// Test server defaults
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, config.Server.IdleTimeout)
	assert.Equal(t, 30*time.Second, config.Server.ShutdownTimeout)

	// Test logging defaults
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "stdout", config.Logging.Output)
	assert.Empty(t, config.Logging.FilePath)

	// Test metrics defaults
	assert.False(t, config.Metrics.Enabled)
	assert.Equal(t, "/metrics", config.Metrics.Path)
	assert.Equal(t, 9090, config.Metrics.Port)

	// Test observability defaults
	assert.Equal(t, "statusapi", config.Observability.ServiceName)
	assert.False(t, config.Observability.Tracing.Enabled)
	assert.Equal(t, "stdout", config.Observability.Tracing.Exporter)
	assert.Equal(t, 1.0, config.Observability.Tracing.SampleRate)

	// Test rate limit defaults
	assert.False(t, config.RateLimit.Enabled)
	assert.Equal(t, RateLimitBackendMemory, config.RateLimit.Backend)
	assert.Equal(t, 600, config.RateLimit.RequestsPerMinute)
	assert.Equal(t, 100, config.RateLimit.BurstSize)
	assert.Equal(t, "statusapi:rl", config.RateLimit.Redis.KeyPrefix)

	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "defaults are valid",
			modify:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "invalid server port",
			modify:      func(c *Config) { c.Server.Port = 0 },
			expectError: true,
			errorMsg:    "invalid server config",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "invalid logging config",
		},
		{
			name: "invalid metrics port",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Port = 70000
			},
			expectError: true,
			errorMsg:    "invalid metrics config",
		},
		{
			name: "metrics port collides with server port",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Port = c.Server.Port
			},
			expectError: true,
			errorMsg:    "collides with server port",
		},
		{
			name: "same port allowed while metrics disabled",
			modify: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Port = c.Server.Port
			},
			expectError: false,
		},
		{
			name: "invalid tracing exporter",
			modify: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.Exporter = "zipkin"
			},
			expectError: true,
			errorMsg:    "invalid observability config",
		},
		{
			name: "invalid rate limit backend",
			modify: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Backend = "memcached"
			},
			expectError: true,
			errorMsg:    "invalid rate limit config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      ServerConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: ServerConfig{
				Port:         3000,
				Host:         "localhost",
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			},
			expectError: false,
		},
		{
			name:        "lowest valid port",
			config:      ServerConfig{Port: 1, Host: "0.0.0.0"},
			expectError: false,
		},
		{
			name:        "highest valid port",
			config:      ServerConfig{Port: 65535, Host: "0.0.0.0"},
			expectError: false,
		},
		{
			name:        "invalid port - zero",
			config:      ServerConfig{Port: 0, Host: "localhost"},
			expectError: true,
			errorMsg:    "port must be between 1 and 65535",
		},
		{
			name:        "invalid port - negative",
			config:      ServerConfig{Port: -1, Host: "localhost"},
			expectError: true,
			errorMsg:    "port must be between 1 and 65535",
		},
		{
			name:        "invalid port - too high",
			config:      ServerConfig{Port: 70000, Host: "localhost"},
			expectError: true,
			errorMsg:    "port must be between 1 and 65535",
		},
		{
			name:        "empty host",
			config:      ServerConfig{Port: 3000, Host: ""},
			expectError: true,
			errorMsg:    "host cannot be empty",
		},
		{
			name:        "negative read timeout",
			config:      ServerConfig{Port: 3000, Host: "localhost", ReadTimeout: -1 * time.Second},
			expectError: true,
			errorMsg:    "read timeout cannot be negative",
		},
		{
			name:        "negative write timeout",
			config:      ServerConfig{Port: 3000, Host: "localhost", WriteTimeout: -1 * time.Second},
			expectError: true,
			errorMsg:    "write timeout cannot be negative",
		},
		{
			name:        "negative idle timeout",
			config:      ServerConfig{Port: 3000, Host: "localhost", IdleTimeout: -1 * time.Second},
			expectError: true,
			errorMsg:    "idle timeout cannot be negative",
		},
		{
			name:        "negative shutdown timeout",
			config:      ServerConfig{Port: 3000, Host: "localhost", ShutdownTimeout: -1 * time.Second},
			expectError: true,
			errorMsg:    "shutdown timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      LoggingConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid json stdout",
			config:      LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
			expectError: false,
		},
		{
			name:        "valid text stderr",
			config:      LoggingConfig{Level: "debug", Format: "text", Output: "stderr"},
			expectError: false,
		},
		{
			name:        "valid file output",
			config:      LoggingConfig{Level: "warn", Format: "json", Output: "file", FilePath: "/var/log/statusapi.log"},
			expectError: false,
		},
		{
			name:        "invalid level",
			config:      LoggingConfig{Level: "trace", Format: "json", Output: "stdout"},
			expectError: true,
			errorMsg:    "invalid log level: trace",
		},
		{
			name:        "invalid format",
			config:      LoggingConfig{Level: "info", Format: "xml", Output: "stdout"},
			expectError: true,
			errorMsg:    "invalid log format: xml",
		},
		{
			name:        "invalid output",
			config:      LoggingConfig{Level: "info", Format: "json", Output: "syslog"},
			expectError: true,
			errorMsg:    "invalid log output: syslog",
		},
		{
			name:        "file output without path",
			config:      LoggingConfig{Level: "error", Format: "json", Output: "file"},
			expectError: true,
			errorMsg:    "file path is required when output is file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMetricsConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "disabled skips validation",
			config:      MetricsConfig{Enabled: false, Port: -1},
			expectError: false,
		},
		{
			name:        "valid enabled",
			config:      MetricsConfig{Enabled: true, Path: "/metrics", Port: 9090},
			expectError: false,
		},
		{
			name:        "empty path",
			config:      MetricsConfig{Enabled: true, Path: "", Port: 9090},
			expectError: true,
			errorMsg:    "metrics path cannot be empty",
		},
		{
			name:        "invalid port",
			config:      MetricsConfig{Enabled: true, Path: "/metrics", Port: 0},
			expectError: true,
			errorMsg:    "metrics port must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestObservabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      ObservabilityConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "tracing disabled",
			config: ObservabilityConfig{
				Tracing: TracingConfig{Enabled: false},
			},
			expectError: false,
		},
		{
			name: "valid stdout tracing",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "stdout",
					SampleRate: 1.0,
				},
			},
			expectError: false,
		},
		{
			name: "valid otlp tracing",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:      true,
					Exporter:     "otlp",
					SampleRate:   0.5,
					OTLPEndpoint: "localhost:4317",
				},
			},
			expectError: false,
		},
		{
			name: "missing service name",
			config: ObservabilityConfig{
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "stdout",
					SampleRate: 1.0,
				},
			},
			expectError: true,
			errorMsg:    "service name is required when tracing is enabled",
		},
		{
			name: "invalid exporter",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "invalid",
					SampleRate: 1.0,
				},
			},
			expectError: true,
			errorMsg:    "invalid tracing exporter: invalid",
		},
		{
			name: "negative sample rate",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "stdout",
					SampleRate: -0.1,
				},
			},
			expectError: true,
			errorMsg:    "tracing sample rate must be between 0 and 1",
		},
		{
			name: "sample rate above 1",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "stdout",
					SampleRate: 1.5,
				},
			},
			expectError: true,
			errorMsg:    "tracing sample rate must be between 0 and 1",
		},
		{
			name: "otlp without endpoint",
			config: ObservabilityConfig{
				ServiceName: "statusapi",
				Tracing: TracingConfig{
					Enabled:    true,
					Exporter:   "otlp",
					SampleRate: 1.0,
				},
			},
			expectError: true,
			errorMsg:    "OTLP endpoint is required when tracing exporter is otlp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateLimitConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      RateLimitConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "disabled skips validation",
			config:      RateLimitConfig{Enabled: false, Backend: "bogus"},
			expectError: false,
		},
		{
			name: "valid memory backend",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           RateLimitBackendMemory,
				RequestsPerMinute: 60,
				BurstSize:         10,
				CleanupInterval:   time.Minute,
			},
			expectError: false,
		},
		{
			name: "valid redis backend",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           RateLimitBackendRedis,
				RequestsPerMinute: 60,
				BurstSize:         10,
				Redis:             RedisConfig{Addr: "localhost:6379"},
			},
			expectError: false,
		},
		{
			name: "unknown backend",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           "memcached",
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
			expectError: true,
			errorMsg:    "invalid rate limit backend: memcached",
		},
		{
			name: "zero requests per minute",
			config: RateLimitConfig{
				Enabled:         true,
				Backend:         RateLimitBackendMemory,
				BurstSize:       10,
				CleanupInterval: time.Minute,
			},
			expectError: true,
			errorMsg:    "requests per minute must be positive",
		},
		{
			name: "zero burst",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           RateLimitBackendMemory,
				RequestsPerMinute: 60,
				CleanupInterval:   time.Minute,
			},
			expectError: true,
			errorMsg:    "burst size must be positive",
		},
		{
			name: "memory without cleanup interval",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           RateLimitBackendMemory,
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
			expectError: true,
			errorMsg:    "cleanup interval must be positive",
		},
		{
			name: "redis without address",
			config: RateLimitConfig{
				Enabled:           true,
				Backend:           RateLimitBackendRedis,
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
			expectError: true,
			errorMsg:    "Redis address is required when backend is redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
