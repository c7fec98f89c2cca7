package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"statusapi/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PortEnv is the variable the container platform uses to hand the service
// its listening port.
const PortEnv = "PORT"

// EnvFileEnv names the variable pointing at an optional dotenv file.
const EnvFileEnv = "STATUSAPI_ENV_FILE"

const defaultEnvFile = ".env"

// Load builds the configuration: defaults, then the dotenv file (which never
// overrides variables already set in the environment), then the YAML file at
// configPath if one is given, then environment variables.
func Load(configPath string) (*models.Config, error) {
	config := models.NewDefaultConfig()

	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := loadFromEnvironment(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadEnvFile applies the dotenv file named by STATUSAPI_ENV_FILE, or ./.env.
// A missing default file is not an error; a missing explicit file is.
func loadEnvFile() error {
	path, explicit := os.LookupEnv(EnvFileEnv)
	if !explicit || path == "" {
		path = defaultEnvFile
		explicit = false
	}

	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// loadFromEnvironment loads configuration from environment variables.
// PORT must parse when present; malformed STATUSAPI_* values are ignored.
func loadFromEnvironment(config *models.Config) error {
	if port, ok := os.LookupEnv(PortEnv); ok && port != "" {
		p, err := strconv.Atoi(strings.TrimSpace(port))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", PortEnv, port, err)
		}
		config.Server.Port = p
	}

	// Server configuration
	setString("STATUSAPI_HOST", &config.Server.Host)
	setDuration("STATUSAPI_READ_TIMEOUT", &config.Server.ReadTimeout)
	setDuration("STATUSAPI_WRITE_TIMEOUT", &config.Server.WriteTimeout)
	setDuration("STATUSAPI_IDLE_TIMEOUT", &config.Server.IdleTimeout)
	setDuration("STATUSAPI_SHUTDOWN_TIMEOUT", &config.Server.ShutdownTimeout)

	// Logging configuration
	setString("STATUSAPI_LOG_LEVEL", &config.Logging.Level)
	setString("STATUSAPI_LOG_FORMAT", &config.Logging.Format)
	setString("STATUSAPI_LOG_OUTPUT", &config.Logging.Output)
	setString("STATUSAPI_LOG_FILE_PATH", &config.Logging.FilePath)

	// Metrics configuration
	setBool("STATUSAPI_METRICS_ENABLED", &config.Metrics.Enabled)
	setString("STATUSAPI_METRICS_PATH", &config.Metrics.Path)
	setInt("STATUSAPI_METRICS_PORT", &config.Metrics.Port)

	// Observability configuration
	setString("STATUSAPI_SERVICE_NAME", &config.Observability.ServiceName)
	setBool("STATUSAPI_TRACING_ENABLED", &config.Observability.Tracing.Enabled)
	setString("STATUSAPI_TRACING_EXPORTER", &config.Observability.Tracing.Exporter)
	setString("STATUSAPI_OTLP_ENDPOINT", &config.Observability.Tracing.OTLPEndpoint)
	if rate := os.Getenv("STATUSAPI_TRACING_SAMPLE_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Observability.Tracing.SampleRate = r
		}
	}

	// Rate limit configuration
	setBool("STATUSAPI_RATE_LIMIT_ENABLED", &config.RateLimit.Enabled)
	setString("STATUSAPI_RATE_LIMIT_BACKEND", &config.RateLimit.Backend)
	setInt("STATUSAPI_RATE_LIMIT_RPM", &config.RateLimit.RequestsPerMinute)
	setInt("STATUSAPI_RATE_LIMIT_BURST", &config.RateLimit.BurstSize)
	setDuration("STATUSAPI_RATE_LIMIT_CLEANUP_INTERVAL", &config.RateLimit.CleanupInterval)

	// Redis configuration
	setString("STATUSAPI_REDIS_ADDR", &config.RateLimit.Redis.Addr)
	setString("STATUSAPI_REDIS_PASSWORD", &config.RateLimit.Redis.Password)
	setInt("STATUSAPI_REDIS_DB", &config.RateLimit.Redis.DB)
	setString("STATUSAPI_REDIS_KEY_PREFIX", &config.RateLimit.Redis.KeyPrefix)

	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.ToLower(v) == "true"
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// SaveExample writes the default configuration as YAML to filePath.
func SaveExample(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	config := models.NewDefaultConfig()

	// Example values for the optional subsystems
	config.Metrics.Enabled = true
	config.Observability.Tracing.Exporter = models.TracingExporterOTLP
	config.RateLimit.Redis.Addr = "localhost:6379"

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
