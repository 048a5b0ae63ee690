package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress      string   `mapstructure:"HTTP_ADDRESS"`
	LogDevelopment   bool     `mapstructure:"LOG_DEVELOPMENT"`
	StoreDriver      string   `mapstructure:"STORE_DRIVER"`
	SQLiteDSN        string   `mapstructure:"SQLITE_DSN"`
	StoreMaxRetries  int      `mapstructure:"STORE_MAX_RETRIES"`
	BackoffBaseDelay int      `mapstructure:"BACKOFF_BASE_DELAY_MS"`
	AuditDriver      string   `mapstructure:"AUDIT_DRIVER"`
	KafkaBrokers     []string `mapstructure:"KAFKA_BROKERS"`
	KafkaAuditTopic  string   `mapstructure:"KAFKA_AUDIT_TOPIC"`
	TracingEnabled   bool     `mapstructure:"TRACING_ENABLED"`
	OtelEndpoint     string   `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName  string   `mapstructure:"OTEL_SERVICE_NAME"`
	OtelInsecure     bool     `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

var cfg *Config

func NewConfig(path string) (*Config, error) {
	relativeUrl, err := GetBasePath(path)
	if err != nil {
		return nil, fmt.Errorf("error getting base path: %v", err)
	}

	vip := viper.New()
	vip.SetConfigType("env")
	vip.SetConfigName(".env")
	vip.AddConfigPath(relativeUrl)
	vip.AutomaticEnv()

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	vip.SetDefault("HTTP_ADDRESS", ":8080")
	vip.SetDefault("STORE_DRIVER", "memory")
	vip.SetDefault("SQLITE_DSN", "file:notification-decision.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	vip.SetDefault("STORE_MAX_RETRIES", 3)
	vip.SetDefault("BACKOFF_BASE_DELAY_MS", 50)
	vip.SetDefault("AUDIT_DRIVER", "log")
	vip.SetDefault("KAFKA_AUDIT_TOPIC", "notification-commands")
	vip.SetDefault("OTEL_SERVICE_NAME", "notification-decision")

	vip.BindEnv("HTTP_ADDRESS")
	vip.BindEnv("LOG_DEVELOPMENT")
	vip.BindEnv("STORE_DRIVER")
	vip.BindEnv("SQLITE_DSN")
	vip.BindEnv("STORE_MAX_RETRIES")
	vip.BindEnv("BACKOFF_BASE_DELAY_MS")
	vip.BindEnv("AUDIT_DRIVER")
	vip.BindEnv("KAFKA_BROKERS")
	vip.BindEnv("KAFKA_AUDIT_TOPIC")
	vip.BindEnv("TRACING_ENABLED")
	vip.BindEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
	vip.BindEnv("OTEL_SERVICE_NAME")
	vip.BindEnv("OTEL_EXPORTER_OTLP_INSECURE")

	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %v", err)
	}

	if !vip.IsSet("OTEL_EXPORTER_OTLP_INSECURE") {
		cfg.OtelInsecure = false
	}
	return cfg, nil
}

func GetBasePath(path string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return filepath.Join(cwd, path), nil
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", errors.New("go.mod not found")
		}
		cwd = parent
	}
}

func GetConfig() *Config {
	return cfg
}

// GetRetryConfig returns the store retry settings.
func GetRetryConfig() RetryConfig {
	if cfg == nil {
		return RetryConfig{}
	}
	return RetryConfig{
		MaxRetries: cfg.StoreMaxRetries,
		BaseDelay:  time.Duration(cfg.BackoffBaseDelay) * time.Millisecond,
	}
}

// SetTestConfig allows tests to set the global config variable directly.
func SetTestConfig(testCfg *Config) {
	cfg = testCfg
}
