package config

import (
	"os"
	"strings"
	"time"
)

// Ledger backend names
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	ProductURLs []string
	Ledger      LedgerConfig
	SMTP        SMTPConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Server      ServerConfig
	Fetch       FetchConfig
	LogLevel    string
	Env         string
}

// LedgerConfig selects and configures the ledger store
type LedgerConfig struct {
	Backend        string
	CSVPath        string
	DatabaseURL    string
	MigrationsPath string
}

// SMTPConfig holds email delivery configuration
type SMTPConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	Recipients []string
	Subject    string
}

// Enabled reports whether email delivery is configured at all.
func (s *SMTPConfig) Enabled() bool {
	return s.Host != "" && len(s.Recipients) > 0
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// RedisConfig holds the run-summary cache configuration
type RedisConfig struct {
	Addr    string
	Enabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// FetchConfig holds product-page fetcher configuration
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		ProductURLs: splitList(getEnv("PRODUCT_URLS", "")),
		Ledger: LedgerConfig{
			Backend:        getEnv("LEDGER_BACKEND", BackendCSV),
			CSVPath:        getEnv("LEDGER_CSV_PATH", "price_tracking.csv"),
			DatabaseURL:    getEnv("DATABASE_URL", ""),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnv("SMTP_PORT", "587"),
			Username:   getEnv("EMAIL_USERNAME", ""),
			Password:   getEnv("EMAIL_PASSWORD", ""),
			From:       getEnv("EMAIL_FROM", getEnv("EMAIL_USERNAME", "")),
			Recipients: splitList(getEnv("EMAIL_RECIPIENTS", "")),
			Subject:    getEnv("EMAIL_SUBJECT", "Daily Price Tracker Report"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "price-events"),
			Enabled: getEnv("KAFKA_BROKERS", "") != "",
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", ""),
			Enabled: getEnv("REDIS_ADDR", "") != "",
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Fetch: FetchConfig{
			Timeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			UserAgent: getEnv("FETCH_USER_AGENT", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "dev"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
