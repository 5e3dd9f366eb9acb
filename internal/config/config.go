package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser        string
	DBPass        string
	DBHost        string
	DBPort        string
	DBName        string
	SSLMode       string
	RedisHost     string
	RedisPort     string
	NatsHost      string
	NatsPort      string
	ApiPort       string
	ApiEnabled    string
	BankAccountID string
	WebhookURL    string
}

// New loads and validates configuration from environment variables.
// HTTP server is optional: if PAYCODE_API_ENABLED != "true", ApiAddr() returns
// an error and the HTTP server simply won't start. NATS is optional too:
// without PAYCODE_NATS_HOST/PORT no bus is wired and events are dropped.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("PAYCODE_POSTGRES_USER"),
		DBPass:        os.Getenv("PAYCODE_POSTGRES_PASSWORD"),
		DBHost:        os.Getenv("PAYCODE_POSTGRES_HOST"),
		DBPort:        os.Getenv("PAYCODE_POSTGRES_PORT"),
		DBName:        os.Getenv("PAYCODE_POSTGRES_DB"),
		SSLMode:       os.Getenv("PAYCODE_POSTGRES_SSLMODE"),
		RedisHost:     os.Getenv("PAYCODE_REDIS_HOST"),
		RedisPort:     os.Getenv("PAYCODE_REDIS_PORT"),
		NatsHost:      os.Getenv("PAYCODE_NATS_HOST"),
		NatsPort:      os.Getenv("PAYCODE_NATS_PORT"),
		ApiPort:       os.Getenv("PAYCODE_API_PORT"),
		ApiEnabled:    os.Getenv("PAYCODE_API_ENABLED"),
		BankAccountID: getEnv("PAYCODE_BANK_ACCOUNT_ID", "bank"),
		WebhookURL:    os.Getenv("PAYCODE_WEBHOOK_URL"),
	}

	// Required: database
	if cfg.DBUser == "" || cfg.DBHost == "" || cfg.DBName == "" || cfg.SSLMode == "" {
		return nil, fmt.Errorf("missing required env for database: PAYCODE_POSTGRES_USER/HOST/DB/SSLMODE")
	}

	// Required: redis
	if cfg.RedisHost == "" || cfg.RedisPort == "" {
		return nil, fmt.Errorf("missing required env for redis: PAYCODE_REDIS_HOST/PORT")
	}

	if (cfg.NatsHost == "") != (cfg.NatsPort == "") {
		return nil, fmt.Errorf("PAYCODE_NATS_HOST and PAYCODE_NATS_PORT must be set together")
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName, c.SSLMode)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) NatsAddr() string {
	if c.NatsHost == "" {
		return ""
	}
	return fmt.Sprintf("nats://%s:%s", c.NatsHost, c.NatsPort)
}

// ApiAddr returns the HTTP listen address if the API is enabled.
// Returns an error if PAYCODE_API_ENABLED != "true" — callers should skip
// starting the HTTP server.
func (c *Config) ApiAddr() (string, error) {
	if c.ApiEnabled == "true" {
		if c.ApiPort == "" {
			return "", fmt.Errorf("PAYCODE_API_PORT is required when PAYCODE_API_ENABLED=true")
		}
		return ":" + c.ApiPort, nil
	}
	return "", fmt.Errorf("HTTP API is disabled (PAYCODE_API_ENABLED != true)")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
