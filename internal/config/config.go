package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	JWT       JWTConfig       `yaml:"jwt"`
	Billing   BillingConfig   `yaml:"billing"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RabbitMQConfig contains event broker settings. An empty URL disables
// publishing (events are dropped).
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

// JWTConfig contains token validation settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// BillingConfig contains rental pricing and settlement settings.
type BillingConfig struct {
	HourlyRateCents      int32  `yaml:"hourly_rate_cents"`
	Currency             string `yaml:"currency"`
	StalePaymentTTLHours int    `yaml:"stale_payment_ttl_hours"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings.
type SchedulerConfig struct {
	ExpireStalePayments    string `yaml:"expire_stale_payments"`
	ReconcilePaymentStatus string `yaml:"reconcile_payment_status"`
}

// Load reads configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables.
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Broker
	if val := os.Getenv("RABBITMQ_URL"); val != "" {
		c.RabbitMQ.URL = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Billing
	if val := os.Getenv("HOURLY_RATE_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Billing.HourlyRateCents)
	}
	if val := os.Getenv("BILLING_CURRENCY"); val != "" {
		c.Billing.Currency = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Billing defaults
	if c.Billing.HourlyRateCents <= 0 {
		c.Billing.HourlyRateCents = 50
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "KES"
	}
	if c.Billing.StalePaymentTTLHours <= 0 {
		c.Billing.StalePaymentTTLHours = 48
	}

	// Scheduler defaults
	if c.Scheduler.ExpireStalePayments == "" {
		c.Scheduler.ExpireStalePayments = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.ReconcilePaymentStatus == "" {
		c.Scheduler.ReconcilePaymentStatus = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string.
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
