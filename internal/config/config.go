package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BillingConfig holds the defaults seeded into the system settings singleton
// the first time it is read.
type BillingConfig struct {
	CompanyName           string  `yaml:"company_name"`
	Currency              string  `yaml:"currency"`
	VatRate               float64 `yaml:"vat_rate"`
	InvoicePrefix         string  `yaml:"invoice_prefix"`
	InitialInvoiceCounter int64   `yaml:"initial_invoice_counter"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepBookingStatuses string `yaml:"sweep_booking_statuses"`
	MarkOverduePayments  string `yaml:"mark_overdue_payments"`
}

// Load reads configuration from a YAML file
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

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Billing defaults
	if c.Billing.CompanyName == "" {
		c.Billing.CompanyName = "RentalOps"
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "KES"
	}
	if c.Billing.VatRate == 0 {
		c.Billing.VatRate = 16.0
	}
	if c.Billing.InvoicePrefix == "" {
		c.Billing.InvoicePrefix = "RNT"
	}
	if c.Billing.InitialInvoiceCounter == 0 {
		c.Billing.InitialInvoiceCounter = 90
	}

	// Scheduler defaults
	if c.Scheduler.SweepBookingStatuses == "" {
		c.Scheduler.SweepBookingStatuses = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.MarkOverduePayments == "" {
		c.Scheduler.MarkOverduePayments = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
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
