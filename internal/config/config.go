package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                   string   `yaml:"host"`
	Port                   int      `yaml:"port"`
	ReadTimeoutSeconds     int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret               string `yaml:"secret"`
	SessionExpiryMinutes int    `yaml:"session_expiry_minutes"`
}

// AuthConfig contains cookie and bootstrap account settings
type AuthConfig struct {
	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`
	// Created as a superuser on startup when the users table is empty.
	BootstrapUsername string `yaml:"bootstrap_username"`
	BootstrapPassword string `yaml:"bootstrap_password"`
}

// SessionConfig points at the Redis instance holding revoked sessions.
// An empty address keeps revocations in process memory.
type SessionConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// EmailConfig contains SendGrid settings for the daily digest
type EmailConfig struct {
	SendGridAPIKey   string   `yaml:"sendgrid_api_key"`
	From             string   `yaml:"from"`
	FromName         string   `yaml:"from_name"`
	DigestRecipients []string `yaml:"digest_recipients"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text" or "pretty"
}

// SchedulerConfig contains cron schedule settings (seconds precision, UTC)
type SchedulerConfig struct {
	Enabled              bool   `yaml:"enabled"`
	SendDailyDigest      string `yaml:"send_daily_digest"`
	TakeBalanceSnapshots string `yaml:"take_balance_snapshots"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applying environment
// overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()
	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
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

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Auth
	if val := os.Getenv("BOOTSTRAP_USERNAME"); val != "" {
		c.Auth.BootstrapUsername = val
	}
	if val := os.Getenv("BOOTSTRAP_PASSWORD"); val != "" {
		c.Auth.BootstrapPassword = val
	}
	if val := os.Getenv("COOKIE_SECURE"); val != "" {
		c.Auth.CookieSecure = val == "true" || val == "1"
	}

	// Session
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Session.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Session.RedisPassword = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("DIGEST_RECIPIENTS"); val != "" {
		c.Email.DigestRecipients = splitList(val)
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	if c.JWT.SessionExpiryMinutes == 0 {
		c.JWT.SessionExpiryMinutes = 12 * 60
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "ledger_session"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Cheque Ledger"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	// Scheduler defaults
	if c.Scheduler.SendDailyDigest == "" {
		c.Scheduler.SendDailyDigest = "0 0 6 * * *" // 6 AM UTC
	}
	if c.Scheduler.TakeBalanceSnapshots == "" {
		c.Scheduler.TakeBalanceSnapshots = "0 55 23 * * *" // 11:55 PM UTC
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.SessionExpiryMinutes < 0 {
		return fmt.Errorf("invalid session expiry: %d", c.JWT.SessionExpiryMinutes)
	}

	// Bootstrap account is all or nothing
	if (c.Auth.BootstrapUsername == "") != (c.Auth.BootstrapPassword == "") {
		return fmt.Errorf("bootstrap username and password must be set together")
	}

	// Log validation
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "pretty":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if c.Email.SendGridAPIKey != "" && c.Email.From == "" {
		return fmt.Errorf("email sender address is required when SendGrid is configured")
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

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SessionTTL is how long a login stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.JWT.SessionExpiryMinutes) * time.Minute
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
