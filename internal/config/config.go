// Package config - Application configuration management.
//
// Uses Viper to load from:
// - YAML files
// - Environment variables
// - Default values
//
// Priority order (highest to lowest):
// 1. Environment variables
// 2. Config file
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ============================================
// Main Configuration
// ============================================

// Config is the root configuration struct for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	NATS      NATSConfig      `mapstructure:"nats"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig holds general application metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	BuildTime   string `mapstructure:"build_time"`
	GitCommit   string `mapstructure:"git_commit"`
}

// IsDevelopment reports whether the environment is development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the environment is production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the host:port the server should bind to.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ============================================
// Database Configuration
// ============================================

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MinConnections  int32         `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// ============================================
// Auth Configuration
// ============================================

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTIssuer          string        `mapstructure:"jwt_issuer"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"`
	EnableMockAuth     bool          `mapstructure:"enable_mock_auth"` // development only
}

// ============================================
// CORS Configuration
// ============================================

// CORSConfig holds cross-origin resource sharing settings.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ============================================
// Rate Limit Configuration
// ============================================

// RateLimitConfig holds request rate limiting settings.
type RateLimitConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	BurstSize          int           `mapstructure:"burst_size"`
	FinancialOpsPerMin int           `mapstructure:"financial_ops_per_min"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	Output     string `mapstructure:"output"` // stdout, stderr, file
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`    // MB
	MaxBackups int    `mapstructure:"max_backups"` // number of rotated files kept
	MaxAge     int    `mapstructure:"max_age"`     // days
	Compress   bool   `mapstructure:"compress"`
}

// ============================================
// Ledger Configuration
// ============================================

// LedgerConfig holds settings for the value-movement engine. The section
// is loaded and defaulted like the others, but no component reads its
// fields: the executor, the Wallet Locker and cmd/seed take nothing from it.
type LedgerConfig struct {
	// TreasuryAssetTypes lists asset-type codes for treasury wallets.
	// cmd/seed takes its asset types from its -assets flag instead.
	TreasuryAssetTypes []string `mapstructure:"treasury_asset_types"`

	// IdempotencyKeyTTL is a retention period for idempotency keys; zero
	// means no expiry. No code expires or archives keys.
	IdempotencyKeyTTL time.Duration `mapstructure:"idempotency_key_ttl"`

	// WalletLockTimeout is a wait bound for acquiring wallet locks. The
	// FOR UPDATE locks are taken without a timeout.
	WalletLockTimeout time.Duration `mapstructure:"wallet_lock_timeout"`

	// MaxTransactionRetries is a retry bound for failed transactions. The
	// executor makes no automatic retry: a serialization failure or
	// deadlock is returned to the caller.
	MaxTransactionRetries int `mapstructure:"max_transaction_retries"`
}

// ============================================
// NATS Configuration
// ============================================

// NATSConfig holds settings for the outbox relay's event publisher.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
	RelayBatchSize int           `mapstructure:"relay_batch_size"`
	RelayInterval  time.Duration `mapstructure:"relay_interval"`
}

// ============================================
// Configuration Loading
// ============================================

// Load loads configuration from a file and environment variables.
//
// configPath - directory containing the config file (e.g. "configs")
// configName - config file name without extension (e.g. "config")
//
// Supported formats: yaml, json, toml
func Load(configPath, configName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/ledgervault")

	v.SetEnvPrefix("LEDGERVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file found - fall back to defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LEDGERVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults installs default values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "ledgervault")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "ledgervault")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.jwt_issuer", "ledgervault")
	v.SetDefault("auth.access_token_expiry", "15m")
	v.SetDefault("auth.refresh_token_expiry", "168h") // 7 days
	v.SetDefault("auth.enable_mock_auth", true)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.burst_size", 20)
	v.SetDefault("rate_limit.financial_ops_per_min", 30)
	v.SetDefault("rate_limit.cleanup_interval", "1m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	// Ledger defaults
	v.SetDefault("ledger.treasury_asset_types", []string{"USD"})
	v.SetDefault("ledger.idempotency_key_ttl", "0s")
	v.SetDefault("ledger.wallet_lock_timeout", "5s")
	v.SetDefault("ledger.max_transaction_retries", 3)

	// NATS defaults
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "ledger")
	v.SetDefault("nats.connect_timeout", "5s")
	v.SetDefault("nats.publish_timeout", "2s")
	v.SetDefault("nats.relay_batch_size", 100)
	v.SetDefault("nats.relay_interval", "1s")
}

// bindEnvVars binds specific environment variables, with legacy
// unprefixed fallbacks (DB_HOST, JWT_SECRET, PORT, ENVIRONMENT) for
// deployments that predate the LEDGERVAULT_ prefix convention.
func bindEnvVars(v *viper.Viper) {
	// Database (normally supplied via env in production)
	_ = v.BindEnv("database.host", "LEDGERVAULT_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", "LEDGERVAULT_DATABASE_PORT", "DB_PORT")
	_ = v.BindEnv("database.user", "LEDGERVAULT_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "LEDGERVAULT_DATABASE_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("database.database", "LEDGERVAULT_DATABASE_DATABASE", "DB_NAME")

	// Auth
	_ = v.BindEnv("auth.jwt_secret", "LEDGERVAULT_AUTH_JWT_SECRET", "JWT_SECRET")

	// Server
	_ = v.BindEnv("server.port", "LEDGERVAULT_SERVER_PORT", "PORT")

	// App
	_ = v.BindEnv("app.environment", "LEDGERVAULT_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")

	// NATS
	_ = v.BindEnv("nats.url", "LEDGERVAULT_NATS_URL", "NATS_URL")
}

// ============================================
// Configuration Validation
// ============================================

// Validate checks the configuration for inconsistent or unsafe values.
func (c *Config) Validate() error {
	// Enforce critical settings in production
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "change-me-in-production" {
			return fmt.Errorf("JWT secret must be changed in production")
		}

		if c.Auth.EnableMockAuth {
			return fmt.Errorf("mock auth must be disabled in production")
		}

		if c.Database.SSLMode == "disable" {
			// Worth a log warning in production, but not fatal.
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// ============================================
// Development Helpers
// ============================================

// Development returns a configuration suitable for local development.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "ledgervault",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Database:        "ledgervault",
			SSLMode:         "disable",
			MaxConnections:  10,
			MinConnections:  2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret:          "dev-secret-key",
			JWTIssuer:          "ledgervault-dev",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 168 * time.Hour,
			EnableMockAuth:     true,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:            true,
			RequestsPerMinute:  100,
			BurstSize:          20,
			FinancialOpsPerMin: 30,
			CleanupInterval:    time.Minute,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
		},
		Ledger: LedgerConfig{
			TreasuryAssetTypes:    []string{"USD"},
			WalletLockTimeout:     5 * time.Second,
			MaxTransactionRetries: 3,
		},
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			SubjectPrefix:  "ledger",
			ConnectTimeout: 5 * time.Second,
			PublishTimeout: 2 * time.Second,
			RelayBatchSize: 100,
			RelayInterval:  time.Second,
		},
	}
}

// Test returns a configuration suitable for automated tests.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.Database.Database = "ledgervault_test"
	cfg.Log.Level = "error" // keep test output quiet
	return cfg
}
