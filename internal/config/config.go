// Package config provides configuration management for the F1 betting API.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Events   EventsConfig   `mapstructure:"events"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. URL, when
// set, takes precedence over the discrete connection fields.
type DatabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,dburl"`
	Host           string `mapstructure:"host" validate:"required_without=URL"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_without=URL"`
	User           string `mapstructure:"user" validate:"required_without=URL"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"gte=0"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// ServerConfig represents the HTTP API listener configuration
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	BasePath               string   `mapstructure:"base_path" validate:"required,startswith=/"`
	ReadTimeoutSeconds     int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSeconds     int      `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	RateLimitRPS           float64  `mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst         int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
}

// CacheConfig represents the read-through cache used by user and driver lookups
type CacheConfig struct {
	Driver                 string `mapstructure:"driver" validate:"required,oneof=memory redis"`
	TTLSeconds             int    `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int    `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
	RedisAddr              string `mapstructure:"redis_addr"`
	RedisPassword          string `mapstructure:"redis_password"`
	RedisDB                int    `mapstructure:"redis_db" validate:"gte=0"`
	KeyPrefix              string `mapstructure:"key_prefix"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// EventsConfig represents the settlement event publisher
type EventsConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// SecretsConfig controls the AWS Secrets Manager overlay
type SecretsConfig struct {
	AWSEnabled bool   `mapstructure:"aws_enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL connection URL
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns the configured URL or one assembled from the discrete fields
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// Address returns the listen address for the API server
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the server idle timeout
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long in-flight requests get to drain
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// TTL returns the default cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// CleanupInterval returns how often expired in-memory entries are purged
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}
