package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Inkwell.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
	Admin    AdminConfig    `yaml:"admin"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig    `yaml:"cors"`
}

// TimeoutConfig contains HTTP timeout settings in seconds.
type TimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains token and credential settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains session and refresh token settings.
// TTLs are in seconds. RefreshTokenSize is the number of random bytes in a
// refresh token before transport encoding.
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	SessionTokenTTL  int    `yaml:"session_token_ttl"`
	RefreshTokenTTL  int    `yaml:"refresh_token_ttl"`
	RefreshTokenSize int    `yaml:"refresh_token_size"`
}

// AdminConfig contains the bootstrap administrator credentials.
// The account is created or updated on every startup.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The loading order is: defaults, then YAML file values, then environment
// variables. Environment variables follow the pattern INKWELL_SECTION_KEY,
// for example INKWELL_DATABASE_PATH or INKWELL_JWT_SECRET.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: TimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/inkwell.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				SessionTokenTTL:  600,           // 10 minutes
				RefreshTokenTTL:  7 * 24 * 3600, // one week
				RefreshTokenSize: 64,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INKWELL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("INKWELL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("INKWELL_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("INKWELL_ADMIN_USER"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("INKWELL_ADMIN_PASS"); v != "" {
		cfg.Admin.Password = v
	}
}

// minJWTSecretLength is the minimum accepted length of the signing secret.
// Shorter secrets make forged session tokens feasible.
const minJWTSecretLength = 32

// minRefreshTokenSize is the minimum number of random bytes in a refresh token.
const minRefreshTokenSize = 32

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set INKWELL_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters")
	}

	if c.Security.JWT.SessionTokenTTL <= 0 {
		errs = append(errs, "security.jwt.session_token_ttl must be positive")
	}
	if c.Security.JWT.RefreshTokenTTL <= 0 {
		errs = append(errs, "security.jwt.refresh_token_ttl must be positive")
	}
	if c.Security.JWT.RefreshTokenSize < minRefreshTokenSize {
		errs = append(errs, "security.jwt.refresh_token_size must be at least 32 bytes")
	}

	if c.Admin.Username == "" || c.Admin.Password == "" {
		errs = append(errs, "admin.username and admin.password are required (set INKWELL_ADMIN_USER / INKWELL_ADMIN_PASS)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SessionTokenTTL returns the session token lifetime as a Duration.
func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.SessionTokenTTL) * time.Second
}

// RefreshTokenTTL returns the refresh token lifetime as a Duration.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.RefreshTokenTTL) * time.Second
}

// ReadTimeout returns the HTTP read timeout as a Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// WriteTimeout returns the HTTP write timeout as a Duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// IdleTimeout returns the HTTP idle timeout as a Duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}
