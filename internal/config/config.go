// Package config loads service configuration from a YAML file with
// environment variable overrides (env struct tags, .env files supported).
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultRedisAddress    = "localhost:6379"
)

// Config is the root configuration for the request-manager service.
type Config struct {
	Debug    bool           `env:"APP_DEBUG" yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Identity IdentityConfig `yaml:"identity"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings for the snapshot
// store.
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection configuration for lifecycle event
// publishing. Enabled is a feature flag; the service runs without Redis.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

// IdentityConfig holds the fallback actor used when a request carries no
// identity headers.
type IdentityConfig struct {
	DefaultUser      string `env:"IDENTITY_DEFAULT_USER"  yaml:"default_user"`
	DefaultUserGroup string `env:"IDENTITY_DEFAULT_GROUP" yaml:"default_user_group"`
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// Load reads the YAML file at path, applies defaults, then applies env
// overrides (env always wins).
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "request_manager"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Identity.DefaultUser == "" {
		cfg.Identity.DefaultUser = "current_user"
	}
	if cfg.Identity.DefaultUserGroup == "" {
		cfg.Identity.DefaultUserGroup = "default_group"
	}
}
