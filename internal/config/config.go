// Package config loads service configuration from an optional config.toml,
// SHG_-prefixed environment variables and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Redis    RedisConfig
	Lock     LockConfig
	Cash     CashConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Port int
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // debug, info, warn, error
}

// RedisConfig holds Redis connection settings. An empty Addr keeps locks in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockConfig tunes the per-group close lock
type LockConfig struct {
	TTL           time.Duration
	RetryInterval time.Duration
}

// CashConfig holds cash ledger defaults
type CashConfig struct {
	// DefaultHandRatio is the share of an AUTO split kept in hand.
	DefaultHandRatio decimal.Decimal
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8080)
	v.SetDefault("database.path", "./data/shg.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("lock.retry_interval", 50*time.Millisecond)
	v.SetDefault("cash.default_hand_ratio", "0.30")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
}

// Load reads configuration from config.toml in the working directory (if
// present), then applies SHG_ environment overrides such as SHG_DATABASE_PATH.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/shg")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ratio, err := decimal.NewFromString(v.GetString("cash.default_hand_ratio"))
	if err != nil {
		return nil, fmt.Errorf("invalid cash.default_hand_ratio: %w", err)
	}

	cfg := &Config{
		App:      AppConfig{Port: v.GetInt("app.port")},
		Database: DatabaseConfig{Path: v.GetString("database.path")},
		Log:      LogConfig{Level: v.GetString("log.level")},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Lock: LockConfig{
			TTL:           v.GetDuration("lock.ttl"),
			RetryInterval: v.GetDuration("lock.retry_interval"),
		},
		Cash: CashConfig{DefaultHandRatio: ratio},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Cash.DefaultHandRatio.IsNegative() || c.Cash.DefaultHandRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cash.default_hand_ratio must be between 0 and 1, got %s", c.Cash.DefaultHandRatio)
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("lock.ttl must be positive")
	}
	if c.Lock.RetryInterval <= 0 {
		return fmt.Errorf("lock.retry_interval must be positive")
	}
	return nil
}

// UsesRedis reports whether locks should be taken in Redis.
func (c *Config) UsesRedis() bool {
	return c.Redis.Addr != ""
}
