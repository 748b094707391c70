package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // dev, test, prod
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load 读取 config.yaml（可选）并由 PHOTOSHARE_* 环境变量覆盖
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PHOTOSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "photoshare")
	v.SetDefault("app.env", "dev")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "data/photoshare.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", "200ms")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database.driver %q (must be sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis.ttl must not be negative")
	}
	return nil
}

func (c *Config) IsProd() bool { return c.App.Env == "prod" }
