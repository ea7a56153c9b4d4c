package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Storage    StorageConfig    `toml:"storage"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Arbiter    ArbiterConfig    `toml:"arbiter"`
	Reconciler ReconcilerConfig `toml:"reconciler"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	LockTimeoutMs   int    `toml:"lock_timeout_ms"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LockTimeout ограничение ожидания блокировок строк
func (d DatabaseConfig) LockTimeout() time.Duration {
	return time.Duration(d.LockTimeoutMs) * time.Millisecond
}

// StorageConfig выбор движка хранения
type StorageConfig struct {
	Driver   string `toml:"driver"`    // postgres | memory
	SeedFile string `toml:"seed_file"` // справочники для memory
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ArbiterConfig настройки арбитра бронирований
type ArbiterConfig struct {
	Timezone       string `toml:"timezone"`
	ResourcePolicy string `toml:"resource_policy"` // strict | exclusive
}

// Location часовой пояс клиники
func (a ArbiterConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// Policy политика проверки ресурсов
func (a ArbiterConfig) Policy() (domain.ResourcePolicy, error) {
	return domain.ParseResourcePolicy(a.ResourcePolicy)
}

// ReconcilerConfig настройки фонового освобождения емкости
type ReconcilerConfig struct {
	Enabled   bool   `toml:"enabled"`
	Schedule  string `toml:"schedule"` // cron-выражение или @every <duration>
	BatchSize int    `toml:"batch_size"`
}

// RateLimitConfig ограничение запросов на клиента (0 - выключено)
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "clinic_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			LockTimeoutMs:   2000,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc_clinic_booking",
		},
		Arbiter: ArbiterConfig{
			Timezone:       "UTC",
			ResourcePolicy: string(domain.PolicyStrict),
		},
		Reconciler: ReconcilerConfig{
			Enabled:   true,
			Schedule:  domain.DefaultReconcileSchedule,
			BatchSize: domain.DefaultReconcileBatchSize,
		},
	}
}

// Load читает TOML-файл поверх значений по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Driver == StorageDriverMemory && c.Storage.SeedFile == "" {
		return fmt.Errorf("%w: storage.seed_file is required for the memory driver", ErrInvalidConfig)
	}
	if c.Database.LockTimeoutMs < 0 {
		return fmt.Errorf("%w: database.lock_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Arbiter.Location(); err != nil {
		return fmt.Errorf("%w: arbiter.timezone: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Arbiter.Policy(); err != nil {
		return fmt.Errorf("%w: arbiter.resource_policy: %v", ErrInvalidConfig, err)
	}
	if c.Reconciler.Enabled {
		if _, err := cron.ParseStandard(c.Reconciler.Schedule); err != nil {
			return fmt.Errorf("%w: reconciler.schedule: %v", ErrInvalidConfig, err)
		}
	}
	if c.Reconciler.BatchSize <= 0 {
		return fmt.Errorf("%w: reconciler.batch_size must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit values must not be negative", ErrInvalidConfig)
	}
	return nil
}
