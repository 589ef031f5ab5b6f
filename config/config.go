package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-scheduler/internal/domain/types"
	"github.com/Temutjin2k/ride-scheduler/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode: scheduler | once")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Redis     RedisConfig
		Scheduler SchedulerConfig
		HTTP      HTTPConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"ridehail_user"`
		Password string `env:"DATABASE_PASSWORD" default:"ridehail_pass"`
		Database string `env:"DATABASE_DATABASE" default:"ridehail_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"10"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"1"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	// RedisConfig is optional. Without an address replicas are not coordinated
	// and only the in-process cycle guard applies.
	RedisConfig struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	SchedulerConfig struct {
		TickInterval time.Duration `env:"SCHEDULER_TICK_INTERVAL" default:"1m"`
		LockTTL      time.Duration `env:"SCHEDULER_LOCK_TTL" default:"5m"`
		LogLevel     string        `env:"SCHEDULER_LOG_LEVEL" default:"INFO"`
	}

	HTTPConfig struct {
		Port string `env:"HTTP_PORT" default:"3010"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxConnLifetime, maxConnIdleTime time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c RedisConfig) Enabled() bool       { return c.Addr != "" }
func (c RedisConfig) GetAddr() string     { return c.Addr }
func (c RedisConfig) GetPassword() string { return c.Password }
func (c RedisConfig) GetDB() int          { return c.DB }

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case types.SchedulerMode, types.OnceMode:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("scheduler tick interval must be positive, got %s", c.Scheduler.TickInterval)
	}
	if c.Scheduler.LockTTL < c.Scheduler.TickInterval {
		return fmt.Errorf("scheduler lock ttl %s is shorter than tick interval %s", c.Scheduler.LockTTL, c.Scheduler.TickInterval)
	}
	return nil
}
