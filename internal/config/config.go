package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the storage backend.
// For postgres URL is a connection string, for sqlite3 it is a file path or DSN.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite3"`
	URL    string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// SchedulerConfig controls how "today" is computed and the fallback daily limit.
type SchedulerConfig struct {
	Timezone          string `mapstructure:"timezone" validate:"required,timezone"`
	DefaultDailyLimit int    `mapstructure:"default_daily_limit" validate:"required,gte=5,lte=50"`
}

// ReminderConfig controls the daily due-items reminder job.
type ReminderConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	At               string `mapstructure:"at" validate:"required,datetime=15:04"`
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
}

// Location resolves the configured scheduler timezone.
func (c SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
