package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/kioku/internal/config"
	"github.com/phrazzld/kioku/internal/platform/logger"
)

// loadAppConfig loads the application configuration from .env, config.yaml
// and KIOKU_* environment variables.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the process-wide JSON logger.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("timezone", cfg.Scheduler.Timezone),
		slog.Bool("reminders", cfg.Reminder.Enabled))
	return l, nil
}
