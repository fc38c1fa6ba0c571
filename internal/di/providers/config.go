// Package providers contains dependency injection providers for the Baby Buddy command line client.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/logger"
)

// ProvideConfig provides the client configuration, built from the
// command-line overrides registered in the container.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	overrides, err := do.Invoke[config.Overrides](i)
	if err != nil {
		return nil, err
	}
	return config.Load(overrides)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Logger.Level)
	log := logger.New(logger.Config{
		Level:       level,
		AddSource:   cfg.App.Environment == "development" && level == slog.LevelDebug,
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"server", cfg.BabyBuddy.URL,
		"token", cfg.BabyBuddy.Token,
		"timeout", cfg.HTTP.Timeout,
	)

	return log, nil
}
