// Package providers contains dependency injection providers for the Bookshelf server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Bookshelf server",
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
		"log_level", cfg.Logger.Level,
		"storage_backend", cfg.Storage.Backend,
		"data_path", cfg.Storage.DataPath,
	)

	return log, nil
}
