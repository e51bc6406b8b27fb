package app

import (
	"io"
	"log/slog"

	"github.com/vk/flowctl/internal/config"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: one configured logger, one configuration, one session per Run.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *config.Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger; the global default
// logger is never touched.
func NewApp(outW io.Writer, cfg *config.Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}
