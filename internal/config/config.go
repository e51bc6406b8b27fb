// Package config defines the client configuration model and its two
// sources: defaults overlaid by an optional HCL config file, overlaid by
// command-line flags. The cli package owns flag parsing; this package owns
// the model, its validation, and the file loader.
package config

import (
	"fmt"
	"strings"
)

// Defaults for a locally running engine.
const (
	DefaultEngineURL  = "ws://localhost:8085/wsapi/workflow-websocket"
	DefaultWorkflowID = "0"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds everything the client needs to run one session.
type Config struct {
	// EngineURL is the engine's websocket endpoint, ws or wss scheme.
	EngineURL string
	// WorkflowID is sent as the wid query parameter on the dial URL.
	WorkflowID string
	// ExportDir, when set, backs page exports that name no directory.
	ExportDir string

	LogLevel  string
	LogFormat string
}

// Default returns the built-in configuration for a locally running engine.
func Default() *Config {
	return &Config{
		EngineURL:  DefaultEngineURL,
		WorkflowID: DefaultWorkflowID,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// NewConfig validates cfg and returns it. It is the single gate every
// configuration source passes through before the app sees it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.EngineURL == "" {
		return nil, fmt.Errorf("engine URL is required")
	}
	if !strings.HasPrefix(cfg.EngineURL, "ws://") && !strings.HasPrefix(cfg.EngineURL, "wss://") {
		return nil, fmt.Errorf("engine URL must use the ws or wss scheme, got %q", cfg.EngineURL)
	}
	if cfg.WorkflowID == "" {
		return nil, fmt.Errorf("workflow id is required")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}

// Merge overlays every non-empty field of overlay onto base and returns
// base. Later sources win.
func Merge(base, overlay *Config) *Config {
	if overlay == nil {
		return base
	}
	if overlay.EngineURL != "" {
		base.EngineURL = overlay.EngineURL
	}
	if overlay.WorkflowID != "" {
		base.WorkflowID = overlay.WorkflowID
	}
	if overlay.ExportDir != "" {
		base.ExportDir = overlay.ExportDir
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}
	return base
}
