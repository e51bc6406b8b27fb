package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultEngineURL, cfg.EngineURL)
	assert.Equal(t, DefaultWorkflowID, cfg.WorkflowID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestNewConfig(t *testing.T) {
	t.Run("valid defaults pass", func(t *testing.T) {
		cfg, err := NewConfig(*Default())
		require.NoError(t, err)
		assert.NotNil(t, cfg)
	})

	t.Run("wss scheme is accepted", func(t *testing.T) {
		base := *Default()
		base.EngineURL = "wss://engine.example.com/wsapi/workflow-websocket"
		_, err := NewConfig(base)
		require.NoError(t, err)
	})

	t.Run("http scheme is rejected", func(t *testing.T) {
		base := *Default()
		base.EngineURL = "http://localhost:8085"
		_, err := NewConfig(base)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ws or wss")
	})

	t.Run("empty URL is rejected", func(t *testing.T) {
		base := *Default()
		base.EngineURL = ""
		_, err := NewConfig(base)
		require.Error(t, err)
	})

	t.Run("bad log format is rejected", func(t *testing.T) {
		base := *Default()
		base.LogFormat = "yaml"
		_, err := NewConfig(base)
		require.Error(t, err)
	})

	t.Run("bad log level is rejected", func(t *testing.T) {
		base := *Default()
		base.LogLevel = "verbose"
		_, err := NewConfig(base)
		require.Error(t, err)
	})
}

func TestMerge(t *testing.T) {
	t.Run("non-empty overlay fields win", func(t *testing.T) {
		base := Default()
		merged := Merge(base, &Config{EngineURL: "ws://other:9999/ws", LogLevel: "debug"})
		assert.Equal(t, "ws://other:9999/ws", merged.EngineURL)
		assert.Equal(t, "debug", merged.LogLevel)
		assert.Equal(t, DefaultWorkflowID, merged.WorkflowID, "untouched fields keep the base value")
	})

	t.Run("nil overlay is a no-op", func(t *testing.T) {
		base := Default()
		assert.Equal(t, base, Merge(base, nil))
	})
}
