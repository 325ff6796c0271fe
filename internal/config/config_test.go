package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "contractai.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, int64(8192), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 3, cfg.Anthropic.MaxAttempts)
	assert.NotEmpty(t, cfg.Anthropic.PrimaryModel)
	assert.NotEmpty(t, cfg.Anthropic.FallbackModel)
	assert.Equal(t, 100, cfg.Pipeline.MinTextLength)
	assert.Equal(t, 10, cfg.Pipeline.TopUpFloor)
	assert.Equal(t, 98, cfg.Pipeline.ScoreCeiling)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 1.0, cfg.Batch.RatePerSec)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONTRACTAI_STORE_DRIVER", "postgres")
	t.Setenv("CONTRACTAI_SERVER_PORT", "9090")
	t.Setenv("CONTRACTAI_PIPELINE_TOPUP_FLOOR", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Pipeline.TopUpFloor)
}

func TestAnthropicConfig_Timeouts(t *testing.T) {
	cfg := AnthropicConfig{PrimaryTimeoutSecs: 300, FallbackTimeoutSecs: 120}
	assert.Equal(t, "5m0s", cfg.PrimaryTimeout().String())
	assert.Equal(t, "2m0s", cfg.FallbackTimeout().String())
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "lautstark", Format: "json"}))
}
