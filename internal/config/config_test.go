package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, []string{"anthropic", "openai", "perplexity"}, cfg.Cascade.Providers)
	assert.Equal(t, 3, cfg.Cascade.MaxAttempts)
	assert.Equal(t, 0.6, cfg.Pipeline.MinMentionConfidence)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PERCEPTION_STORE_DRIVER", "postgres")
	t.Setenv("PERCEPTION_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "json"})
	assert.NoError(t, err)

	err = InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
