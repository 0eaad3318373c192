package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("BRAIN_DEBUG", "true")
	os.Setenv("BRAIN_STRATEGY_TIMEOUT", "5s")
	os.Setenv("BRAIN_MAX_CHUNKS", "10")
	os.Setenv("BRAIN_GROQ_API_KEY", "gsk-test")
	os.Setenv("BRAIN_CACHE_STATUS_TTL", "30m")
	defer func() {
		os.Unsetenv("BRAIN_DEBUG")
		os.Unsetenv("BRAIN_STRATEGY_TIMEOUT")
		os.Unsetenv("BRAIN_MAX_CHUNKS")
		os.Unsetenv("BRAIN_GROQ_API_KEY")
		os.Unsetenv("BRAIN_CACHE_STATUS_TTL")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.StrategyTimeout)
	assert.Equal(t, 10, cfg.MaxChunks)
	assert.Equal(t, "gsk-test", cfg.GroqAPIKey)
	assert.Equal(t, 30*time.Minute, cfg.StatusTTL)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 20*time.Second, cfg.StrategyTimeout)
	assert.Equal(t, 250, cfg.TargetWords)
	assert.Equal(t, 40, cfg.OverlapWords)
	assert.Equal(t, 16, cfg.MaxChunks)
	assert.Equal(t, 8, cfg.DesiredChunks)
	assert.Equal(t, 4, cfg.MinTierResults)
	assert.Equal(t, 12000, cfg.ContextCharBudget)
	assert.Equal(t, 30*24*time.Hour, cfg.ArtifactTTL)
	assert.Equal(t, time.Hour, cfg.StatusTTL)
	assert.Equal(t, "yt-dlp", cfg.YtdlpPath)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
}

func TestHasGroq(t *testing.T) {
	cfg := &Config{GroqAPIKey: "gsk-test"}
	assert.True(t, cfg.HasGroq())

	cfg.GroqAPIKey = ""
	assert.False(t, cfg.HasGroq())
}

func TestHasSentry(t *testing.T) {
	cfg := &Config{SentryDSN: "https://abc@sentry.example/1"}
	assert.True(t, cfg.HasSentry())

	cfg.SentryDSN = ""
	assert.False(t, cfg.HasSentry())
}
