package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("HEATSEEKER_URL", "")
	t.Setenv("MAX_ITERATIONS", "")
	t.Setenv("SETTLE_DELAY", "")
	t.Setenv("HEADLESS", "")
	t.Setenv("TELEMETRY_ENABLED", "")
	t.Setenv("TRANSCRIPT_DIR", "")

	cfg := Load()

	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, DefaultGameURL, cfg.GameURL)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, DefaultDisplayWidth, cfg.DisplayWidth)
	assert.Equal(t, DefaultDisplayHeight, cfg.DisplayHeight)
	assert.Equal(t, DefaultSettleDelay, cfg.SettleDelay)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("HEATSEEKER_URL", "https://staging.example.test")
	t.Setenv("MAX_ITERATIONS", "25")
	t.Setenv("SETTLE_DELAY", "500ms")
	t.Setenv("HEADLESS", "true")

	cfg := Load()

	assert.Equal(t, "https://staging.example.test", cfg.GameURL)
	assert.Equal(t, 25, cfg.MaxIterations)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.True(t, cfg.Headless)
}

func validConfig() Config {
	return Config{
		AnthropicAPIKey: "sk-test",
		GameURL:         DefaultGameURL,
		MaxIterations:   DefaultMaxIterations,
		DisplayWidth:    DefaultDisplayWidth,
		DisplayHeight:   DefaultDisplayHeight,
	}
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.AnthropicAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestValidate_BadIterationBudget(t *testing.T) {
	cfg := validConfig()
	cfg.MaxIterations = 0

	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyURL(t *testing.T) {
	cfg := validConfig()
	cfg.GameURL = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadDisplay(t *testing.T) {
	cfg := validConfig()
	cfg.DisplayWidth = 0

	assert.Error(t, cfg.Validate())
}
