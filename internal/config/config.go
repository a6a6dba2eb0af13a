// Package config provides environment configuration for the heatseeker agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for the Heatseeker deployment and the computer-use display.
const (
	DefaultGameURL       = "https://heatseeker-one.vercel.app"
	DefaultMaxIterations = 100
	DefaultDisplayWidth  = 1280
	DefaultDisplayHeight = 800
	DefaultSettleDelay   = 2 * time.Second
	DefaultPlayerName    = "Claude 4.5"
	DefaultTargetLevel   = 10
)

// Config holds the configuration for an agent run.
type Config struct {
	AnthropicAPIKey string
	GameURL         string
	Headless        bool
	MaxIterations   int
	DisplayWidth    int
	DisplayHeight   int
	SettleDelay     time.Duration
	TranscriptDir   string

	// Telemetry config
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load loads configuration from environment variables, falling back to the
// defaults above.
func Load() Config {
	cfg := Config{
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GameURL:          DefaultGameURL,
		Headless:         parseBool(os.Getenv("HEADLESS")),
		MaxIterations:    DefaultMaxIterations,
		DisplayWidth:     DefaultDisplayWidth,
		DisplayHeight:    DefaultDisplayHeight,
		SettleDelay:      DefaultSettleDelay,
		TranscriptDir:    os.Getenv("TRANSCRIPT_DIR"),
		TelemetryEnabled: parseBool(os.Getenv("TELEMETRY_ENABLED")),
		OTLPEndpoint:     os.Getenv("OTLP_ENDPOINT"),
	}

	if url := os.Getenv("HEATSEEKER_URL"); url != "" {
		cfg.GameURL = url
	}
	if raw := os.Getenv("MAX_ITERATIONS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.MaxIterations = n
		}
	}
	if raw := os.Getenv("SETTLE_DELAY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SettleDelay = d
		}
	}

	return cfg
}

// Validate checks that the required configuration is present and coherent.
// It runs before any network activity.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.GameURL == "" {
		return fmt.Errorf("game URL must not be empty")
	}
	if c.DisplayWidth < 1 || c.DisplayHeight < 1 {
		return fmt.Errorf("display dimensions must be positive, got %dx%d", c.DisplayWidth, c.DisplayHeight)
	}
	return nil
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
