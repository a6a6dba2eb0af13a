package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
	"github.com/heatseekerbot/heatseeker-agent/internal/ai"
	"github.com/heatseekerbot/heatseeker-agent/internal/browser"
	"github.com/heatseekerbot/heatseeker-agent/internal/config"
	"github.com/heatseekerbot/heatseeker-agent/internal/transcript"
)

var playFlags struct {
	url           string
	instruction   string
	playerName    string
	targetLevel   int
	maxIterations int
	headless      bool
	width         int
	height        int
	transcriptDir string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run one game session",
	Long: `Launches a browser, navigates to the game, and lets the model play until
it declares the session finished or the iteration budget runs out.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playFlags.url, "url", "", "Game URL (defaults to the hosted Heatseeker deployment)")
	playCmd.Flags().StringVar(&playFlags.instruction, "instruction", "", "Override the generated opening instruction")
	playCmd.Flags().StringVar(&playFlags.playerName, "player-name", config.DefaultPlayerName, "Name to enter on the leaderboard")
	playCmd.Flags().IntVar(&playFlags.targetLevel, "target-level", config.DefaultTargetLevel, "Level the model is asked to reach")
	playCmd.Flags().IntVar(&playFlags.maxIterations, "max-iterations", config.DefaultMaxIterations, "Maximum number of tool-use exchanges")
	playCmd.Flags().BoolVar(&playFlags.headless, "headless", false, "Run the browser without a visible window")
	playCmd.Flags().IntVar(&playFlags.width, "width", config.DefaultDisplayWidth, "Viewport and tool display width in pixels")
	playCmd.Flags().IntVar(&playFlags.height, "height", config.DefaultDisplayHeight, "Viewport and tool display height in pixels")
	playCmd.Flags().StringVar(&playFlags.transcriptDir, "transcript-dir", "", "Directory to store run transcripts (omit to skip)")

	rootCmd.AddCommand(playCmd)
}

// applyPlayFlags layers explicitly-set flags over the environment-derived
// configuration.
func applyPlayFlags(cmd *cobra.Command) {
	if playFlags.url != "" {
		cfg.GameURL = playFlags.url
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = playFlags.maxIterations
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = playFlags.headless
	}
	if cmd.Flags().Changed("width") {
		cfg.DisplayWidth = playFlags.width
	}
	if cmd.Flags().Changed("height") {
		cfg.DisplayHeight = playFlags.height
	}
	if cmd.Flags().Changed("transcript-dir") {
		cfg.TranscriptDir = playFlags.transcriptDir
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	applyPlayFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	telemetryProvider, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryProvider.Shutdown(ctx); err != nil {
			log.Printf("failed to shut down telemetry: %v", err)
		}
	}()

	instruction := playFlags.instruction
	if instruction == "" {
		instruction, err = ai.BuildInstruction(ai.InstructionData{
			URL:         cfg.GameURL,
			PlayerName:  playFlags.playerName,
			TargetLevel: playFlags.targetLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to build instruction: %w", err)
		}
	}

	anthropicClient := createAnthropicClient(cfg.AnthropicAPIKey)
	model := ai.NewClient(anthropicClient, ai.DefaultConfig(), ai.SystemPrompt())

	driver, err := browser.Launch(browser.Options{
		Headless:       cfg.Headless,
		ViewportWidth:  cfg.DisplayWidth,
		ViewportHeight: cfg.DisplayHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	schema := agent.ToolSchema{
		Type:            "computer_20250124",
		Name:            "computer",
		DisplayWidthPx:  cfg.DisplayWidth,
		DisplayHeightPx: cfg.DisplayHeight,
		DisplayNumber:   1,
	}
	player := agent.New(model, driver, schema,
		agent.WithSettleDelay(cfg.SettleDelay),
		agent.WithTelemetry(telemetryProvider),
	)

	runCtx, runID := telemetryProvider.StartRun(ctx, cfg.GameURL, cfg.MaxIterations)
	result, runErr := player.Run(runCtx, instruction, cfg.GameURL, cfg.MaxIterations)
	telemetryProvider.EndRun(string(result.Status), result.Iterations, runErr)

	log.Printf("Run %s finished: status=%s iterations=%d", runID, result.Status, result.Iterations)

	if cfg.TranscriptDir != "" {
		store, err := transcript.NewFileSystemStore(cfg.TranscriptDir)
		if err != nil {
			return fmt.Errorf("failed to open transcript store: %w", err)
		}
		if err := store.Save(runID, result); err != nil {
			return fmt.Errorf("failed to save transcript: %w", err)
		}
		log.Printf("Transcript saved to %s", cfg.TranscriptDir)
	}

	if runErr != nil {
		return fmt.Errorf("run ended with an error: %w", runErr)
	}
	return nil
}
