package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heatseekerbot/heatseeker-agent/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "heatseeker-agent",
	Short: "AI agent that plays the Heatseeker web game",
	Long: `Heatseeker Agent drives a vision-language model against a live browser
session. Each turn it sends the model a screenshot of the game, decodes the
actions the model requests through the computer tool, replays them as mouse
and keyboard events, and answers with a fresh screenshot.`,
	PersistentPreRun: loadRootConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(_ *cobra.Command, _ []string) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg = config.Load()
}
