package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terra-clan/nebula-guide/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "nebula-guide",
	Short: "Caregiver self-assessment guide server",
	Long: `nebula-guide serves the caregiver self-assessment wizard: a short
questionnaire, mood check and profile that end in a personal care report.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(questionnaireCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	// Setup structured logging; replaced once the configured level is known
	setupLogging(slog.LevelInfo)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// loadConfig loads the environment configuration and applies its log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Log.SlogLevel()
	setupLogging(level)
	return cfg, nil
}
