// Package cmd provides the dionysus CLI commands.
//
// Commands:
//   - serve: HTTP API server speaking the chat-completions protocol
//   - ask: one-shot sommelier question from the terminal
//   - version: build information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aionysus/dionysus/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "dionysus",
	Short: "Dionysus - conversational wine sommelier backend",
	Long: `Dionysus answers wine questions over an OpenAI-compatible chat API.
It recognizes returning customers, remembers their taste, and consults a
wine catalogue for recommendations, investment analysis, and food pairing.`,
	SilenceUsage: true,
}

// Execute is the main entry point for the dionysus CLI.
func Execute() error {
	slog.SetDefault(newLogger())
	return rootCmd.Execute()
}

// newLogger builds the process logger. DEBUG in the environment lowers the
// level; logs go to stderr so stdout stays clean for ask output.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}
