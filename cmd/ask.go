package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aionysus/dionysus/internal/agent"
	"github.com/aionysus/dionysus/internal/app"
	"github.com/aionysus/dionysus/internal/config"
	"github.com/aionysus/dionysus/internal/identity"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the sommelier a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

// runAsk sends one question to the sommelier and streams the answer to
// stdout.
func runAsk(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	question := strings.Join(args, " ")
	turns := []agent.Turn{{Role: agent.RoleUser, Text: question}}
	_, err = a.Sommelier.Respond(ctx, identity.Identity{}, turns, func(chunk string) error {
		fmt.Print(chunk)
		return nil
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}
	return nil
}
