package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/digilab/a2ui/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Run the A2A agent service",
	Long: `Starts the bundled A2A agents (toeslagen, bezwaar, genui) as one
HTTP service. With GEMINI_API_KEY set the generative capabilities use
Gemini; without it every agent runs its deterministic path.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gemini, err := agents.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Error("gemini init failed", "error", err)
			os.Exit(1)
		}
		if gemini == nil {
			logger.Info("no GEMINI_API_KEY, agents run deterministic paths only")
		}

		svc := agents.NewService(
			agents.WithServiceLogger(logger.With("component", "agents")),
			agents.WithGemini(gemini),
		)

		if err := svc.Serve(ctx, cfg.AgentsListen); err != nil {
			logger.Error("agent service failed", "error", err)
			os.Exit(1)
		}
		logger.Info("agent service stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
