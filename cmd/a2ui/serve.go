package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/digilab/a2ui/internal/adapters/http"
	"github.com/digilab/a2ui/internal/mcptool"
	"github.com/digilab/a2ui/internal/orchestrator"
	"github.com/digilab/a2ui/pkg/a2a"
	"github.com/digilab/a2ui/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orchestration server",
	Long: `Starts the session/flow server: the SSE stream that carries surface
models to the browser and the client event intake that drives the flows.
The tool and agent services are reached over the network; start them with
"a2ui tools" and "a2ui agents".`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		tools := mcptool.New(cfg.ToolsURL,
			mcptool.WithTimeout(cfg.ToolTimeout()),
			mcptool.WithLogger(logger.With("component", "mcptool")),
		)
		agents := orchestrator.Agents{
			Toeslagen: a2a.NewClient(cfg.Agents.Toeslagen, a2a.WithTimeout(cfg.AgentTimeout())),
			Bezwaar:   a2a.NewClient(cfg.Agents.Bezwaar, a2a.WithTimeout(cfg.AgentTimeout())),
			Genui:     a2a.NewClient(cfg.Agents.Genui, a2a.WithTimeout(cfg.AgentTimeout())),
		}

		// The drop hook closes over orch, which needs the hub first.
		var orch *orchestrator.Orchestrator
		hub := session.NewHub(
			session.WithLogger(logger.With("component", "hub")),
			session.WithDropHook(func(sessionID string) {
				if orch != nil {
					orch.ReleaseSession(sessionID)
				}
			}),
		)
		orch = orchestrator.New(hub, tools, agents,
			orchestrator.WithLogger(logger.With("component", "orchestrator")),
			orchestrator.WithTick(cfg.StageTick()),
		)

		srv := httpadapter.NewServer(hub, orch,
			httpadapter.WithLogger(logger.With("component", "http")))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Serve(ctx, cfg.Listen); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
