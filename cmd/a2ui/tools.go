package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/digilab/a2ui/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Run the MCP tool service",
	Long: `Starts the demo tool service as an MCP server.

Supported Transports:
- sse (default): Server-Sent Events over HTTP, matching the demo topology.
- stdio: Standard Input/Output, for local process integration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		transport, _ := cmd.Flags().GetString("transport")

		srv := tools.NewServer(
			tools.WithLatency(cfg.ToolLatency()),
			tools.WithLogger(logger.With("component", "tools")),
		)

		switch transport {
		case "stdio":
			if err := srv.ServeStdio(); err != nil {
				logger.Error("tool server failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Serve(ctx, cfg.ToolsListen); err != nil && err != http.ErrServerClosed {
				logger.Error("tool server failed", "error", err)
				os.Exit(1)
			}
			logger.Info("tool server stopped gracefully")
		default:
			cmd.PrintErrf("Unknown transport: %s. Supported: sse, stdio\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().String("transport", "sse", "Transport protocol to use: 'sse' or 'stdio'")
}
