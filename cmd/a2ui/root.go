package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/digilab/a2ui/internal/config"
	"github.com/digilab/a2ui/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "a2ui",
	Short: "A2UI demo orchestration stack",
	Long: `A2UI runs the demo orchestration stack: the session/flow server,
the MCP tool service and the A2A agent service, each as a subcommand.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig resolves the effective configuration and logger for a command.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, logging.New(logging.ParseLevel(cfg.LogLevel)), nil
}
