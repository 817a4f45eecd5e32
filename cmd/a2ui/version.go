package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digilab/a2ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of a2ui",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("a2ui version %s\n", strings.TrimSpace(a2ui.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
