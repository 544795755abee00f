package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkupctl",
	Short: "Linkup operations tool",
	Long: `linkupctl is the operations companion for the Linkup server.

Available commands:
  sync       Replay an identity provider user export into the database

Use "linkupctl [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
