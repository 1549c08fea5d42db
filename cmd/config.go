package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the gateway configuration",
}

func init() {
	rootCmd.AddCommand(configCmd)
}
