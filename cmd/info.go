package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show build and health information of a remote gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		info, err := cli.GetAbout(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s)\n", info.Service, info.Version, info.CommitHash)

		health, err := cli.GetHealth(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("status:             %s\n", health.Status)
		fmt.Printf("config last reload: %s\n", health.ConfigLastReload)
		if health.ConfigFailing != "" {
			fmt.Printf("config failing:     %s (%s)\n", health.ConfigFailing, health.ConfigLastError)
		}
		fmt.Printf("audit failures:     %d\n", health.AuditFailures)
		fmt.Printf("pending outcomes:   %d\n", health.PendingOutcomes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
