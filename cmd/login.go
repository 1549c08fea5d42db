package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/dockgate/internal/cliconfig"
	"github.com/darmiel/dockgate/pkg/client"
)

// loginCmd verifies a credential against a remote gateway and stores it for
// later CLI calls.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the gateway credential for this server",
	RunE: func(cmd *cobra.Command, args []string) error {
		credential, err := cmd.Flags().GetString("credential")
		if err != nil {
			return err
		}
		if credential == "" {
			return fmt.Errorf("provide the credential via --credential")
		}

		server := viper.GetString(GatewayAddrKey)
		if server == "" {
			return fmt.Errorf("server address not configured, provide via --server or env")
		}

		// verify against the audit endpoint, which requires authentication
		cli := client.New(server, client.WithCredential(credential))
		if _, err := cli.ListAudits(cmd.Context(), 1); err != nil {
			if errors.Is(err, client.ErrInvalidCredential) {
				return fmt.Errorf("credential rejected by %s", server)
			}
			return err
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{Secret: credential}); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return err
		}

		log.Info().Msgf("Credential for %s saved.", server)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("credential", "", "The shared gateway credential")
}
