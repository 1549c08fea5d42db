package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/darmiel/dockgate/internal/config"
)

// configShowCmd prints the effective configuration after layering base,
// overlay and environment-variable overrides.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, err := config.Load(cfgDir, configEnv())
		if err != nil {
			return err
		}

		// never print the password
		cfg.Auth.Password = "<redacted>"

		if raw {
			spew.Dump(cfg)
			return nil
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().Bool("raw", false, "Dump the Go representation instead of YAML")
}
