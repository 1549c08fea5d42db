package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/dockgate/internal/buildinfo"
	"github.com/darmiel/dockgate/internal/logging"
)

// global flags
var (
	cfgDir      string
	cfgEnv      string
	gatewayAddr string
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	GatewayAddrKey = "addr"
)

var rootCmd = &cobra.Command{
	Use:   "dockgate",
	Short: fmt.Sprintf("Dockgate (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `Dockgate is a policy gateway for Docker container and Compose operations.
	It authenticates callers, enforces per-operation permission levels and
	container allow/deny filters, and keeps an append-only audit trail.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(nil)
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "config",
		"Directory containing settings.yaml and environment overlays")

	rootCmd.PersistentFlags().StringVar(&cfgEnv, "env", "",
		"Environment name selecting the settings.<env>.yaml overlay")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().StringVar(&gatewayAddr, "server", "", "Address of the remote Dockgate server")
	_ = viper.BindPFlag(GatewayAddrKey, rootCmd.PersistentFlags().Lookup("server"))

	viper.SetEnvPrefix("DOCKGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
