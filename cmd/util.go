package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/darmiel/dockgate/internal/cliconfig"
	"github.com/darmiel/dockgate/pkg/client"
)

// configEnv resolves the environment overlay name: --env flag first, then
// the DOCKGATE_ENV variable.
func configEnv() string {
	if cfgEnv != "" {
		return cfgEnv
	}
	return os.Getenv("DOCKGATE_ENV")
}

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(GatewayAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured, provide via --server or env")
	}

	var credential string

	if envCred := os.Getenv("DOCKGATE_CREDENTIAL"); envCred != "" {
		credential = envCred
	} else if cfg, err := cliconfig.Load(); err == nil {
		cred, err := cfg.GetCredential(server)
		if err != nil && !errors.Is(err, cliconfig.ErrCredentialNotFound) {
			return nil, err
		}
		if cred != nil {
			credential = cred.Secret
		}
	}

	return client.New(server, client.WithCredential(credential)), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
