// Package auth derives a request principal from the presented credential
// against the current configuration snapshot.
package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
)

var (
	// ErrMissingCredential means authentication is required but no
	// credential was presented (401-equivalent).
	ErrMissingCredential = errors.New("credential required")

	// ErrInvalidCredential means the presented credential did not match
	// (401-equivalent).
	ErrInvalidCredential = errors.New("invalid credential")
)

// Authenticator checks credentials against the live configuration, so a
// password change takes effect on the next request after a hot reload.
type Authenticator struct {
	store *config.Store
}

func New(store *config.Store) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate derives the principal for one request. With authentication
// disabled every caller is the anonymous principal with full control. With
// it enabled, the credential must match the configured password; the
// resulting principal carries the configured permission level.
func (a *Authenticator) Authenticate(credential string) (*core.Principal, error) {
	cfg := a.store.Current()

	if !cfg.Auth.Enabled {
		return &core.Principal{
			ID:    "anonymous",
			Level: core.PermFullControl,
		}, nil
	}

	if credential == "" {
		return nil, ErrMissingCredential
	}
	if subtle.ConstantTimeCompare([]byte(credential), []byte(cfg.Auth.Password)) != 1 {
		return nil, ErrInvalidCredential
	}

	return &core.Principal{
		ID:            "operator",
		Level:         cfg.Auth.PermissionLevel,
		Authenticated: true,
	}, nil
}
