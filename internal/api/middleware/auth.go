package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/darmiel/dockgate/internal/api/presenter"
	"github.com/darmiel/dockgate/internal/auth"
	"github.com/darmiel/dockgate/internal/core"
)

const principalKey = "principal"

// PrincipalCtx retrieves the authenticated principal from the context.
func PrincipalCtx(ctx context.Context) *core.Principal {
	p, ok := ctx.Value(principalKey).(*core.Principal)
	if !ok {
		return nil
	}
	return p
}

// Authenticate derives the request principal from the bearer credential and
// stores it in the context. Authentication failures are 401; the distinction
// from permission failures (403) is made downstream by the gateway.
func Authenticate(authn *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			principal, err := authn.Authenticate(credential)
			if err != nil {
				presenter.Error(w, r, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
