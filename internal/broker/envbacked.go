package broker

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// envBacked resolves a fixed service-account pair from process
// configuration. The principal is deliberately ignored: these backends
// authenticate with one shared account, so anonymous callers resolve the
// same credential as authenticated ones. Empty credentials are never fatal;
// whether the backend accepts them is its decision.
func envBacked(kind core.BackendKind, creds config.ServiceCredentials) resolveFunc {
	return func(_ context.Context, _ core.Principal) (core.Credential, error) {
		if creds.User == "" && creds.Password == "" {
			log.Warn().Stringer("backend", kind).Msg("service-account credentials are empty")
		}
		return core.ServiceCredential{
			Backend:  kind,
			User:     creds.User,
			Password: creds.Password,
		}, nil
	}
}
