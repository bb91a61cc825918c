// Package broker resolves downstream credentials for authenticated
// principals. Each backend kind is bound to exactly one strategy in a closed
// dispatch table built at construction time; store-backed strategies share a
// lookup template and differ only in how they parse the stored record.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// resolveFunc is one credential strategy.
type resolveFunc func(ctx context.Context, principal core.Principal) (core.Credential, error)

// Resolver dispatches credential resolution to the strategy for a backend
// kind.
type Resolver struct {
	strategies map[core.BackendKind]resolveFunc

	// now is the resolution clock, replaceable in tests.
	now func() time.Time
}

var _ core.CredentialResolver = (*Resolver)(nil)

func New(store core.CredentialStore, cfg *config.Config) *Resolver {
	r := &Resolver{now: time.Now}
	r.strategies = map[core.BackendKind]resolveFunc{
		core.BackendREST:        r.storeBacked(store, cfg, parseREST),
		core.BackendSOAP:        r.storeBacked(store, cfg, parseSOAP),
		core.BackendChecks:      r.storeBacked(store, cfg, parseChecks),
		core.BackendSearch:      envBacked(core.BackendSearch, cfg.Search),
		core.BackendReporting:   envBacked(core.BackendReporting, cfg.Reporting),
		core.BackendFileStorage: envBacked(core.BackendFileStorage, cfg.FileStorage),
	}
	return r
}

// Resolve produces the credential for the given backend kind and principal.
// Failures are classified via the core error kinds; callers translate them
// at the transport boundary.
func (r *Resolver) Resolve(ctx context.Context, kind core.BackendKind, principal core.Principal) (core.Credential, error) {
	strategy, ok := r.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("no credential strategy for backend kind %q: %w", kind, core.ErrConfiguration)
	}
	return strategy(ctx, principal)
}
