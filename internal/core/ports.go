package core

import "context"

// Record is a raw credential record as returned by the external store.
// Attribute names and types vary per backend kind; strategies decode what
// they need.
type Record map[string]any

// CredentialStore is the gateway to the external key-value credential store.
// Records are created and refreshed by an out-of-scope provisioning flow;
// this subsystem only reads them.
type CredentialStore interface {
	// QueryByIndex looks up records via a secondary index. An empty attribute
	// value short-circuits to an empty result without issuing a call.
	QueryByIndex(ctx context.Context, indexName, attributeName, attributeValue string) ([]Record, error)

	// GetItem fetches a record by primary key. The second return reports
	// whether the record exists.
	GetItem(ctx context.Context, key string) (Record, bool, error)

	// PutItem writes a record. Used by provisioning tooling, never on the
	// request path.
	PutItem(ctx context.Context, key string, record Record) error
}

// SessionValidator validates an externally supplied bearer token.
// All failure causes (network error, non-2xx, decode failure, missing
// subject) are reported uniformly as invalid so that no infrastructure
// detail leaks into the authorization decision.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (Principal, bool)
}

// CredentialResolver produces the downstream credential for a principal and
// backend kind.
type CredentialResolver interface {
	Resolve(ctx context.Context, kind BackendKind, principal Principal) (Credential, error)
}
