package core

import "errors"

// Failure kinds of credential resolution. Callers classify with errors.Is and
// translate to transport responses at the gateway boundary; nothing below the
// gateway is retried.
var (
	// ErrCredentialNotFound means the store holds no record for the
	// (principal, backend kind) pair. Surfaced as a 400-class response.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialExpired means a record exists but is past its validity.
	// Surfaced as a 401-class response.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrDuplicateCredential means the secondary index returned more than one
	// record for a principal. At most one record per (principal, kind) is
	// provisioned; duplicates indicate a provisioning bug and fail loudly.
	ErrDuplicateCredential = errors.New("duplicate credential records")

	// ErrUpstreamUnavailable means the identity provider or the credential
	// store could not be reached. Distinct from an invalid session.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrConfiguration marks deployment misconfiguration: unknown backend
	// kind, unparseable stored record, missing endpoint. Not user-correctable.
	ErrConfiguration = errors.New("configuration error")
)
