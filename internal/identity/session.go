package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// Session owns one bearer token, either supplied externally by a caller or
// issued internally through a credential grant. External sessions are only
// validated; internally issued ones retain the refresh token so invalidation
// can run on teardown.
type Session struct {
	client *Client

	mu           sync.Mutex
	token        string
	refreshToken string
	clientID     string
	scope        string
	external     bool
	closed       bool

	// Subject and ExpiresAt are best-effort bookkeeping read from the issued
	// access token's claims without verification. Zero values when the token
	// is opaque.
	Subject   string
	ExpiresAt time.Time
}

// NewSession returns an empty session ready for IssueToken.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// ExternalSession wraps an externally supplied bearer token. It can be
// validated but never issued or invalidated here; the external issuer owns
// its lifecycle.
func (c *Client) ExternalSession(token string) *Session {
	return &Session{client: c, token: token, external: true}
}

// Token returns the current access token, empty once the session is closed.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Validate checks the session's token against the identity provider.
func (s *Session) Validate(ctx context.Context) (core.Principal, bool) {
	return s.client.Validate(ctx, s.Token())
}

// IssueToken performs a credential grant and stores the returned token pair.
// Calling it while a token is already set is a caller error, not retried.
func (s *Session) IssueToken(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return fmt.Errorf("a token is already set, cannot issue a new one: %w", core.ErrConfiguration)
	}

	creds.withDefaults()
	tr, err := s.client.grant(ctx, creds)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	s.token = tr.AccessToken
	s.refreshToken = tr.RefreshToken
	s.clientID = creds.ClientID
	s.scope = creds.Scope
	s.recordClaims(tr.AccessToken)
	return nil
}

// Invalidate performs the logout call using the retained refresh token.
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	token, refresh := s.token, s.refreshToken
	clientID, scope := s.clientID, s.scope
	s.mu.Unlock()

	if refresh == "" {
		return fmt.Errorf("session holds no refresh token")
	}
	return s.client.Logout(ctx, token, refresh, clientID, scope)
}

// Close tears the session down. It runs on every exit path the caller
// registers it on (defer) and invalidates internally issued tokens exactly
// once. Invalidation failures are logged, not escalated: the session is
// considered terminated locally regardless.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	refresh := s.refreshToken
	s.mu.Unlock()

	if refresh != "" && !s.external {
		ctx, cancel := context.WithTimeout(context.Background(), s.client.http.Timeout)
		defer cancel()
		if err := s.Invalidate(ctx); err != nil {
			log.Error().Err(err).Msg("token invalidation failed, session terminated locally")
		}
	}

	s.mu.Lock()
	s.token = ""
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

// recordClaims peeks at the access token's claims without verifying the
// signature. Verification is the provider's job; this is bookkeeping only.
func (s *Session) recordClaims(token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	if sub, err := claims.GetSubject(); err == nil {
		s.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
}
