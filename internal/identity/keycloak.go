package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// Client talks to a Keycloak realm. It validates externally supplied bearer
// tokens via the userinfo endpoint and owns the issue/invalidate lifecycle
// for internally initiated sessions.
//
// Validation is deliberately binary: every failure cause (network error,
// non-2xx, decode failure, missing subject) reports as invalid so the
// authorization decision never leaks infrastructure detail.
type Client struct {
	baseURL string
	realm   string
	http    *http.Client

	mu       sync.Mutex
	provider *oidc.Provider
}

var _ core.SessionValidator = (*Client)(nil)

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.KeycloakBaseURL, "/"),
		realm:   cfg.KeycloakRealm,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (c *Client) realmURL() string {
	return fmt.Sprintf("%s/realms/%s", c.baseURL, c.realm)
}

func (c *Client) tokenURL() string {
	return c.realmURL() + "/protocol/openid-connect/token"
}

func (c *Client) logoutURL() string {
	return c.realmURL() + "/protocol/openid-connect/logout"
}

// discover lazily resolves the realm's OIDC metadata. A discovery failure
// fails only the current call; the next call retries.
func (c *Client) discover(ctx context.Context) (*oidc.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		return c.provider, nil
	}
	provider, err := oidc.NewProvider(ctx, c.realmURL())
	if err != nil {
		return nil, fmt.Errorf("discovering realm %q: %w", c.realm, err)
	}
	c.provider = provider
	return provider, nil
}

// Validate sends the raw token to the realm's userinfo endpoint. The session
// is valid iff the call succeeds and the response carries a subject.
func (c *Client) Validate(ctx context.Context, token string) (core.Principal, bool) {
	if token == "" {
		return core.Anonymous, false
	}
	ctx = oidc.ClientContext(ctx, c.http)

	provider, err := c.discover(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session validation failed")
		return core.Anonymous, false
	}

	info, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	if err != nil {
		log.Warn().Err(err).Msg("session validation failed")
		return core.Anonymous, false
	}
	if info.Subject == "" {
		log.Warn().Msg("userinfo response carries no subject")
		return core.Anonymous, false
	}
	return core.Principal(info.Subject), true
}

// Credentials are the parameters of a credential grant against the token
// endpoint.
type Credentials struct {
	Username string
	Password string

	// ClientID defaults to "fileStorage".
	ClientID string
	// GrantType defaults to "password".
	GrantType string
	// Scope defaults to "openid".
	Scope string
}

func (cr *Credentials) withDefaults() {
	if cr.ClientID == "" {
		cr.ClientID = "fileStorage"
	}
	if cr.GrantType == "" {
		cr.GrantType = "password"
	}
	if cr.Scope == "" {
		cr.Scope = "openid"
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// grant performs the credential grant and returns the raw token pair.
func (c *Client) grant(ctx context.Context, creds Credentials) (tokenResponse, error) {
	creds.withDefaults()

	form := url.Values{
		"username":   {creds.Username},
		"password":   {creds.Password},
		"grant_type": {creds.GrantType},
		"client_id":  {creds.ClientID},
		"scope":      {creds.Scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("token endpoint: %w: %w", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tokenResponse{}, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return tokenResponse{}, fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("token response carries no access token")
	}
	return tr, nil
}

// Logout posts the refresh token to the logout endpoint. Keycloak answers
// 204 on success; anything else is an error. Empty clientID/scope fall back
// to the grant defaults.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken, clientID, scope string) error {
	if clientID == "" {
		clientID = "fileStorage"
	}
	if scope == "" {
		scope = "openid"
	}

	form := url.Values{
		"refresh_token": {refreshToken},
		"client_id":     {clientID},
		"scope":         {scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.logoutURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout endpoint: %w: %w", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout endpoint returned %d", resp.StatusCode)
	}
	return nil
}
