package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// Request is the inbound event seen by wrapped handlers. Direct gateway
// calls populate the proxy request; orchestration triggers nest the original
// gateway event under "auth".
type Request struct {
	events.APIGatewayProxyRequest

	Auth *NestedAuth `json:"auth,omitempty"`
}

// NestedAuth mirrors the authorizer portion of a gateway event forwarded by
// an orchestration step.
type NestedAuth struct {
	RequestContext struct {
		Authorizer map[string]any `json:"authorizer"`
	} `json:"requestContext"`
}

// Handler is a business handler that runs with an injected credential.
type Handler func(ctx context.Context, credential core.Credential, req Request) (events.APIGatewayProxyResponse, error)

// WithCredentials composes a handler with credential resolution for the
// backend kind the handler is statically bound to. On resolution failure it
// short-circuits with a formatted error response; errors from the wrapped
// handler itself pass through untranslated.
func WithCredentials(kind core.BackendKind, resolver core.CredentialResolver, next Handler) func(context.Context, Request) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req Request) (events.APIGatewayProxyResponse, error) {
		logger := log.With().
			Str("correlation_id", xid.New().String()).
			Stringer("backend", kind).
			Logger()
		ctx = logger.WithContext(ctx)

		principal := PrincipalFrom(req)
		if principal.IsAnonymous() {
			logger.Debug().Msg("no principal on request, resolving as anonymous")
		}

		credential, err := resolver.Resolve(ctx, kind, principal)
		if err != nil {
			logger.Error().Err(err).Str("principal", string(principal)).Msg("credential resolution failed")
			return errorResponse(err), nil
		}

		return next(ctx, credential, req)
	}
}

// PrincipalFrom extracts the principal propagated by the authorizer: first
// from the gateway-populated context, then from the nested context used by
// orchestration triggers. Absence is not an error; the strategy decides
// whether anonymous access is acceptable.
func PrincipalFrom(req Request) core.Principal {
	if id, ok := principalValue(req.RequestContext.Authorizer); ok {
		return id
	}
	if req.Auth != nil {
		if id, ok := principalValue(req.Auth.RequestContext.Authorizer); ok {
			return id
		}
	}
	return core.Anonymous
}

func principalValue(authorizer map[string]any) (core.Principal, bool) {
	raw, ok := authorizer[PrincipalContextKey]
	if !ok {
		return core.Anonymous, false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return core.Anonymous, false
	}
	return core.Principal(id), true
}

// errorResponse translates a resolution failure into a transport response.
// The message carries the failure reason but never a raw upstream error body.
func errorResponse(err error) events.APIGatewayProxyResponse {
	switch {
	case errors.Is(err, core.ErrCredentialNotFound):
		return Response(http.StatusBadRequest, nil, err.Error())
	case errors.Is(err, core.ErrCredentialExpired):
		return Response(http.StatusUnauthorized, nil, err.Error())
	default:
		return Response(http.StatusInternalServerError, nil, err.Error())
	}
}
