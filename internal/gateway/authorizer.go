// Package gateway holds the two entry points invoked by the API gateway: the
// token authorizer and the credential-injection wrapper around business
// handlers.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// PrincipalContextKey is the authorizer context key carrying the validated
// principal to downstream handlers.
const PrincipalContextKey = "principalId"

const invokeAction = "execute-api:Invoke"

// Authorizer validates the bearer token of an inbound request and emits an
// IAM Allow/Deny policy. Deny is a normal outcome of authorization, never an
// error; errors are reserved for malformed input, which indicates a gateway
// misconfiguration and must fail loudly.
type Authorizer struct {
	validator core.SessionValidator
}

func NewAuthorizer(validator core.SessionValidator) *Authorizer {
	return &Authorizer{validator: validator}
}

// Authorize handles one token-authorizer invocation.
func (a *Authorizer) Authorize(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	if event.AuthorizationToken == "" {
		return events.APIGatewayCustomAuthorizerResponse{},
			fmt.Errorf("authorization token missing from event: %w", core.ErrConfiguration)
	}

	generalARN, err := GeneralizeARN(event.MethodArn)
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	principal, ok := a.validator.Validate(ctx, event.AuthorizationToken)
	if !ok {
		log.Warn().Str("resource", generalARN).Msg("session validation failed, denying")
		return denyPolicy(generalARN), nil
	}

	log.Info().Str("principal", string(principal)).Str("resource", generalARN).Msg("session validated")
	return allowPolicy(generalARN, principal), nil
}

// GeneralizeARN reduces a method ARN to its first two path segments plus a
// wildcard, so one Allow/Deny decision covers every method and stage under
// the deployment and the policy stays cacheable by the gateway.
func GeneralizeARN(methodARN string) (string, error) {
	parts := strings.Split(methodARN, "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", fmt.Errorf("malformed method ARN %q: %w", methodARN, core.ErrConfiguration)
	}
	return parts[0] + "/" + parts[1] + "/*", nil
}

func allowPolicy(arn string, principal core.Principal) events.APIGatewayCustomAuthorizerResponse {
	resp := policy(arn, "Allow")
	resp.PrincipalID = string(principal)
	resp.Context = map[string]any{
		PrincipalContextKey: string(principal),
	}
	return resp
}

func denyPolicy(arn string) events.APIGatewayCustomAuthorizerResponse {
	return policy(arn, "Deny")
}

func policy(arn, effect string) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: "user",
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{invokeAction},
					Effect:   effect,
					Resource: []string{arn},
				},
			},
		},
	}
}
