// The authorizer binary runs the API Gateway token authorizer: it validates
// the bearer token of an inbound request against the identity provider and
// emits the Allow/Deny policy the gateway caches.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/gateway"
	"github.com/TebanMT/POC-SENTRY/internal/identity"
	"github.com/TebanMT/POC-SENTRY/internal/logging"
)

func main() {
	logging.InitLambda()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	authorizer := gateway.NewAuthorizer(identity.NewClient(cfg))
	lambda.Start(authorizer.Authorize)
}
