package gateway

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// responseBody is the envelope every formatted response carries.
type responseBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Response builds a formatted proxy response. The message is the HTTP reason
// phrase followed by the given detail.
func Response(status int, data any, message string) events.APIGatewayProxyResponse {
	phrase := http.StatusText(status)
	if phrase == "" {
		phrase = http.StatusText(http.StatusInternalServerError)
	}
	if message != "" {
		phrase = phrase + " " + message
	}

	body, err := json.Marshal(responseBody{
		Status:  status,
		Message: phrase,
		Data:    data,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}

	allowOrigin := os.Getenv("ACCESS_CONTROL_ALLOW_ORIGIN")
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  allowOrigin,
			"Access-Control-Allow-Headers": "*",
			"Access-Control-Allow-Methods": "OPTIONS, GET, PUT, POST, DELETE, PATCH, HEAD",
		},
		Body: string(body),
	}
}
