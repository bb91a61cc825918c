package gateway

import (
	"encoding/json"
	"testing"
)

func TestResponseEnvelope(t *testing.T) {
	resp := Response(400, map[string]string{"field": "value"}, "No user for id: u-42")

	if resp.StatusCode != 400 {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}

	var body responseBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != 400 {
		t.Errorf("got body status %d, want 400", body.Status)
	}
	if want := "Bad Request No user for id: u-42"; body.Message != want {
		t.Errorf("got message %q, want %q", body.Message, want)
	}
	if body.Data == nil {
		t.Error("data dropped from envelope")
	}
}

func TestResponseWithoutDetail(t *testing.T) {
	resp := Response(200, nil, "")

	var body responseBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "OK" {
		t.Errorf("got message %q, want %q", body.Message, "OK")
	}
}

func TestResponseCORSHeaders(t *testing.T) {
	resp := Response(200, nil, "")
	if got := resp.Headers["Access-Control-Allow-Origin"]; got != "*" {
		t.Errorf("got default allow-origin %q, want *", got)
	}

	t.Setenv("ACCESS_CONTROL_ALLOW_ORIGIN", "https://app.example.com")
	resp = Response(200, nil, "")
	if got := resp.Headers["Access-Control-Allow-Origin"]; got != "https://app.example.com" {
		t.Errorf("got allow-origin %q, want configured origin", got)
	}
}
