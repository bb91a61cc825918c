package broker

import (
	"context"
	"testing"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
	"github.com/TebanMT/POC-SENTRY/internal/store"
)

func TestResolveEnvBackedIgnoresPrincipal(t *testing.T) {
	cfg := testConfig()
	cfg.Search = config.ServiceCredentials{User: "svc-search", Password: "hunter2"}
	cfg.Reporting = config.ServiceCredentials{User: "svc-report", Password: "hunter3"}
	cfg.FileStorage = config.ServiceCredentials{User: "svc-files", Password: "hunter4"}

	r := New(store.NewInMemoryStore(), cfg)

	tests := []struct {
		kind core.BackendKind
		user string
	}{
		{core.BackendSearch, "svc-search"},
		{core.BackendReporting, "svc-report"},
		{core.BackendFileStorage, "svc-files"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			for _, principal := range []core.Principal{core.Anonymous, "u-42"} {
				cred, err := r.Resolve(context.Background(), tt.kind, principal)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				svc, ok := cred.(core.ServiceCredential)
				if !ok {
					t.Fatalf("got %T, want ServiceCredential", cred)
				}
				if svc.User != tt.user {
					t.Fatalf("got user %q, want %q", svc.User, tt.user)
				}
				if svc.Kind() != tt.kind {
					t.Fatalf("got kind %v, want %v", svc.Kind(), tt.kind)
				}
			}
		})
	}
}

func TestResolveEnvBackedEmptyCredentialsNeverFail(t *testing.T) {
	r := New(store.NewInMemoryStore(), testConfig())

	cred, err := r.Resolve(context.Background(), core.BackendSearch, core.Anonymous)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := cred.(core.ServiceCredential)
	if svc.User != "" || svc.Password != "" {
		t.Fatalf("got %+v, want empty credentials", svc)
	}
}

func TestResolveSearchFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvSearchUser, "es-reader")
	t.Setenv(config.EnvSearchPassword, "es-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	r := New(store.NewInMemoryStore(), cfg)

	cred, err := r.Resolve(context.Background(), core.BackendSearch, core.Anonymous)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := cred.(core.ServiceCredential)
	if svc.User != "es-reader" || svc.Password != "es-secret" {
		t.Fatalf("got %+v, want credentials from environment", svc)
	}
}
