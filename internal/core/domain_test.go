package core

import "testing"

func TestBackendKindRoundTrip(t *testing.T) {
	kinds := []BackendKind{
		BackendREST,
		BackendSOAP,
		BackendChecks,
		BackendSearch,
		BackendReporting,
		BackendFileStorage,
	}

	for _, kind := range kinds {
		if got := ParseBackendKind(kind.String()); got != kind {
			t.Errorf("ParseBackendKind(%q) = %v, want %v", kind.String(), got, kind)
		}
	}

	if got := ParseBackendKind("ftp"); got != BackendUnknown {
		t.Errorf("ParseBackendKind(ftp) = %v, want BackendUnknown", got)
	}
	if got := BackendUnknown.String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}

func TestCredentialKinds(t *testing.T) {
	tests := []struct {
		credential Credential
		want       BackendKind
	}{
		{BearerCredential{}, BackendREST},
		{SOAPSession{}, BackendSOAP},
		{ChecksCredential{}, BackendChecks},
		{ServiceCredential{Backend: BackendSearch}, BackendSearch},
		{ServiceCredential{Backend: BackendFileStorage}, BackendFileStorage},
	}

	for _, tt := range tests {
		if got := tt.credential.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.credential, got, tt.want)
		}
	}
}

func TestPrincipalIsAnonymous(t *testing.T) {
	if !Anonymous.IsAnonymous() {
		t.Error("Anonymous must report anonymous")
	}
	if Principal("u-42").IsAnonymous() {
		t.Error("a named principal must not report anonymous")
	}
}
