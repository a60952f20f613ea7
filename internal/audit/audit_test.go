package audit

import "testing"

func TestSanitiseKeySecret(t *testing.T) {
	t.Parallel()

	if got := SanitiseKey("OPENAI_API_KEY", "sk-12345"); got != "set" {
		t.Errorf("SanitiseKey(secret, value) = %q, want %q", got, "set")
	}
	if got := SanitiseKey("OPENAI_API_KEY", ""); got != "unset" {
		t.Errorf("SanitiseKey(secret, empty) = %q, want %q", got, "unset")
	}
}

func TestSanitiseKeyNonSecret(t *testing.T) {
	t.Parallel()

	if got := SanitiseKey("QDRANT_HOST", "localhost"); got != "localhost" {
		t.Errorf("SanitiseKey(non-secret, value) = %q, want %q", got, "localhost")
	}
	if got := SanitiseKey("QDRANT_HOST", ""); got != "unset" {
		t.Errorf("SanitiseKey(non-secret, empty) = %q, want %q", got, "unset")
	}
}

func TestSanitiseConfigPath(t *testing.T) {
	t.Parallel()

	if got := sanitiseConfigPath(""); got != "none" {
		t.Errorf("sanitiseConfigPath(empty) = %q, want %q", got, "none")
	}
	if got := sanitiseConfigPath("/etc/filterchat.yaml"); got != "/etc/filterchat.yaml" {
		t.Errorf("sanitiseConfigPath(abs) = %q", got)
	}
}
