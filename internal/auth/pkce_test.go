package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"testing"

	"golang.org/x/oauth2"
)

var verifierCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGeneratePKCE(t *testing.T) {
	t.Parallel()

	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error = %v", err)
	}

	if len(pkce.CodeVerifier) != 43 {
		t.Errorf("verifier length = %d, want 43", len(pkce.CodeVerifier))
	}
	if !verifierCharset.MatchString(pkce.CodeVerifier) {
		t.Errorf("verifier %q contains characters outside the base64url alphabet", pkce.CodeVerifier)
	}
	if !verifierCharset.MatchString(pkce.CodeChallenge) {
		t.Errorf("challenge %q contains characters outside the base64url alphabet", pkce.CodeChallenge)
	}

	// The challenge must be exactly base64url(SHA-256(verifier)), unpadded.
	hash := sha256.Sum256([]byte(pkce.CodeVerifier))
	want := base64.RawURLEncoding.EncodeToString(hash[:])
	if pkce.CodeChallenge != want {
		t.Errorf("challenge = %q, want %q", pkce.CodeChallenge, want)
	}
}

func TestGeneratePKCEMatchesOAuth2Library(t *testing.T) {
	t.Parallel()

	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error = %v", err)
	}

	// Cross-check the S256 derivation against golang.org/x/oauth2.
	if want := oauth2.S256ChallengeFromVerifier(pkce.CodeVerifier); pkce.CodeChallenge != want {
		t.Errorf("challenge = %q, x/oauth2 derives %q", pkce.CodeChallenge, want)
	}
}

func TestGeneratePKCEIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		pkce, err := GeneratePKCE()
		if err != nil {
			t.Fatalf("GeneratePKCE() error = %v", err)
		}
		if seen[pkce.CodeVerifier] {
			t.Fatalf("verifier %q generated twice", pkce.CodeVerifier)
		}
		seen[pkce.CodeVerifier] = true
	}
}

func TestGenerateState(t *testing.T) {
	t.Parallel()

	state, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	raw, err := hex.DecodeString(state)
	if err != nil {
		t.Fatalf("state %q is not hex: %v", state, err)
	}
	if len(raw) != 16 {
		t.Errorf("state carries %d random bytes, want 16", len(raw))
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if state == other {
		t.Errorf("two states collided: %q", state)
	}
}
