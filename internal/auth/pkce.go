package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// pkceVerifierBytes is the number of random bytes backing the code verifier.
// 32 bytes is 256 bits of entropy and encodes to 43 base64url characters,
// the RFC 7636 minimum length.
const pkceVerifierBytes = 32

// PKCECodes is a verifier/challenge pair for one login attempt. It lives in
// memory only and is discarded once the token exchange completes or the
// attempt aborts.
type PKCECodes struct {
	// CodeVerifier is the client-held secret, base64url without padding.
	CodeVerifier string
	// CodeChallenge is SHA-256(verifier), base64url without padding, sent
	// in the authorization request.
	CodeChallenge string
}

// GeneratePKCE creates a fresh PKCE pair from a cryptographically secure
// random source, following RFC 7636 with the S256 challenge method.
func GeneratePKCE() (*PKCECodes, error) {
	raw := make([]byte, pkceVerifierBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(raw)
	hash := sha256.Sum256([]byte(verifier))

	return &PKCECodes{
		CodeVerifier:  verifier,
		CodeChallenge: base64.RawURLEncoding.EncodeToString(hash[:]),
	}, nil
}

// GenerateState creates a random state parameter for CSRF binding of one
// authorization attempt, hex encoded.
func GenerateState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
