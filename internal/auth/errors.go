// Package auth implements the CLI's OAuth2 authorization-code flow with PKCE:
// challenge generation, the one-shot local callback server, the token
// exchange, the login orchestration, and the authenticated session gate used
// by API-calling code.
package auth

import (
	"errors"
	"fmt"
)

// AuthError is a typed, user-actionable authentication failure.
type AuthError struct {
	// Type identifies the failure class.
	Type string
	// Message is a human readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Is matches AuthErrors by type, so sentinel comparisons like
// errors.Is(err, ErrPortInUse) work on wrapped instances.
func (e *AuthError) Is(target error) bool {
	var other *AuthError
	if !errors.As(target, &other) {
		return false
	}
	return e.Type == other.Type
}

// Base authentication errors. Wrap them with withCause to attach context.
var (
	// ErrPortInUse reports that the fixed callback port is already bound by
	// another process. The attempt is fatal; the operator must free the port.
	ErrPortInUse = &AuthError{
		Type:    "port_in_use",
		Message: "OAuth callback port is already in use",
	}

	// ErrServerStartFailed reports any other callback listener bind failure.
	ErrServerStartFailed = &AuthError{
		Type:    "server_start_failed",
		Message: "failed to start OAuth callback server",
	}

	// ErrMissingCode reports a redirect that carried neither a code nor an
	// error parameter.
	ErrMissingCode = &AuthError{
		Type:    "missing_code",
		Message: "no authorization code received",
	}

	// ErrStateMismatch reports a redirect whose state parameter does not
	// match the one generated for this attempt.
	ErrStateMismatch = &AuthError{
		Type:    "state_mismatch",
		Message: "OAuth state parameter does not match this login attempt",
	}

	// ErrSessionExpired reports that an authenticated API call came back
	// unauthorized. The vault has already been invalidated when this is
	// returned; the operator must log in again.
	ErrSessionExpired = &AuthError{
		Type:    "session_expired",
		Message: "your session has expired, please run 'mittvibes auth login'",
	}
)

// withCause derives a new AuthError of the same type carrying a cause.
func withCause(base *AuthError, cause error) *AuthError {
	return &AuthError{Type: base.Type, Message: base.Message, Cause: cause}
}

// OAuthProviderError is an error reported by the authorization server through
// the redirect's error parameter.
type OAuthProviderError struct {
	// Code is the OAuth error code, e.g. "access_denied".
	Code string
	// Description is the optional error_description parameter.
	Description string
}

// Error implements the error interface.
func (e *OAuthProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("OAuth error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("OAuth error: %s", e.Code)
}

// ExchangeError is a non-success response from the token endpoint. The remote
// response body is carried verbatim.
type ExchangeError struct {
	// StatusCode is the HTTP status of the token response.
	StatusCode int
	// Body is the raw response body text.
	Body string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// GetUserFriendlyMessage maps an authentication failure to operator-facing
// text with a concrete next step.
func GetUserFriendlyMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		switch authErr.Type {
		case ErrPortInUse.Type:
			return fmt.Sprintf("%s. Please close any other application using this port and try again.", authErr.Message)
		case ErrMissingCode.Type:
			return "No authorization code was received. Please try again."
		case ErrStateMismatch.Type:
			return "The login response could not be verified. Please try again."
		case ErrSessionExpired.Type:
			return "Your session has expired. Please run 'mittvibes auth login' to re-authenticate."
		default:
			return "Authentication failed. Please try again."
		}
	}

	var providerErr *OAuthProviderError
	if errors.As(err, &providerErr) {
		if providerErr.Code == "access_denied" {
			return "Authentication was cancelled or denied."
		}
		return fmt.Sprintf("The authorization server rejected the login: %s", providerErr.Error())
	}

	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return fmt.Sprintf("Token exchange failed: %s", exchangeErr.Body)
	}

	return fmt.Sprintf("Authentication failed: %v", err)
}
