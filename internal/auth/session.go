package auth

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// Session is the read path over the vault for API-calling code. It caches the
// access token between calls and is the single place where an unauthorized
// response poisons the cached credentials: after Invalidate, every handle
// holding this session sees the cleared state immediately.
//
// A Session is passed explicitly to its consumers; there is no package-level
// instance. The mutex covers callers running in background goroutines, e.g.
// asynchronous wizard commands.
type Session struct {
	vault *vault.Vault

	mu sync.Mutex
	// token caches the vault read; loaded guards against treating an empty
	// vault as "not yet read".
	token  string
	loaded bool
}

// NewSession creates a session gate over the given vault.
func NewSession(v *vault.Vault) *Session {
	return &Session{vault: v}
}

// AccessToken returns the bearer token, or "" when not authenticated.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.token = s.vault.AccessToken()
		s.loaded = true
	}
	return s.token
}

// IsAuthenticated reports whether a bearer token is available.
func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Invalidate is the onUnauthorized hook. It clears the vault's credential
// record and drops the cached token, forcing every subsequent call through
// this session to re-check authentication.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	if err := s.vault.ClearAuth(); err != nil {
		log.Warnf("failed to clear stored credentials: %v", err)
	}
}

// Refresh drops the cached token so the next read hits the vault. Called
// after a successful login.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.token = ""
}
