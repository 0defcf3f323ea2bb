package auth

import (
	"context"
	"fmt"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/browser"
	"github.com/weissaufschwarz/mittvibes/internal/config"
	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// flowState names the phases of one login attempt. Transitions are strictly
// sequential; any non-terminal state can transition to stateFailed.
type flowState int

const (
	stateIdle flowState = iota
	statePKCEReady
	stateListening
	stateAwaitingUser
	stateExchanging
	statePersisted
	stateFailed
)

// String implements fmt.Stringer for transition logging.
func (s flowState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePKCEReady:
		return "pkce_ready"
	case stateListening:
		return "listening"
	case stateAwaitingUser:
		return "awaiting_user"
	case stateExchanging:
		return "exchanging"
	case statePersisted:
		return "persisted"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow orchestrates one OAuth login attempt: PKCE generation, the callback
// listener, the browser hand-off, the token exchange and persisting the
// result. A Flow is single use.
type Flow struct {
	settings *config.Settings
	vault    *vault.Vault

	// OpenURL opens the authorization URL in a browser. Nil means the
	// default system opener; cmd layers replace it for --no-browser.
	OpenURL func(url string) error

	// Notify receives human-readable progress messages, e.g. the manual
	// copy URL. Nil discards them.
	Notify func(message string)

	state flowState
}

// NewFlow creates a login flow over the given settings and vault.
func NewFlow(settings *config.Settings, v *vault.Vault) *Flow {
	return &Flow{
		settings: settings,
		vault:    v,
		state:    stateIdle,
	}
}

// transition advances the state machine.
func (f *Flow) transition(to flowState) {
	log.Debugf("login flow: %s -> %s", f.state, to)
	f.state = to
}

// fail moves the flow to its failed terminal state and returns err.
func (f *Flow) fail(err error) error {
	f.transition(stateFailed)
	return err
}

// notify forwards a progress message when a sink is attached.
func (f *Flow) notify(message string) {
	if f.Notify != nil {
		f.Notify(message)
	}
}

// Login runs the whole flow. If the vault already holds a token the flow
// returns immediately without binding the listener or contacting the
// authorization server. On any failure the listener is closed and the vault
// left untouched. Cancelling ctx at any point tears the listener down before
// returning.
func (f *Flow) Login(ctx context.Context) error {
	if f.vault.IsAuthenticated() {
		f.notify("Already authenticated.")
		f.transition(statePersisted)
		return nil
	}

	// idle -> pkce_ready
	pkce, err := GeneratePKCE()
	if err != nil {
		return f.fail(fmt.Errorf("failed to generate PKCE pair: %w", err))
	}
	state, err := GenerateState()
	if err != nil {
		return f.fail(fmt.Errorf("failed to generate state: %w", err))
	}
	f.transition(statePKCEReady)

	// pkce_ready -> listening
	server := NewCallbackServer(f.settings.CallbackPort, state)
	if err = server.Start(); err != nil {
		return f.fail(err)
	}
	defer server.Close()
	f.transition(stateListening)

	// listening -> awaiting_user
	authURL := f.buildAuthorizeURL(pkce.CodeChallenge, state)
	f.notify(fmt.Sprintf("If the browser doesn't open automatically, visit:\n%s", authURL))
	f.openBrowser(authURL)
	f.transition(stateAwaitingUser)

	// awaiting_user -> exchanging
	code, err := server.Wait(ctx)
	if err != nil {
		return f.fail(err)
	}
	f.transition(stateExchanging)

	// exchanging -> persisted
	tokenClient := NewTokenClient(f.settings.TokenURL, f.settings.ClientID, f.settings.RedirectURI())
	tokenResp, err := tokenClient.Exchange(ctx, code, pkce.CodeVerifier)
	if err != nil {
		return f.fail(err)
	}

	if err = f.vault.SetAuth(vault.AuthConfig{AccessToken: tokenResp.AccessToken}); err != nil {
		return f.fail(fmt.Errorf("failed to store credentials: %w", err))
	}

	f.transition(statePersisted)
	return nil
}

// buildAuthorizeURL assembles the authorization request URL for this attempt.
func (f *Flow) buildAuthorizeURL(challenge, state string) string {
	params := url.Values{
		"client_id":             {f.settings.ClientID},
		"redirect_uri":          {f.settings.RedirectURI()},
		"response_type":         {"code"},
		"scope":                 {f.settings.ScopeString()},
		"state":                 {state},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
	}
	return fmt.Sprintf("%s?%s", f.settings.AuthorizeURL, params.Encode())
}

// openBrowser hands the URL to the configured opener. Failing to open a
// browser is not fatal: the URL was already surfaced for manual copy and the
// listener keeps waiting.
func (f *Flow) openBrowser(authURL string) {
	opener := f.OpenURL
	if opener == nil {
		opener = browser.OpenURL
	}
	if err := opener(authURL); err != nil {
		log.Debugf("failed to open browser: %v", err)
		f.notify("Could not open a browser automatically. Please open the URL above manually.")
	}
}
