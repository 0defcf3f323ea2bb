// Package config holds the CLI runtime settings: OAuth endpoints, the local
// callback port, and paths under the per-user mittvibes directory. Settings
// have working defaults and can be overridden by an optional settings.yaml
// and a small set of environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the base URL of the mittwald v2 REST API.
	DefaultAPIBaseURL = "https://api.mittwald.de"
	// DefaultAuthorizeURL is the OAuth2 authorization endpoint.
	DefaultAuthorizeURL = "https://api.mittwald.de/v2/oauth2/authorize"
	// DefaultTokenURL is the OAuth2 token endpoint.
	DefaultTokenURL = "https://api.mittwald.de/v2/oauth2/token"
	// DefaultClientID is the public OAuth client identifier registered for
	// this CLI. The flow uses PKCE, so no client secret exists.
	DefaultClientID = "mittvibes"
	// DefaultCallbackPort is the fixed local OAuth callback port. It sits
	// high in the dynamic port range (49152-65535) to minimize collisions,
	// and must match the redirect URI registered with the OAuth provider.
	DefaultCallbackPort = 52847
	// DefaultTemplateURL is the project template archive downloaded by init.
	DefaultTemplateURL = "https://github.com/weissaufschwarz/mittvibes/archive/refs/heads/main.zip"

	configDirName    = ".mittvibes"
	settingsFileName = "settings.yaml"
)

// DefaultScopes are the OAuth scopes requested during login.
var DefaultScopes = []string{
	"user:read",
	"project:read",
	"project:write",
	"customer:read",
	"customer:write",
	"extension:read",
	"extension:write",
}

// Settings holds all tunable endpoints and parameters of the CLI.
type Settings struct {
	APIBaseURL   string   `yaml:"api-base-url"`
	AuthorizeURL string   `yaml:"authorize-url"`
	TokenURL     string   `yaml:"token-url"`
	ClientID     string   `yaml:"client-id"`
	Scopes       []string `yaml:"scopes"`
	CallbackPort int      `yaml:"callback-port"`
	TemplateURL  string   `yaml:"template-url"`
	LogLevel     string   `yaml:"log-level"`
}

// Default returns the built-in settings. They are complete; a settings file
// is never required.
func Default() *Settings {
	return &Settings{
		APIBaseURL:   DefaultAPIBaseURL,
		AuthorizeURL: DefaultAuthorizeURL,
		TokenURL:     DefaultTokenURL,
		ClientID:     DefaultClientID,
		Scopes:       append([]string(nil), DefaultScopes...),
		CallbackPort: DefaultCallbackPort,
		TemplateURL:  DefaultTemplateURL,
		LogLevel:     "info",
	}
}

// Load returns the effective settings: defaults, overlaid with the per-user
// settings.yaml when present, overlaid with environment variables. A missing
// settings file is not an error.
func Load() (*Settings, error) {
	s := Default()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, settingsFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if errUnmarshal := yaml.Unmarshal(data, s); errUnmarshal != nil {
			return nil, fmt.Errorf("parse %s: %w", path, errUnmarshal)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s.applyEnv()
	return s, nil
}

// applyEnv overrides individual settings from the environment. Only a small
// set of variables is recognized; unknown values are ignored.
func (s *Settings) applyEnv() {
	if v := os.Getenv("MITTVIBES_API_BASE_URL"); v != "" {
		s.APIBaseURL = v
	}
	if v := os.Getenv("MITTVIBES_AUTHORIZE_URL"); v != "" {
		s.AuthorizeURL = v
	}
	if v := os.Getenv("MITTVIBES_TOKEN_URL"); v != "" {
		s.TokenURL = v
	}
	if v := os.Getenv("MITTVIBES_CALLBACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			s.CallbackPort = port
		}
	}
	if v := os.Getenv("MITTVIBES_TEMPLATE_URL"); v != "" {
		s.TemplateURL = v
	}
	if v := os.Getenv("MITTVIBES_LOG_LEVEL"); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
}

// RedirectURI returns the OAuth redirect URI for the configured callback port.
func (s *Settings) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.CallbackPort)
}

// ScopeString returns the space-separated scope list for the authorize URL.
func (s *Settings) ScopeString() string {
	return strings.Join(s.Scopes, " ")
}

// Dir returns the per-user mittvibes directory (~/.mittvibes), creating it
// if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}
