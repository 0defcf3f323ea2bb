// Package vault persists the CLI's credentials as a single encrypted file in
// the per-user mittvibes directory. The whole config is serialized to JSON,
// encrypted symmetrically and written atomically; a record without an access
// token is equivalent to "not authenticated".
package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/config"
)

const (
	vaultFileName = "config.json"

	// passphrase and keySalt are fixed: every installation derives the same
	// key. The vault protects tokens against casual file readers, not
	// against an attacker holding this binary.
	passphrase = "mittvibes-cli-2024"
	keySalt    = "salt"
)

// AuthConfig is the stored credential record.
type AuthConfig struct {
	AccessToken    string `json:"accessToken"`
	UserID         string `json:"userId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// Config is the plaintext schema of the vault file.
type Config struct {
	Auth *AuthConfig `json:"auth,omitempty"`
}

// Vault owns the encrypted credential file. All mutations rewrite the file
// wholesale; there are no partial updates.
type Vault struct {
	path string
	key  []byte
}

// New opens the vault at its default location (~/.mittvibes/config.json).
func New() (*Vault, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewAtPath(filepath.Join(dir, vaultFileName))
}

// NewAtPath opens a vault backed by the given file. Used directly by tests.
func NewAtPath(path string) (*Vault, error) {
	key, err := deriveKey(passphrase, keySalt)
	if err != nil {
		return nil, fmt.Errorf("derive vault key: %w", err)
	}
	return &Vault{path: path, key: key}, nil
}

// Path returns the location of the vault file.
func (v *Vault) Path() string {
	return v.path
}

// Load reads the vault. A missing file yields an empty config. A file that
// fails to decrypt is retried as plain JSON (files written before encryption
// was introduced); if that fails too the config is treated as empty. Load
// never fails: a corrupt vault degrades to "not authenticated".
func (v *Vault) Load() Config {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("vault: read %s: %v", v.path, err)
		}
		return Config{}
	}

	var cfg Config
	plaintext, err := decrypt(v.key, string(data))
	if err == nil {
		if errUnmarshal := json.Unmarshal(plaintext, &cfg); errUnmarshal == nil {
			return cfg
		}
		log.Debugf("vault: decrypted content is not valid JSON, trying legacy format")
	}

	// Legacy fallback: the file may predate encryption.
	if errUnmarshal := json.Unmarshal(data, &cfg); errUnmarshal == nil {
		return cfg
	}

	log.Warnf("vault: %s is unreadable, treating as empty", v.path)
	return Config{}
}

// Save serializes, encrypts and writes the whole config. The write goes to a
// temp file in the same directory followed by a rename, so a crash mid-save
// leaves the previous vault intact.
func (v *Vault) Save(cfg Config) error {
	plaintext, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize vault: %w", err)
	}

	ciphertext, err := encrypt(v.key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}

	dir := filepath.Dir(v.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, vaultFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create vault temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.WriteString(ciphertext); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write vault: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close vault temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod vault: %w", err)
	}
	if err = os.Rename(tmpPath, v.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace vault: %w", err)
	}
	return nil
}

// GetAuth returns the stored credential record, or nil when absent.
func (v *Vault) GetAuth() *AuthConfig {
	return v.Load().Auth
}

// SetAuth stores the credential record, overwriting any existing one.
func (v *Vault) SetAuth(auth AuthConfig) error {
	cfg := v.Load()
	cfg.Auth = &auth
	return v.Save(cfg)
}

// ClearAuth removes the credential record. Clearing an empty vault is a no-op.
func (v *Vault) ClearAuth() error {
	cfg := v.Load()
	if cfg.Auth == nil {
		return nil
	}
	cfg.Auth = nil
	return v.Save(cfg)
}

// IsAuthenticated reports whether a non-empty access token is stored.
func (v *Vault) IsAuthenticated() bool {
	return v.AccessToken() != ""
}

// AccessToken returns the stored access token, or "" when not authenticated.
func (v *Vault) AccessToken() string {
	auth := v.GetAuth()
	if auth == nil {
		return ""
	}
	return auth.AccessToken
}
