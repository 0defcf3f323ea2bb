package scaffold

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// envFileName is the dotenv file written into a generated project.
const envFileName = ".env"

// EnvConfig carries everything the generated project's .env needs.
type EnvConfig struct {
	DatabaseURL      string
	ExtensionID      string
	ExtensionSecret  string
	CustomerID       string
	ExtensionContext string
	ContextID        string
	AnchorURL        string
}

// extensionIDPlaceholder marks the extension ID as still unknown; it is
// replaced later once the operator created the extension in mStudio.
const extensionIDPlaceholder = "REPLACE_ME"

// GenerateSecret produces a random 256-bit secret, base64url encoded. Used
// for the extension webhook secret and the field encryption key.
func GenerateSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ValidateDatabaseURL checks that the value looks like a PostgreSQL URL.
func ValidateDatabaseURL(value string) error {
	if strings.HasPrefix(value, "postgresql://") || strings.HasPrefix(value, "postgres://") {
		return nil
	}
	return fmt.Errorf("please enter a valid PostgreSQL URL (postgresql:// or postgres://)")
}

// WriteEnvFile writes the project's .env. Secrets that the config leaves
// empty are generated here.
func WriteEnvFile(projectDir string, cfg EnvConfig) error {
	secret := cfg.ExtensionSecret
	if secret == "" {
		generated, err := GenerateSecret()
		if err != nil {
			return err
		}
		secret = generated
	}

	encryptionKey, err := GenerateSecret()
	if err != nil {
		return err
	}

	extensionID := cfg.ExtensionID
	if extensionID == "" {
		extensionID = extensionIDPlaceholder
	}

	values := map[string]string{
		"DATABASE_URL":                cfg.DatabaseURL,
		"PRISMA_FIELD_ENCRYPTION_KEY": encryptionKey,
		"EXTENSION_ID":                extensionID,
		"EXTENSION_SECRET":            secret,
		"MITTWALD_CUSTOMER_ID":        cfg.CustomerID,
		"EXTENSION_CONTEXT":           cfg.ExtensionContext,
		"EXTENSION_CONTEXT_ID":        cfg.ContextID,
		"EXTENSION_ANCHOR_URL":        cfg.AnchorURL,
		"NODE_ENV":                    "development",
	}

	if err = godotenv.Write(values, filepath.Join(projectDir, envFileName)); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	return nil
}

// SetEnvValue updates a single key in the project's .env, preserving the
// other entries. Used to fill in EXTENSION_ID after the operator created the
// extension in mStudio.
func SetEnvValue(projectDir, key, value string) error {
	path := filepath.Join(projectDir, envFileName)
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read .env: %w", err)
	}
	values[key] = value
	if err = godotenv.Write(values, path); err != nil {
		return fmt.Errorf("update .env: %w", err)
	}
	return nil
}

// AnchorURL returns the mStudio menu anchor for the chosen extension context.
func AnchorURL(extensionContext string) string {
	if extensionContext == "customer" {
		return "/customers/customer/menu/section/extensions/item"
	}
	return "/projects/project/menu/section/extensions/item"
}
