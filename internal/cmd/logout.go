package cmd

import (
	"fmt"

	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// DoLogout removes the stored credentials. Logging out while not logged in
// is a no-op.
func DoLogout(v *vault.Vault) error {
	wasAuthenticated := v.IsAuthenticated()

	if err := v.ClearAuth(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if wasAuthenticated {
		fmt.Println("✓ Logged out successfully.")
	} else {
		fmt.Println("You were not logged in.")
	}
	return nil
}
