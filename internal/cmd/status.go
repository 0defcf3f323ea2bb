package cmd

import (
	"fmt"

	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// DoStatus prints whether the CLI holds valid-looking credentials.
func DoStatus(v *vault.Vault) error {
	auth := v.GetAuth()
	if auth == nil || auth.AccessToken == "" {
		fmt.Println("✗ Not authenticated.")
		fmt.Println("Run 'mittvibes auth login' to authenticate.")
		return nil
	}

	fmt.Println("✓ Authenticated.")
	if auth.UserID != "" {
		fmt.Printf("  User:         %s\n", auth.UserID)
	}
	if auth.OrganizationID != "" {
		fmt.Printf("  Organization: %s\n", auth.OrganizationID)
	}
	return nil
}
