package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/auth"
	"github.com/weissaufschwarz/mittvibes/internal/config"
	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// LoginOptions controls the login command's behavior.
type LoginOptions struct {
	// NoBrowser suppresses the automatic browser launch; the operator
	// copies the displayed URL instead.
	NoBrowser bool
}

// DoLogin runs the OAuth login flow. An already-authenticated vault makes it
// a no-op.
func DoLogin(ctx context.Context, settings *config.Settings, v *vault.Vault, options *LoginOptions) error {
	if options == nil {
		options = &LoginOptions{}
	}

	if v.IsAuthenticated() {
		fmt.Println("✓ Already authenticated.")
		fmt.Println("To re-authenticate, run 'mittvibes auth logout' first.")
		return nil
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Starting OAuth authentication..."
	s.Start()
	defer s.Stop()

	flow := auth.NewFlow(settings, v)
	flow.Notify = func(message string) {
		s.Stop()
		fmt.Printf("\n%s\n\n", message)
		s.Suffix = " Waiting for authentication..."
		s.Start()
	}
	if options.NoBrowser {
		flow.OpenURL = func(string) error {
			// Manual mode: the URL was already printed by Notify.
			return nil
		}
	}

	if err := flow.Login(ctx); err != nil {
		s.Stop()
		log.Debugf("login failed: %v", err)
		fmt.Printf("\n✗ %s\n", auth.GetUserFriendlyMessage(err))
		return err
	}

	s.Stop()
	fmt.Println("\n✓ Authentication successful!")
	return nil
}
