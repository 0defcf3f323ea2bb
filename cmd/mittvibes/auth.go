package main

import (
	"github.com/spf13/cobra"

	"github.com/weissaufschwarz/mittvibes/internal/cmd"
)

// newAuthCmd builds the `mittvibes auth` command group.
func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication with mittwald",
	}

	var noBrowser bool

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with your mittwald account",
		Long: `Authenticate with your mittwald account using the OAuth2 browser flow.

The command starts a short-lived local callback server, opens the mittwald
authorization page in your browser and stores the resulting access token in
the encrypted credential store.`,
		RunE: func(c *cobra.Command, _ []string) error {
			settings, v, err := loadEnvironment()
			if err != nil {
				return err
			}
			return cmd.DoLogin(c.Context(), settings, v, &cmd.LoginOptions{NoBrowser: noBrowser})
		},
	}
	loginCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, v, err := loadEnvironment()
			if err != nil {
				return err
			}
			return cmd.DoLogout(v)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current authentication status",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, v, err := loadEnvironment()
			if err != nil {
				return err
			}
			return cmd.DoStatus(v)
		},
	}

	authCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	return authCmd
}
