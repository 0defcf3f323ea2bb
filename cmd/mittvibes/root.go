package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weissaufschwarz/mittvibes/internal/auth"
	"github.com/weissaufschwarz/mittvibes/internal/cmd"
	"github.com/weissaufschwarz/mittvibes/internal/config"
	"github.com/weissaufschwarz/mittvibes/internal/logging"
	"github.com/weissaufschwarz/mittvibes/internal/vault"
)

// Exit codes. 13 for a blocked callback port follows the convention of other
// OAuth CLIs so scripts can distinguish it from generic failures.
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeAuthRequired = 2
	ExitCodePortInUse    = 13
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mittvibes",
	Short: "Scaffold mittwald extension projects",
	Long: `mittvibes creates ready-to-run mittwald extension projects: it
authenticates you against mittwald, lets you pick the organization and
context for your extension, downloads the project template and wires up
the local configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logging.SetLevel("debug")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newInitCmd())
}

// Execute runs the CLI and exits with a semantic exit code.
func Execute(ctx context.Context) {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{printf "mittvibes version %s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps known error types to their exit codes.
func getExitCode(err error) int {
	var authRequired *cmd.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}
	if errors.Is(err, auth.ErrPortInUse) {
		return ExitCodePortInUse
	}
	if errors.Is(err, auth.ErrSessionExpired) {
		return ExitCodeAuthRequired
	}
	return ExitCodeError
}

// loadEnvironment resolves the settings and opens the vault.
func loadEnvironment() (*config.Settings, *vault.Vault, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if !verbose {
		logging.SetLevel(settings.LogLevel)
	}

	v, err := vault.New()
	if err != nil {
		return nil, nil, err
	}
	return settings, v, nil
}
