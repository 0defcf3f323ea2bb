// Package cmd implements the CLI commands on top of the auth core, the API
// client and the scaffolder. The cobra wiring in cmd/mittvibes calls into
// this package.
package cmd

// AuthRequiredError signals that a command needs authentication and none is
// stored. The root command maps it to a dedicated exit code.
type AuthRequiredError struct{}

// Error implements the error interface.
func (e *AuthRequiredError) Error() string {
	return "authentication required, please run 'mittvibes auth login' first"
}
