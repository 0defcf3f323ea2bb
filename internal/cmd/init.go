package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	log "github.com/sirupsen/logrus"

	"github.com/weissaufschwarz/mittvibes/internal/api"
	"github.com/weissaufschwarz/mittvibes/internal/auth"
	"github.com/weissaufschwarz/mittvibes/internal/config"
	"github.com/weissaufschwarz/mittvibes/internal/scaffold"
	"github.com/weissaufschwarz/mittvibes/internal/vault"
	"github.com/weissaufschwarz/mittvibes/internal/wizard"
)

// DoInit runs the project scaffolding wizard and generates a new extension
// project in the current working directory.
func DoInit(ctx context.Context, settings *config.Settings, v *vault.Vault) error {
	session := auth.NewSession(v)
	if !session.IsAuthenticated() {
		return &AuthRequiredError{}
	}

	client := api.NewClient(settings.APIBaseURL, session)

	customers, err := fetchOrganizations(ctx, client)
	if err != nil {
		return err
	}
	if len(customers) == 0 {
		return fmt.Errorf("no organizations found: make sure your account has access to at least one organization")
	}

	plan, err := wizard.Run(ctx, client, customers)
	if err != nil {
		if errors.Is(err, wizard.ErrAborted) {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}

	if plan.Mode == wizard.ModeExisting {
		fmt.Println("\n📁 Please navigate to your existing project directory and continue from there.")
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	projectPath := filepath.Join(cwd, plan.ProjectName)

	if err = downloadProject(ctx, settings.TemplateURL, projectPath, plan.ProjectName); err != nil {
		return err
	}

	if plan.InstallDeps {
		fmt.Println("\n📥 Installing dependencies with pnpm...")
		if errInstall := scaffold.InstallDependencies(ctx, projectPath); errInstall != nil {
			log.Warnf("dependency installation failed: %v", errInstall)
			fmt.Println("Please run \"pnpm install\" manually in your project directory.")
		}
	}

	if err = writeProjectEnv(projectPath, plan); err != nil {
		return err
	}

	if plan.SetupDatabase && plan.InstallDeps && plan.RunMigration {
		fmt.Println("\n🗄  Setting up the database...")
		if errMigrate := scaffold.RunMigrations(ctx, projectPath); errMigrate != nil {
			log.Warnf("database setup failed: %v", errMigrate)
			fmt.Println("Please run \"pnpm db:generate\" and \"pnpm db:migrate:deploy\" manually.")
		}
	}

	printManualSteps(plan)

	if err = promptExtensionID(ctx, projectPath); err != nil {
		return err
	}

	fmt.Printf("\n📁 Your project is ready at: %s\n", projectPath)
	fmt.Printf("\nNext steps:\n  cd %s\n  pnpm dev\n\n", plan.ProjectName)
	return nil
}

// fetchOrganizations loads the operator's organizations with contributor
// status under a spinner.
func fetchOrganizations(ctx context.Context, client *api.Client) ([]api.Customer, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching your organizations..."
	s.Start()
	defer s.Stop()

	return client.ListCustomersWithContributorStatus(ctx)
}

// downloadProject fetches and extracts the template, then renames the npm
// package after the new project.
func downloadProject(ctx context.Context, templateURL, projectPath, projectName string) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Downloading project template..."
	s.Start()
	defer s.Stop()

	if err := scaffold.DownloadTemplate(ctx, templateURL, projectPath); err != nil {
		return err
	}
	if err := scaffold.RenamePackage(projectPath, projectName); err != nil {
		return err
	}

	s.Stop()
	fmt.Println("✓ Project structure created!")
	return nil
}

// writeProjectEnv writes the generated project's .env from the wizard plan.
func writeProjectEnv(projectPath string, plan wizard.Plan) error {
	err := scaffold.WriteEnvFile(projectPath, scaffold.EnvConfig{
		DatabaseURL:      plan.DatabaseURL,
		CustomerID:       plan.CustomerID,
		ExtensionContext: plan.ExtensionContext,
		ContextID:        plan.ContextID,
		AnchorURL:        scaffold.AnchorURL(plan.ExtensionContext),
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ .env file created in %s/\n", filepath.Base(projectPath))
	return nil
}

// printManualSteps explains the mStudio side of the setup that the CLI
// cannot automate.
func printManualSteps(plan wizard.Plan) {
	anchor := scaffold.AnchorURL(plan.ExtensionContext)

	fmt.Println("\n🎯 Extension Development Setup")
	fmt.Println("\nRequired manual steps:")
	fmt.Println("1. Create the extension in the mStudio contributor UI:")
	fmt.Println("   • Navigate to \"Entwicklung\" in your organization")
	fmt.Println("   • Create a new extension and copy the EXTENSION_ID")
	fmt.Printf("   • Set the extension context to: %s\n", plan.ExtensionContext)
	fmt.Printf("   • Set the anchor URL to: %s\n", anchor)
	fmt.Println("   • Leave scopes empty for now")
	fmt.Println("   • Set the webhook URL to your public endpoint")
	fmt.Println("2. Expose your extension to the internet (e.g. ngrok, cloudflared)")
}

// promptExtensionID asks for the EXTENSION_ID created in mStudio and stores
// it in the project's .env. Skipping the prompt keeps the placeholder.
func promptExtensionID(ctx context.Context, projectPath string) error {
	extensionID, err := wizard.PromptInput(
		ctx,
		"🔑 Extension ID",
		"Enter your EXTENSION_ID (from mStudio):",
		"ext-...",
		func(value string) error {
			if value == "" {
				return fmt.Errorf("EXTENSION_ID is required")
			}
			return nil
		},
	)
	if err != nil {
		if errors.Is(err, wizard.ErrAborted) {
			fmt.Println("Skipped. Update EXTENSION_ID in your .env file manually.")
			return nil
		}
		return err
	}

	if err = scaffold.SetEnvValue(projectPath, "EXTENSION_ID", extensionID); err != nil {
		return err
	}
	fmt.Println("✓ Extension configuration saved to .env file")
	return nil
}
