package scaffold

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
)

// projectNamePattern restricts names to what npm and directory names accept.
var projectNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateProjectName reports whether name is usable as a project name.
func ValidateProjectName(name string) error {
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("project name can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}

// RenamePackage sets the name field of the project's package.json.
func RenamePackage(projectDir, name string) error {
	path := filepath.Join(projectDir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read package.json: %w", err)
	}

	updated, err := sjson.SetBytes(data, "name", name)
	if err != nil {
		return fmt.Errorf("update package.json: %w", err)
	}

	if err = os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("write package.json: %w", err)
	}
	return nil
}

// InstallDependencies runs `pnpm install` in the project directory. The
// command's output is passed through to the terminal.
func InstallDependencies(ctx context.Context, projectDir string) error {
	return runPnpm(ctx, projectDir, "install")
}

// RunMigrations generates the Prisma client and applies the initial
// migration using the template's package scripts.
func RunMigrations(ctx context.Context, projectDir string) error {
	if err := runPnpm(ctx, projectDir, "db:generate"); err != nil {
		return err
	}
	return runPnpm(ctx, projectDir, "db:migrate:deploy")
}

func runPnpm(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "pnpm", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debugf("running pnpm %v in %s", args, dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pnpm %v failed: %w", args, err)
	}
	return nil
}
