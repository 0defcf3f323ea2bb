package main

import (
	"github.com/spf13/cobra"

	"github.com/weissaufschwarz/mittvibes/internal/cmd"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new mittwald extension project",
		Long: `Scaffold a new mittwald extension project.

Walks you through selecting an organization, choosing the extension context
and downloading the project template. Requires a prior ` + "`mittvibes auth login`" + `.`,
		RunE: func(c *cobra.Command, _ []string) error {
			settings, v, err := loadEnvironment()
			if err != nil {
				return err
			}
			return cmd.DoInit(c.Context(), settings, v)
		},
	}
}
