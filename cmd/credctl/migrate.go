// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/userhub/internal/platform/migration"
)

// NewMigrateCmd creates the migrate subcommand group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE:  runMigrateVersion,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	settings, err := env.ParseAs[databaseSettings]()
	if err != nil {
		return fmt.Errorf("credctl_migrate_up_failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
	if err := migration.RunUp(settings.DatabaseURL, settings.MigrationPath, cliLogger(cmd)); err != nil {
		return fmt.Errorf("credctl_migrate_up_failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	settings, err := env.ParseAs[databaseSettings]()
	if err != nil {
		return fmt.Errorf("credctl_migrate_version_failed: %w", err)
	}

	version, isDirty, err := migration.Version(settings.DatabaseURL, settings.MigrationPath, cliLogger(cmd))
	if err != nil {
		return fmt.Errorf("credctl_migrate_version_failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, isDirty)
	return nil
}
