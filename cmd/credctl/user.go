// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/userhub/internal/platform/postgres"
	"github.com/taibuivan/userhub/internal/platform/sec"
	"github.com/taibuivan/userhub/internal/users/auth"
)

// NewCreateUserCmd creates the create-user subcommand.
func NewCreateUserCmd() *cobra.Command {
	var input auth.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account directly in the database",
		Long: `Create an account with the same validation as the API. The password
is read from stdin. Use this to bootstrap the first account, since the
create endpoint itself requires a token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("credctl_create_user_read_failed: %w", err)
			}
			input.Password = password
			input = input.Normalize()
			if err := input.Validate(); err != nil {
				return fmt.Errorf("credctl_create_user_invalid: %w", err)
			}

			settings, err := env.ParseAs[databaseSettings]()
			if err != nil {
				return fmt.Errorf("credctl_create_user_failed: %w", err)
			}
			hasher, err := sec.NewHasher(settings.BcryptCost)
			if err != nil {
				return fmt.Errorf("credctl_create_user_failed: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			logger := cliLogger(cmd)
			pool, err := postgres.NewPool(ctx, settings.DatabaseURL, logger)
			if err != nil {
				return fmt.Errorf("credctl_create_user_connect_failed: %w", err)
			}
			defer pool.Close()

			// Enrollment never signs, so Login on this service reports ErrNoTokenIssuer.
			service := auth.NewService(auth.NewPostgresUserStore(pool), hasher, nil, logger)
			user, err := service.CreateUser(ctx, input)
			if err != nil {
				return fmt.Errorf("credctl_create_user_failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user id=%d username=%s\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "login name")
	cmd.Flags().StringVar(&input.Firstname, "firstname", "", "first name")
	cmd.Flags().StringVar(&input.Lastname, "lastname", "", "last name")
	for _, name := range []string{"username", "firstname", "lastname"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
