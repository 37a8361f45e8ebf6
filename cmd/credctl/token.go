// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/userhub/internal/platform/sec"
	"github.com/taibuivan/userhub/internal/users/auth"
)

func newTokenService() (*sec.TokenService, error) {
	settings, err := env.ParseAs[tokenSettings]()
	if err != nil {
		return nil, err
	}
	return sec.NewTokenService(settings.Secret, settings.PreviousSecrets)
}

// NewIssueTokenCmd creates the issue-token subcommand.
func NewIssueTokenCmd() *cobra.Command {
	var (
		subject    string
		timeToLive time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a signed access token",
		Long:  `Sign an access token for --subject with TOKEN_SECRET.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens, err := newTokenService()
			if err != nil {
				return fmt.Errorf("credctl_issue_token_failed: %w", err)
			}
			token, err := tokens.Issue(subject, timeToLive)
			if err != nil {
				return fmt.Errorf("credctl_issue_token_failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "username the token is issued to")
	cmd.Flags().DurationVar(&timeToLive, "ttl", auth.AccessTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// NewVerifyTokenCmd creates the verify-token subcommand.
func NewVerifyTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-token TOKEN",
		Short: "Check a token against the configured secrets",
		Long: `Verify TOKEN against TOKEN_SECRET and TOKEN_PREVIOUS_SECRETS and print
its subject and remaining validity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := newTokenService()
			if err != nil {
				return fmt.Errorf("credctl_verify_token_failed: %w", err)
			}
			principal, err := tokens.Verify(args[0])
			if err != nil {
				return fmt.Errorf("credctl_verify_token_rejected: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "subject: %s\nremaining: %s\n", principal.Subject, principal.RemainingValidity)
			return nil
		},
	}
}
