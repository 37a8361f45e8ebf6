// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/userhub/internal/platform/sec"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin",
		Long: `Read one line from stdin and print its bcrypt hash. The hash can be
compared against stored credentials or inserted by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("credctl_hash_password_read_failed: %w", err)
			}
			if len(password) > sec.MaxPasswordBytes {
				return fmt.Errorf("credctl_hash_password_failed: password longer than %d bytes", sec.MaxPasswordBytes)
			}

			hasher, err := sec.NewHasher(cost)
			if err != nil {
				return fmt.Errorf("credctl_hash_password_failed: %w", err)
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("credctl_hash_password_failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", sec.DefaultHashCost, "bcrypt work factor")
	return cmd
}
