// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the credctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credctl",
		Short: "Userhub credential tooling",
		Long: `credctl hashes passwords, issues and verifies access tokens,
runs schema migrations and creates accounts without going through the API.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewHashPasswordCmd())
	cmd.AddCommand(NewIssueTokenCmd())
	cmd.AddCommand(NewVerifyTokenCmd())
	cmd.AddCommand(NewCreateUserCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// # Shared Helpers

// tokenSettings is the token subset of the server configuration.
type tokenSettings struct {
	Secret          string   `env:"TOKEN_SECRET,required"`
	PreviousSecrets []string `env:"TOKEN_PREVIOUS_SECRETS" envSeparator:","`
}

// databaseSettings is the storage subset of the server configuration.
type databaseSettings struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"12"`
}

// cliLogger writes warnings and errors to the command's stderr.
func cliLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// readSecret reads the first line of in without its line terminator.
func readSecret(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password on stdin")
	}
	return line, nil
}
