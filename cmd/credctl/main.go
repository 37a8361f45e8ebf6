// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command credctl is the operator tool for Userhub credentials.
//
// It hashes passwords, issues and inspects access tokens, applies schema
// migrations and bootstraps accounts directly against the database.
package main

import (
	"os"

	"github.com/taibuivan/userhub/internal/platform/constants"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = constants.AppVersion

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
