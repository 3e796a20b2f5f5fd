// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package main is the entry point for the git-pm CLI application.
package main

import (
	"github.com/Warrenn/git-pm/cmd/git-pm/cmd"
)

// version is set during build time via ldflags.
var version = "dev"

func main() {
	cmd.Execute(version)
}
