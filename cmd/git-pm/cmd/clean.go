// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/engine"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove every installed package and the environment file",
		Long: `clean deletes the entire packages directory contents and the generated
environment file. The manifest and cache directory are left untouched; the
next 'git-pm install' rebuilds everything from cache.`,
		RunE: runClean,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	e, err := engine.New(resolveWorkDir(), logger(), eventPrinter(cmd))
	if err != nil {
		return err
	}

	summary, err := e.Clean(cmd.Context())
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "cleaned")
		fmt.Fprintln(cmd.OutOrStdout(), cliutil.RenderSummary(summary))
	}
	return nil
}
