// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/engine"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a package from the manifest and cascade its cleanup",
		Args:  cobra.ExactArgs(1),
		Long: `remove deletes one entry from git-pm.yaml, re-resolves the remaining
dependency graph, and deletes any package directories that are no longer
reachable from any manifest.`,
		RunE: runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	e, err := engine.New(resolveWorkDir(), logger(), eventPrinter(cmd))
	if err != nil {
		return err
	}

	result, err := e.Remove(cmd.Context(), name, engine.InstallOptions{Recursive: true})
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", name)
		fmt.Fprintln(cmd.OutOrStdout(), cliutil.RenderSummary(result.Summary))
	}
	return nil
}
