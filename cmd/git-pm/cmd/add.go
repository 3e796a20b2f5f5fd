// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/engine"
	"github.com/Warrenn/git-pm/pkg/manifest"
)

var (
	addRepo     string
	addPath     string
	addRefType  string
	addRefValue string
	addLocal    string
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a package to the manifest and install it",
		Args:  cobra.ExactArgs(1),
		Long: `add inserts or replaces one entry in git-pm.yaml, then runs the same
resolution and install pipeline as 'git-pm install'.

A package is either a Git source (--repo, optionally --path/--ref-type/
--ref-value) or a Local source (--local), never both.`,
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addRepo, "repo", "", "repository identifier, e.g. github.com/acme/widget")
	cmd.Flags().StringVar(&addPath, "path", "", "subdirectory within the repository to sparse-checkout")
	cmd.Flags().StringVar(&addRefType, "ref-type", "branch", "tag, branch, or commit")
	cmd.Flags().StringVar(&addRefValue, "ref-value", "", "the tag name, branch name, or commit sha")
	cmd.Flags().StringVar(&addLocal, "local", "", "path to a local package directory, instead of a git source")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	spec, err := buildAddSpec(name)
	if err != nil {
		return err
	}

	e, err := engine.New(resolveWorkDir(), logger(), eventPrinter(cmd))
	if err != nil {
		return err
	}

	result, err := e.Add(cmd.Context(), spec, engine.InstallOptions{Recursive: true})
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", name)
		fmt.Fprintln(cmd.OutOrStdout(), cliutil.RenderSummary(result.Summary))
	}
	return nil
}

func buildAddSpec(name string) (manifest.PackageSpec, error) {
	if addLocal != "" {
		if addRepo != "" || addRefValue != "" {
			return manifest.PackageSpec{}, fmt.Errorf("--local cannot be combined with --repo/--ref-value")
		}
		return manifest.PackageSpec{Name: name, Kind: manifest.SourceLocal, LocalPath: addLocal}, nil
	}

	if addRepo == "" {
		return manifest.PackageSpec{}, fmt.Errorf("either --repo or --local is required")
	}
	if addRefValue == "" {
		return manifest.PackageSpec{}, fmt.Errorf("--ref-value is required for a git source")
	}

	return manifest.NewGitSpec(name, addRepo, addPath, addRefType, addRefValue)
}
