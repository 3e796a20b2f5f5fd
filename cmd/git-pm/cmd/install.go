// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/engine"
	"github.com/Warrenn/git-pm/pkg/installer"
)

var (
	installNoDeps      bool
	installNoGitignore bool
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install every package declared in the manifest",
		Long: `install resolves the full dependency graph rooted at git-pm.yaml (and
git-pm.local.yaml, if present), materializes every package into the
packages directory, and regenerates the environment file and .gitignore
section.`,
		RunE: runInstall,
	}

	cmd.Flags().BoolVar(&installNoDeps, "no-resolve-deps", false, "install only the root manifest's direct entries, without recursing into their own manifests")
	cmd.Flags().BoolVar(&installNoGitignore, "no-gitignore", false, "do not maintain the .gitignore section")

	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	e, err := engine.New(resolveWorkDir(), logger(), eventPrinter(cmd))
	if err != nil {
		return err
	}

	result, err := e.Install(cmd.Context(), engine.InstallOptions{
		Recursive:   !installNoDeps,
		NoGitignore: installNoGitignore,
	})
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), cliutil.RenderSummary(result.Summary))
	}
	return nil
}

// eventPrinter adapts a cobra command's writer into an installer.Events,
// printing one styled line per event when --verbose is set, nothing when
// --quiet is set.
func eventPrinter(cmd *cobra.Command) installer.Events {
	if quiet {
		return installer.NoopEvents{}
	}
	if !verbose {
		return installer.NoopEvents{}
	}
	return cliutil.ProgressWriter{W: cmd.OutOrStdout()}
}
