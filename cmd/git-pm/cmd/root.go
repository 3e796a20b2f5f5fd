// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package cmd implements the CLI commands for git-pm.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/internal/gitpmlog"
	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/manifest"
)

var (
	appVersion string

	verbose bool
	quiet   bool
	workDir string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "git-pm",
	Short: "A git-backed package manager",
	Long: `git-pm installs packages declared in a manifest straight from git repositories,
each pinned to a tag, branch, or commit, with no central registry involved.
` + cliutil.QuickStartHelp(`  # Install everything declared in git-pm.yaml
  git-pm install

  # Add a new dependency and install it
  git-pm add widget --repo github.com/acme/widget --ref-type tag --ref-value v1.2.0

  See 'git-pm config --help' for configuration reference.`),
	Version:      appVersion,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func logger() gitpmlog.Logger {
	if quiet {
		return gitpmlog.Noop()
	}
	if verbose {
		return gitpmlog.New(os.Stderr)
	}
	return gitpmlog.Noop()
}

// Execute adds all child commands to the root command, runs it, and maps
// any returned error to the process exit code via gitpmerr.ExitCode.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	rootCmd.SetUsageTemplate(usageTemplate)
	setCommandGroups(rootCmd)
	applySilenceRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		var malformed *manifest.ErrManifestMalformed
		if errors.As(err, &malformed) {
			err = gitpmerr.Wrap(gitpmerr.KindManifestMalformed, err, malformed.Error())
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(gitpmerr.ExitCode(err))
	}
}

func setCommandGroups(cmd *cobra.Command) {
	coreGroup := &cobra.Group{ID: "core", Title: cliutil.ColorYellowBold + "Package Operations" + cliutil.ColorReset}
	mgmtGroup := &cobra.Group{ID: "mgmt", Title: cliutil.ColorYellowBold + "Configuration" + cliutil.ColorReset}

	cmd.AddGroup(coreGroup, mgmtGroup)

	for _, c := range cmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		switch c.Name() {
		case "install", "add", "remove", "clean", "list":
			c.GroupID = coreGroup.ID
		case "config":
			c.GroupID = mgmtGroup.ID
		}
	}
}

// applySilenceRecursive sets SilenceUsage/SilenceErrors on every command:
// cobra does not propagate these to children, so a runtime error from a
// subcommand would otherwise dump a usage block ahead of the real message.
func applySilenceRecursive(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	for _, c := range cmd.Commands() {
		applySilenceRecursive(c)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", "", "workspace directory (default: current directory)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(
		newInstallCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newCleanCmd(),
		newConfigCmd(),
		newListCmd(),
	)
}

const usageTemplate = `{{if .Runnable}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

` + cliutil.ColorGreenBold + `Examples:` + cliutil.ColorReset + `
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

` + cliutil.ColorMagentaBold + `Additional Commands:` + cliutil.ColorReset + `{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

` + cliutil.ColorGreenBold + `Flags:` + cliutil.ColorReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

` + cliutil.ColorGreenBold + `Global Flags:` + cliutil.ColorReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
