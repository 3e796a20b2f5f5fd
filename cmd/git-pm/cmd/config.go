// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/pkg/config"
)

var configGlobal bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit git-pm configuration",
	}
	cmd.PersistentFlags().BoolVar(&configGlobal, "global", false, "operate on the user-scope config file instead of the project one")

	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigUnsetCmd(), newConfigListCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a key's raw value from one scope's config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.PathForScope(configGlobal, resolveWorkDir())
			if err != nil {
				return err
			}
			value, err := config.Get(path, args[0])
			if err != nil {
				return mapConfigErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key in one scope's config file",
		Args:  cobra.ExactArgs(2),
		Long: `For git_protocol and url_patterns, value must be "host=value", e.g.
git-pm config set url_patterns "github.com=https://mirror.internal/{path}"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.PathForScope(configGlobal, resolveWorkDir())
			if err != nil {
				return err
			}
			if err := config.Set(path, args[0], args[1]); err != nil {
				return mapConfigErr(err)
			}
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key from one scope's config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.PathForScope(configGlobal, resolveWorkDir())
			if err != nil {
				return err
			}
			if err := config.Unset(path, args[0]); err != nil {
				return mapConfigErr(err)
			}
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration and which scope set each key",
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, err := (config.Loader{ProjectDir: resolveWorkDir()}).Load()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")

			keys := make([]string, 0, len(eff.Sources))
			for k := range eff.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, key := range keys {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, effectiveValue(eff, key), eff.Sources[key])
			}
			return tw.Flush()
		},
	}
}

func effectiveValue(eff config.Effective, key string) string {
	switch key {
	case "packages_dir":
		return eff.PackagesDir
	case "cache_dir":
		return eff.CacheDir
	case "git_protocol":
		return fmt.Sprintf("%v", eff.GitProtocol)
	case "url_patterns":
		return fmt.Sprintf("%v", eff.URLPatterns)
	case "azure_devops_pat":
		if eff.AzureDevopsPat == "" {
			return ""
		}
		return "***"
	default:
		return ""
	}
}

func mapConfigErr(err error) error {
	if _, ok := err.(*config.ErrUnknownKey); ok {
		return gitpmerr.Wrap(gitpmerr.KindUnknownConfigKey, err, "unrecognized configuration key")
	}
	return err
}
