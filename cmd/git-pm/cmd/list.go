// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Warrenn/git-pm/pkg/cliutil"
	"github.com/Warrenn/git-pm/pkg/engine"
)

var listFormat string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the resolved dependency graph without installing",
		RunE:  runList,
	}
	cmd.Flags().StringVar(&listFormat, "format", "default", "output format: default, json")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := cliutil.ValidateFormat(listFormat, []string{"default", "json"}); err != nil {
		return err
	}

	e, err := engine.New(resolveWorkDir(), logger(), nil)
	if err != nil {
		return err
	}

	result, err := e.Resolve(cmd.Context(), true)
	if err != nil {
		return err
	}

	if listFormat == "json" {
		type row struct {
			Name      string   `json:"name"`
			Source    string   `json:"source"`
			Commit    string   `json:"commit"`
			DepsOf    []string `json:"direct_deps"`
			CachePath string   `json:"materialized_path"`
		}
		rows := make([]row, 0, len(result.Order))
		for _, name := range result.Order {
			pkg := result.Packages[name]
			rows = append(rows, row{
				Name:      pkg.Name,
				Source:    string(pkg.Spec.Kind),
				Commit:    pkg.CommitSHA,
				DepsOf:    pkg.DirectDeps,
				CachePath: pkg.MaterializedPath,
			})
		}
		return cliutil.WriteJSON(cmd.OutOrStdout(), rows, true)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tREF\tCOMMIT")
	for _, name := range result.Order {
		pkg := result.Packages[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pkg.Name, pkg.Spec.Kind, pkg.ResolvedRef, shortCommit(pkg.CommitSHA))
	}
	return tw.Flush()
}

func shortCommit(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
