// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package workspace

import (
	"github.com/Warrenn/git-pm/pkg/installer"
)

// Orphans returns the names present in before but absent from after, i.e.
// the packages that dropped out of the resolved set after a manifest edit
// and re-discovery: remove from the manifest, re-resolve on the survivors,
// then delete whatever is no longer reachable.
func Orphans(before, after map[string]bool) []string {
	var orphans []string
	for name := range before {
		if !after[name] {
			orphans = append(orphans, name)
		}
	}
	return orphans
}

// CascadeRemove deletes the install directories (and their own dependency
// links, which live underneath them) for every name in before that is
// absent from after.
func CascadeRemove(in *installer.Installer, before, after map[string]bool) (installer.Summary, error) {
	return in.Remove(Orphans(before, after))
}
