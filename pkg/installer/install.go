// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package installer

import (
	"os"
	"path/filepath"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/pkg/depgraph"
	"github.com/Warrenn/git-pm/pkg/manifest"
)

// LinksDirName is the per-package directory holding that package's own
// dependency links, mirroring the root workspace's packages directory one
// level down: "<pkg>/.git-packages/<dep>".
const LinksDirName = ".git-packages"

// Installer performs a two-pass materialize-then-wire install.
type Installer struct {
	packagesDir string
	events      Events
	strategy    LinkStrategy
}

// New creates an Installer rooted at packagesDir. The link strategy is
// probed once against packagesDir and reused for the whole run.
func New(packagesDir string, events Events) (*Installer, error) {
	if events == nil {
		events = NoopEvents{}
	}
	if err := os.MkdirAll(packagesDir, 0o755); err != nil {
		return nil, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create packages directory", "path", packagesDir)
	}
	strategy, err := ProbeLinkStrategy(packagesDir)
	if err != nil {
		return nil, err
	}
	return &Installer{packagesDir: packagesDir, events: events, strategy: strategy}, nil
}

// Install materializes every resolved package into the packages directory
// (pass 1), then wires each package's direct-dependency links beneath it
// (pass 2).
func (in *Installer) Install(result depgraph.Result) (Summary, error) {
	var summary Summary

	for _, name := range result.Order {
		pkg := result.Packages[name]
		dest := filepath.Join(in.packagesDir, name)

		in.events.OnEvent(Event{Kind: EventInstalling, Package: name})

		if err := removeExisting(dest); err != nil {
			return summary, err
		}

		source := materializeSource(pkg)

		if pkg.Spec.Kind == manifest.SourceLocal {
			used, err := Link(in.strategy, dest, source)
			if err != nil {
				return summary, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "materialize package", "package", name, "path", dest)
			}
			summary.Installed++
			if used == StrategyCopy && in.strategy != StrategyCopy {
				summary.Fallbacks++
				in.events.OnEvent(Event{Kind: EventFallbackUsed, Package: name, Detail: string(used)})
			}
		} else {
			if err := copyTreeSkippingGitDir(source, dest); err != nil {
				return summary, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "materialize package", "package", name, "path", dest)
			}
			summary.Installed++
		}
		in.events.OnEvent(Event{Kind: EventCopied, Package: name, Detail: dest})
	}

	for _, name := range result.Order {
		pkg := result.Packages[name]
		if len(pkg.DirectDeps) == 0 {
			continue
		}

		linksDir := filepath.Join(in.packagesDir, name, LinksDirName)
		if err := os.MkdirAll(linksDir, 0o755); err != nil {
			return summary, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create package links directory", "package", name)
		}

		for _, depName := range pkg.DirectDeps {
			linkPath := filepath.Join(linksDir, depName)
			target := filepath.Join(in.packagesDir, depName)

			if err := os.RemoveAll(linkPath); err != nil {
				return summary, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "clear existing dependency link", "package", name, "path", linkPath)
			}

			used, err := Link(in.strategy, linkPath, target)
			if err != nil {
				return summary, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "wire dependency link", "package", name, "path", linkPath)
			}

			summary.Linked++
			if used == StrategyCopy && in.strategy != StrategyCopy {
				summary.Fallbacks++
				in.events.OnEvent(Event{Kind: EventFallbackUsed, Package: depName, Detail: string(used)})
			}
			in.events.OnEvent(Event{Kind: EventLinked, Package: name, Detail: depName})
		}
	}

	return summary, nil
}

// materializeSource returns the filesystem path an installed package should
// be linked from or copied from: the sparse-checked-out subtree's path for
// a Git source, or the declared directory for a Local source.
func materializeSource(pkg depgraph.ResolvedPackage) string {
	if pkg.Spec.Kind == manifest.SourceLocal {
		return pkg.Spec.LocalPath
	}
	if pkg.Spec.Path == "" {
		return pkg.MaterializedPath
	}
	return filepath.Join(pkg.MaterializedPath, pkg.Spec.Path)
}

// Remove deletes the install directories of the given package names
// (already filtered to those no longer reachable from any manifest) along
// with their own dependency-link directories.
func (in *Installer) Remove(names []string) (Summary, error) {
	var summary Summary
	for _, name := range names {
		dest := filepath.Join(in.packagesDir, name)
		if err := removeExisting(dest); err != nil {
			return summary, err
		}
		summary.Removed++
		in.events.OnEvent(Event{Kind: EventRemoved, Package: name})
	}
	return summary, nil
}
