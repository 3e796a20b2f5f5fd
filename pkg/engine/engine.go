// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package engine wires the config, manifest, dependency, cache, installer,
// and workspace layers together into the install, add, remove, and clean
// pipelines the CLI drives.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Warrenn/git-pm/internal/gitcmd"
	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/internal/gitpmlog"
	"github.com/Warrenn/git-pm/pkg/cache"
	"github.com/Warrenn/git-pm/pkg/config"
	"github.com/Warrenn/git-pm/pkg/depgraph"
	"github.com/Warrenn/git-pm/pkg/installer"
	"github.com/Warrenn/git-pm/pkg/manifest"
	"github.com/Warrenn/git-pm/pkg/urlresolve"
	"github.com/Warrenn/git-pm/pkg/workspace"
)

// Engine is the top-level collaborator the CLI layer drives: one per
// invocation, rooted at a single workspace.
type Engine struct {
	WorkspaceRoot string
	Config        config.Effective
	Fetcher       *cache.Fetcher
	Logger        gitpmlog.Logger
	Events        installer.Events
}

// New resolves configuration for workspaceRoot and builds the
// collaborators every other operation needs.
func New(workspaceRoot string, logger gitpmlog.Logger, events installer.Events) (*Engine, error) {
	if logger == nil {
		logger = gitpmlog.Noop()
	}
	if events == nil {
		events = installer.NoopEvents{}
	}

	abs, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	eff, err := (config.Loader{ProjectDir: abs}).Load()
	if err != nil {
		return nil, err
	}

	exec := gitcmd.NewExecutor()
	env := urlresolve.NewEnvFromOSEnviron(os.Environ())
	fetcher := cache.New(exec, env, logger)

	return &Engine{
		WorkspaceRoot: abs,
		Config:        eff,
		Fetcher:       fetcher,
		Logger:        logger,
		Events:        events,
	}, nil
}

func (e *Engine) packagesDir() string {
	if filepath.IsAbs(e.Config.PackagesDir) {
		return e.Config.PackagesDir
	}
	return filepath.Join(e.WorkspaceRoot, e.Config.PackagesDir)
}

// InstallOptions controls one install run; the `install` and `add`
// commands share this pipeline.
type InstallOptions struct {
	Recursive   bool
	NoGitignore bool
}

// InstallResult summarizes one install run.
type InstallResult struct {
	Resolved depgraph.Result
	Summary  installer.Summary
}

// Resolve runs discovery without installing anything, for the `list`
// command.
func (e *Engine) Resolve(ctx context.Context, recursive bool) (depgraph.Result, error) {
	_, _, effective, err := manifest.LoadEffectiveRoot(e.WorkspaceRoot)
	if err != nil {
		return depgraph.Result{}, err
	}

	resolver := depgraph.New(e.Fetcher, e.Config.Config, e.Logger)
	return resolver.Discover(ctx, effective, recursive)
}

// Install loads the effective manifest, discovers the full dependency
// graph, materializes and wires it, then regenerates the environment file
// and .gitignore section.
func (e *Engine) Install(ctx context.Context, opts InstallOptions) (InstallResult, error) {
	_, _, effective, err := manifest.LoadEffectiveRoot(e.WorkspaceRoot)
	if err != nil {
		return InstallResult{}, err
	}

	resolver := depgraph.New(e.Fetcher, e.Config.Config, e.Logger)
	resolved, err := resolver.Discover(ctx, effective, opts.Recursive)
	if err != nil {
		return InstallResult{}, err
	}

	in, err := installer.New(e.packagesDir(), e.Events)
	if err != nil {
		return InstallResult{}, err
	}

	summary, err := in.Install(resolved)
	if err != nil {
		return InstallResult{}, err
	}

	if err := e.refreshWorkspaceFiles(resolved, opts.NoGitignore); err != nil {
		return InstallResult{}, err
	}

	return InstallResult{Resolved: resolved, Summary: summary}, nil
}

func (e *Engine) refreshWorkspaceFiles(resolved depgraph.Result, noGitignore bool) error {
	paths := make(map[string]string, len(resolved.Packages))
	for name := range resolved.Packages {
		paths[name] = filepath.Join(e.packagesDir(), name)
	}

	if err := workspace.WriteEnvFile(e.WorkspaceRoot, e.packagesDir(), paths); err != nil {
		return err
	}

	if !noGitignore {
		relPackagesDir, err := filepath.Rel(e.WorkspaceRoot, e.packagesDir())
		if err != nil {
			relPackagesDir = e.Config.PackagesDir
		}
		patterns := []string{relPackagesDir + "/", "/" + workspace.EnvFileName, "/" + manifest.OverrideFileName}
		if err := workspace.EnsureGitignoreEntries(e.WorkspaceRoot, patterns); err != nil {
			return err
		}
	}

	return nil
}

// Add appends or replaces a package spec in the root manifest, then
// re-installs the full graph.
func (e *Engine) Add(ctx context.Context, spec manifest.PackageSpec, opts InstallOptions) (InstallResult, error) {
	path := filepath.Join(e.WorkspaceRoot, manifest.FileName)
	if err := manifest.AddOrReplace(path, spec.Name, spec); err != nil {
		return InstallResult{}, err
	}
	return e.Install(ctx, opts)
}

// Remove deletes name from the root manifest, re-resolves the survivors,
// and cascades removal of anything no longer reachable.
func (e *Engine) Remove(ctx context.Context, name string, opts InstallOptions) (InstallResult, error) {
	_, _, before, err := manifest.LoadEffectiveRoot(e.WorkspaceRoot)
	if err != nil {
		return InstallResult{}, err
	}
	beforeResolver := depgraph.New(e.Fetcher, e.Config.Config, e.Logger)
	beforeResolved, err := beforeResolver.Discover(ctx, before, opts.Recursive)
	if err != nil {
		return InstallResult{}, err
	}

	path := filepath.Join(e.WorkspaceRoot, manifest.FileName)
	existed, err := manifest.Remove(path, name)
	if err != nil {
		return InstallResult{}, err
	}
	if !existed {
		return InstallResult{}, gitpmerr.New(gitpmerr.KindPackageNotInstalled, "package is not declared in the manifest", "package", name)
	}

	result, err := e.Install(ctx, opts)
	if err != nil {
		return InstallResult{}, err
	}

	beforeNames := map[string]bool{}
	for n := range beforeResolved.Packages {
		beforeNames[n] = true
	}
	afterNames := map[string]bool{}
	for n := range result.Resolved.Packages {
		afterNames[n] = true
	}

	in, err := installer.New(e.packagesDir(), e.Events)
	if err != nil {
		return InstallResult{}, err
	}
	cascadeSummary, err := workspace.CascadeRemove(in, beforeNames, afterNames)
	if err != nil {
		return InstallResult{}, err
	}
	result.Summary.Removed += cascadeSummary.Removed

	return result, nil
}

// Clean removes every installed package and the generated environment
// file, per the `clean` command.
func (e *Engine) Clean(ctx context.Context) (installer.Summary, error) {
	entries, err := os.ReadDir(e.packagesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return installer.Summary{}, nil
		}
		return installer.Summary{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "read packages directory", "path", e.packagesDir())
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	in, err := installer.New(e.packagesDir(), e.Events)
	if err != nil {
		return installer.Summary{}, err
	}
	summary, err := in.Remove(names)
	if err != nil {
		return installer.Summary{}, err
	}

	envPath := filepath.Join(e.WorkspaceRoot, workspace.EnvFileName)
	if err := os.Remove(envPath); err != nil && !os.IsNotExist(err) {
		return installer.Summary{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "remove environment file", "path", envPath)
	}
	return summary, nil
}
