// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package depgraph implements recursive dependency discovery, branch
// pinning, cycle detection, and topological ordering.
package depgraph

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/internal/gitpmlog"
	"github.com/Warrenn/git-pm/pkg/cache"
	"github.com/Warrenn/git-pm/pkg/config"
	"github.com/Warrenn/git-pm/pkg/gitref"
	"github.com/Warrenn/git-pm/pkg/manifest"
)

// sentinelLocalCommit is the sentinel resolved_ref value for Local sources,
// never used as a cache key.
const sentinelLocalCommit = "local"

// ResolvedPackage is the outcome of discovery.
type ResolvedPackage struct {
	Name             string
	Spec             manifest.PackageSpec
	ResolvedRef      gitref.Ref
	OriginalRef      gitref.Ref
	CommitSHA        string
	DirectDeps       []string // ordered per discovery (insertion) order
	CacheKey         string
	MaterializedPath string
}

// Result is the full output of discovery: the resolved set plus a
// topological order (dependencies before dependents).
type Result struct {
	Packages map[string]ResolvedPackage
	Order    []string
}

// Resolver implements the recursive discovery algorithm that walks a
// manifest's package specs into a resolved, ordered dependency graph.
type Resolver struct {
	fetcher *cache.Fetcher
	cfg     config.Config
	logger  gitpmlog.Logger

	resolvedByName map[string]ResolvedPackage
	branchPins     map[string]string // "repo\x00branch" -> commit
	order          []string
}

// New creates a Resolver.
func New(fetcher *cache.Fetcher, cfg config.Config, logger gitpmlog.Logger) *Resolver {
	if logger == nil {
		logger = gitpmlog.Noop()
	}
	return &Resolver{
		fetcher:        fetcher,
		cfg:            cfg,
		logger:         logger,
		resolvedByName: map[string]ResolvedPackage{},
		branchPins:     map[string]string{},
	}
}

// Discover runs discovery starting from root's package specs, in root's
// manifest order. When recursive is false, only the direct root entries are
// materialized (no recursion into their nested manifests) — the
// `--no-resolve-deps` behavior of the install command.
func (r *Resolver) Discover(ctx context.Context, root manifest.Manifest, recursive bool) (Result, error) {
	for _, name := range root.Order {
		spec := root.Packages[name]
		if err := r.discover(ctx, spec, nil, recursive); err != nil {
			return Result{}, err
		}
	}

	return Result{Packages: r.resolvedByName, Order: r.order}, nil
}

func (r *Resolver) discover(ctx context.Context, spec manifest.PackageSpec, parentChain []string, recursive bool) error {
	for _, name := range parentChain {
		if name == spec.Name {
			chain := append(append([]string{}, parentChain...), spec.Name)
			return gitpmerr.New(gitpmerr.KindCircularDependency, fmt.Sprintf("cycle: %s", strings.Join(chain, " -> ")), "package", spec.Name)
		}
	}

	if existing, ok := r.resolvedByName[spec.Name]; ok {
		if !sameSource(existing.Spec, spec) {
			return gitpmerr.New(gitpmerr.KindPackageNameCollision,
				fmt.Sprintf("package %q claimed by two specs with differing sources", spec.Name), "package", spec.Name)
		}
		return nil
	}

	var (
		materialized string
		resolvedRef  gitref.Ref
		commitSHA    string
	)

	if spec.Kind == manifest.SourceLocal {
		abs := spec.LocalPath
		if _, err := os.Stat(abs); err != nil {
			return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "local package path does not exist", "package", spec.Name, "path", abs)
		}
		materialized = abs
		resolvedRef = gitref.NewCommit(sentinelLocalCommit)
		commitSHA = sentinelLocalCommit
	} else {
		ref := spec.Ref
		if ref.IsBranch() {
			pinKey := spec.Repo.String() + "\x00" + ref.Value()
			commit, ok := r.branchPins[pinKey]
			if !ok {
				var err error
				commit, err = r.fetcher.ResolveBranch(ctx, spec.Repo, ref.Value(), r.cfg)
				if err != nil {
					return err
				}
				r.branchPins[pinKey] = commit
			}
			resolvedRef = gitref.NewCommit(commit)
		} else {
			resolvedRef = ref
		}

		handle, err := r.fetcher.EnsureCheckout(ctx, spec.Repo, spec.Path, resolvedRef, r.cfg)
		if err != nil {
			return err
		}
		materialized = handle.LocalDir
		commitSHA = handle.ResolvedCommit
	}

	var (
		directDeps []string
		nested     manifest.Manifest
	)
	if recursive {
		var err error
		nested, err = manifest.Load(manifestPath(materialized))
		if err != nil {
			return err
		}
		directDeps = append(directDeps, nested.Order...)
	}

	rp := ResolvedPackage{
		Name:             spec.Name,
		Spec:             spec,
		ResolvedRef:      resolvedRef,
		OriginalRef:      originalRef(spec),
		CommitSHA:        commitSHA,
		DirectDeps:       directDeps,
		CacheKey:         cacheKeyFor(spec, resolvedRef),
		MaterializedPath: materialized,
	}
	r.resolvedByName[spec.Name] = rp

	childChain := append(append([]string{}, parentChain...), spec.Name)
	for _, depName := range nested.Order {
		depSpec := nested.Packages[depName]
		if err := r.discover(ctx, depSpec, childChain, recursive); err != nil {
			return err
		}
	}

	r.order = append(r.order, spec.Name)
	return nil
}

func originalRef(spec manifest.PackageSpec) gitref.Ref {
	if spec.Kind == manifest.SourceLocal {
		return gitref.NewCommit(sentinelLocalCommit)
	}
	return spec.Ref
}

func cacheKeyFor(spec manifest.PackageSpec, resolvedRef gitref.Ref) string {
	if spec.Kind == manifest.SourceLocal {
		return ""
	}
	return cache.Key(spec.Repo, spec.Path, resolvedRef.Kind(), resolvedRef.Value())
}

func sameSource(a, b manifest.PackageSpec) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == manifest.SourceLocal {
		return a.LocalPath == b.LocalPath
	}
	return a.Repo.Equal(b.Repo) && a.Path == b.Path && a.Ref.Equal(b.Ref)
}

func manifestPath(dir string) string {
	return dir + string(os.PathSeparator) + manifest.FileName
}
