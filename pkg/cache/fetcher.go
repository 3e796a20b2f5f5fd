// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/Warrenn/git-pm/internal/gitcmd"
	"github.com/Warrenn/git-pm/internal/gitpmerr"
	"github.com/Warrenn/git-pm/internal/gitpmlog"
	"github.com/Warrenn/git-pm/pkg/config"
	"github.com/Warrenn/git-pm/pkg/gitref"
	"github.com/Warrenn/git-pm/pkg/urlresolve"
)

// metaFileName is the cache entry's metadata sidecar, a small file recording
// the resolved commit alongside the checkout.
const metaFileName = ".git-pm-cache-meta.yaml"

// Handle is the outcome of EnsureCheckout.
type Handle struct {
	LocalDir       string
	ResolvedCommit string
}

type meta struct {
	RefKind        gitref.Kind `yaml:"ref_kind"`
	RefValue       string      `yaml:"ref_value"`
	ResolvedCommit string      `yaml:"resolved_commit"`
}

// Fetcher drives the host's git binary to populate and reuse cache entries.
type Fetcher struct {
	exec   *gitcmd.Executor
	env    urlresolve.Env
	logger gitpmlog.Logger

	branchGroup singleflight.Group
}

// New creates a Fetcher. env is the pre-snapshotted process environment
// consulted for auth; the fetcher never reads the environment itself.
func New(exec *gitcmd.Executor, env urlresolve.Env, logger gitpmlog.Logger) *Fetcher {
	if logger == nil {
		logger = gitpmlog.Noop()
	}
	return &Fetcher{exec: exec, env: env, logger: logger}
}

// ResolveBranch resolves branch name b on repo to a commit SHA via
// ls-remote, the single permitted network operation per distinct
// (repo, branch) pair in one invocation. Concurrent callers within the
// process for the same pair collapse onto one underlying ls-remote via
// singleflight.
func (f *Fetcher) ResolveBranch(ctx context.Context, repo gitref.RepoId, branch string, cfg config.Config) (string, error) {
	key := repo.String() + "\x00" + branch

	v, err, _ := f.branchGroup.Do(key, func() (interface{}, error) {
		return f.resolveBranchOnce(ctx, repo, branch, cfg)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Fetcher) resolveBranchOnce(ctx context.Context, repo gitref.RepoId, branch string, cfg config.Config) (string, error) {
	resolution := urlresolve.Resolve(repo, cfg, f.env)

	args := []string{"ls-remote"}
	if resolution.ExtraHeader != "" {
		args = append(args, "-c", "http.extraheader="+resolution.ExtraHeader)
	}
	args = append(args, resolution.FetchURL, "refs/heads/"+branch)

	result, err := f.exec.Run(ctx, "", args...)
	if err != nil {
		return "", gitpmerr.Wrap(gitpmerr.KindNetworkError, err, "ls-remote failed to run", "repo", repo.String(), "ref", "branch:"+branch)
	}
	if result.ExitCode != 0 {
		return "", classifyRemoteError(result.Stderr, "repo", repo.String(), "ref", "branch:"+branch)
	}

	line := strings.TrimSpace(result.Stdout)
	if line == "" {
		return "", gitpmerr.New(gitpmerr.KindRefNotFound, "branch not found on remote", "repo", repo.String(), "ref", "branch:"+branch)
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", gitpmerr.New(gitpmerr.KindRefNotFound, "branch not found on remote", "repo", repo.String(), "ref", "branch:"+branch)
	}

	f.logger.Debug("resolved branch", "repo", repo.String(), "branch", branch, "commit", fields[0])
	return fields[0], nil
}

// EnsureCheckout populates or reuses the cache entry for a ref already
// known to be Tag or Commit (never Branch — callers resolve branches via
// ResolveBranch first, as dependency discovery does for each package).
func (f *Fetcher) EnsureCheckout(ctx context.Context, repo gitref.RepoId, path string, ref gitref.Ref, cfg config.Config) (Handle, error) {
	if ref.IsBranch() {
		return Handle{}, fmt.Errorf("EnsureCheckout called with an unresolved branch ref: %s", ref)
	}

	key := Key(repo, path, ref.Kind(), ref.Value())
	entryDir := filepath.Join(cfg.CacheDir, key)

	if existing, ok := f.readMeta(entryDir); ok && existing.RefKind == ref.Kind() && existing.RefValue == ref.Value() {
		f.logger.Debug("cache hit", "repo", repo.String(), "path", path, "ref", ref.String(), "cache_key", key)
		return Handle{LocalDir: entryDir, ResolvedCommit: existing.ResolvedCommit}, nil
	}

	f.logger.Info("cache miss, fetching", "repo", repo.String(), "path", path, "ref", ref.String(), "cache_key", key)
	return f.sparseClone(ctx, repo, path, ref, cfg, entryDir)
}

func (f *Fetcher) readMeta(entryDir string) (meta, bool) {
	data, err := os.ReadFile(filepath.Join(entryDir, metaFileName))
	if err != nil {
		return meta{}, false
	}
	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return meta{}, false
	}
	if m.ResolvedCommit == "" {
		return meta{}, false
	}
	return m, true
}

func (f *Fetcher) writeMeta(entryDir string, m meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(entryDir, metaFileName), data, 0o644)
}

func (f *Fetcher) sparseClone(ctx context.Context, repo gitref.RepoId, path string, ref gitref.Ref, cfg config.Config, entryDir string) (Handle, error) {
	if err := os.RemoveAll(entryDir); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "clear stale cache entry", "path", entryDir)
	}
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create cache entry directory", "path", entryDir)
	}

	run := func(args ...string) (*gitcmd.Result, error) {
		return f.exec.Run(ctx, entryDir, args...)
	}

	if _, err := run("init"); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "git init failed", "path", entryDir)
	}

	resolution := urlresolve.Resolve(repo, cfg, f.env)
	if _, err := run("remote", "add", "origin", resolution.FetchURL); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "git remote add failed", "repo", repo.String())
	}

	if path != "" {
		if _, err := run("sparse-checkout", "init", "--no-cone"); err != nil {
			return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "sparse-checkout init failed", "repo", repo.String())
		}
		if _, err := run("sparse-checkout", "set", path); err != nil {
			return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "sparse-checkout set failed", "repo", repo.String(), "path", path)
		}
	}

	fetchTarget := ref.Value()
	if ref.Kind() == gitref.KindTag {
		fetchTarget = "refs/tags/" + ref.Value()
	}

	fetchArgs := []string{"fetch", "--depth", "1"}
	if resolution.ExtraHeader != "" {
		fetchArgs = append(fetchArgs, "-c", "http.extraheader="+resolution.ExtraHeader)
	}
	fetchArgs = append(fetchArgs, "origin", fetchTarget)

	result, err := run(fetchArgs...)
	if err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindNetworkError, err, "fetch failed to run", "repo", repo.String(), "ref", ref.String())
	}
	if result.ExitCode != 0 {
		lower := strings.ToLower(result.Stderr)
		if strings.Contains(lower, "couldn't find remote ref") || strings.Contains(lower, "not found") {
			return Handle{}, gitpmerr.New(gitpmerr.KindRefNotFound, strings.TrimSpace(result.Stderr), "repo", repo.String(), "ref", ref.String())
		}
		return Handle{}, classifyRemoteError(result.Stderr, "repo", repo.String(), "ref", ref.String())
	}

	if _, err := run("checkout", "FETCH_HEAD"); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "checkout failed", "repo", repo.String(), "ref", ref.String())
	}

	if path != "" {
		if empty, err := sparseTreeEmpty(entryDir, path); err != nil {
			return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "verify sparse checkout", "path", path)
		} else if empty {
			return Handle{}, gitpmerr.New(gitpmerr.KindSparsePathEmpty, "path resolved to nothing in the repository", "repo", repo.String(), "path", path)
		}
	}

	commitSHA, err := f.exec.RunOutput(ctx, entryDir, "rev-parse", "HEAD")
	if err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "rev-parse failed", "repo", repo.String())
	}

	if err := f.writeMeta(entryDir, meta{RefKind: ref.Kind(), RefValue: ref.Value(), ResolvedCommit: commitSHA}); err != nil {
		return Handle{}, gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "write cache metadata", "path", entryDir)
	}

	return Handle{LocalDir: entryDir, ResolvedCommit: commitSHA}, nil
}

// sparseTreeEmpty reports whether the sparse-checked-out path produced no
// content, the SparsePathEmpty condition.
func sparseTreeEmpty(entryDir, path string) (bool, error) {
	full := filepath.Join(entryDir, path)
	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}
