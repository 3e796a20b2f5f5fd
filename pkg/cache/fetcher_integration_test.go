// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Warrenn/git-pm/internal/gitcmd"
	"github.com/Warrenn/git-pm/internal/testutil"
	"github.com/Warrenn/git-pm/pkg/config"
	"github.com/Warrenn/git-pm/pkg/gitref"
	"github.com/Warrenn/git-pm/pkg/urlresolve"
)

// localRepo builds a RepoId plus a Config whose url_patterns rule routes
// that RepoId straight back to a file:// URL for repoDir, so the fetcher
// can be exercised against a real local git repository without any network
// access.
func localRepo(t *testing.T, repoDir string) (gitref.RepoId, config.Config) {
	t.Helper()

	abs, err := filepath.Abs(repoDir)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}

	repo := gitref.RepoId{Host: "local-test", Path: strings.TrimPrefix(abs, "/")}
	cfg := config.Config{
		URLPatterns: map[string]string{"local-test": "file:///{path}"},
	}
	return repo, cfg
}

func TestFetcherEnsureCheckoutAgainstLocalRepo(t *testing.T) {
	repoDir := testutil.TempGitRepoWithCommit(t)
	repo, cfg := localRepo(t, repoDir)
	cfg.CacheDir = t.TempDir()

	fetcher := New(gitcmd.NewExecutor(), urlresolve.Env{}, nil)

	headSHA := strings.TrimSpace(runGit(t, repoDir, "rev-parse", "HEAD"))

	handle, err := fetcher.EnsureCheckout(context.Background(), repo, "", gitref.NewCommit(headSHA), cfg)
	if err != nil {
		t.Fatalf("EnsureCheckout: %v", err)
	}
	if handle.ResolvedCommit != headSHA {
		t.Errorf("expected resolved commit %q, got %q", headSHA, handle.ResolvedCommit)
	}

	// A second call must hit the cache rather than re-cloning.
	handle2, err := fetcher.EnsureCheckout(context.Background(), repo, "", gitref.NewCommit(headSHA), cfg)
	if err != nil {
		t.Fatalf("EnsureCheckout (cached): %v", err)
	}
	if handle2.LocalDir != handle.LocalDir {
		t.Errorf("expected cache hit to reuse %q, got %q", handle.LocalDir, handle2.LocalDir)
	}
}

func TestFetcherResolveBranchAgainstLocalRepo(t *testing.T) {
	repoDir := testutil.TempGitRepoWithBranch(t, "feature")
	repo, cfg := localRepo(t, repoDir)
	cfg.CacheDir = t.TempDir()

	expectedSHA := strings.TrimSpace(runGit(t, repoDir, "rev-parse", "feature"))

	fetcher := New(gitcmd.NewExecutor(), urlresolve.Env{}, nil)

	sha, err := fetcher.ResolveBranch(context.Background(), repo, "feature", cfg)
	if err != nil {
		t.Fatalf("ResolveBranch: %v", err)
	}
	if sha != expectedSHA {
		t.Errorf("expected %q, got %q", expectedSHA, sha)
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return string(out)
}
