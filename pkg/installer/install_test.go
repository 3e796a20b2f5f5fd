// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Warrenn/git-pm/pkg/depgraph"
	"github.com/Warrenn/git-pm/pkg/manifest"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestInstallMaterializesLocalAndGitPackages(t *testing.T) {
	workDir := t.TempDir()
	packagesDir := filepath.Join(workDir, ".git-packages")

	localSrc := t.TempDir()
	mustWriteFile(t, filepath.Join(localSrc, "hello.txt"), "hello")

	cacheEntry := t.TempDir()
	mustWriteFile(t, filepath.Join(cacheEntry, "sub", "world.txt"), "world")

	in, err := New(packagesDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := depgraph.Result{
		Order: []string{"b", "a"},
		Packages: map[string]depgraph.ResolvedPackage{
			"b": {
				Name:             "b",
				Spec:             manifest.PackageSpec{Name: "b", Kind: manifest.SourceLocal, LocalPath: localSrc},
				MaterializedPath: localSrc,
			},
			"a": {
				Name:             "a",
				Spec:             manifest.PackageSpec{Name: "a", Kind: manifest.SourceGit, Path: "sub"},
				MaterializedPath: cacheEntry,
				DirectDeps:       []string{"b"},
			},
		},
	}

	summary, err := in.Install(result)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if summary.Installed != 2 {
		t.Errorf("expected 2 installed, got %d", summary.Installed)
	}
	if summary.Linked != 1 {
		t.Errorf("expected 1 link, got %d", summary.Linked)
	}

	if _, err := os.Stat(filepath.Join(packagesDir, "b", "hello.txt")); err != nil {
		t.Errorf("expected b/hello.txt to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(packagesDir, "a", "world.txt")); err != nil {
		t.Errorf("expected a/world.txt (sparse subtree) to exist: %v", err)
	}

	linkTarget := filepath.Join(packagesDir, "a", LinksDirName, "b")
	if _, err := os.Stat(filepath.Join(linkTarget, "hello.txt")); err != nil {
		t.Errorf("expected dependency link to resolve to b's contents: %v", err)
	}

	if fi, err := os.Lstat(filepath.Join(packagesDir, "a")); err != nil {
		t.Fatalf("lstat a: %v", err)
	} else if fi.Mode()&os.ModeSymlink != 0 {
		t.Error("expected Git-sourced package a to be a real directory, not a symlink into the cache entry")
	}

	if fi, err := os.Lstat(filepath.Join(packagesDir, "b")); err != nil {
		t.Fatalf("lstat b: %v", err)
	} else if fi.Mode()&os.ModeSymlink == 0 {
		t.Error("expected Local-sourced package b to be linked, not copied")
	}
}

func TestInstallStripsGitMetadataFromGitSourcedPackage(t *testing.T) {
	workDir := t.TempDir()
	packagesDir := filepath.Join(workDir, ".git-packages")

	cacheEntry := t.TempDir()
	mustWriteFile(t, filepath.Join(cacheEntry, "world.txt"), "world")
	mustWriteFile(t, filepath.Join(cacheEntry, ".git", "HEAD"), "ref: refs/heads/main")

	in, err := New(packagesDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := depgraph.Result{
		Order: []string{"a"},
		Packages: map[string]depgraph.ResolvedPackage{
			"a": {
				Name:             "a",
				Spec:             manifest.PackageSpec{Name: "a", Kind: manifest.SourceGit},
				MaterializedPath: cacheEntry,
			},
		},
	}

	if _, err := in.Install(result); err != nil {
		t.Fatalf("Install: %v", err)
	}

	if _, err := os.Stat(filepath.Join(packagesDir, "a", "world.txt")); err != nil {
		t.Errorf("expected a/world.txt to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(packagesDir, "a", ".git")); !os.IsNotExist(err) {
		t.Errorf("expected a/.git to be stripped, stat err = %v", err)
	}
}

func TestInstallGitPackageDoesNotMutateSharedCacheEntry(t *testing.T) {
	workDir := t.TempDir()
	packagesDir := filepath.Join(workDir, ".git-packages")

	cacheEntry := t.TempDir()
	mustWriteFile(t, filepath.Join(cacheEntry, "lib.txt"), "lib")

	cacheDepEntry := t.TempDir()
	mustWriteFile(t, filepath.Join(cacheDepEntry, "dep.txt"), "dep")

	in, err := New(packagesDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := depgraph.Result{
		Order: []string{"dep", "a"},
		Packages: map[string]depgraph.ResolvedPackage{
			"dep": {
				Name:             "dep",
				Spec:             manifest.PackageSpec{Name: "dep", Kind: manifest.SourceGit},
				MaterializedPath: cacheDepEntry,
			},
			"a": {
				Name:             "a",
				Spec:             manifest.PackageSpec{Name: "a", Kind: manifest.SourceGit},
				MaterializedPath: cacheEntry,
				DirectDeps:       []string{"dep"},
			},
		},
	}

	if _, err := in.Install(result); err != nil {
		t.Fatalf("Install: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cacheEntry, LinksDirName)); !os.IsNotExist(err) {
		t.Errorf("expected cache entry to remain untouched, but found %s inside it (stat err = %v)", LinksDirName, err)
	}
}

func TestRemoveDeletesInstalledPackages(t *testing.T) {
	workDir := t.TempDir()
	packagesDir := filepath.Join(workDir, ".git-packages")

	in, err := New(packagesDir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustWriteFile(t, filepath.Join(packagesDir, "orphan", "file.txt"), "x")

	summary, err := in.Remove([]string{"orphan"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if summary.Removed != 1 {
		t.Errorf("expected 1 removed, got %d", summary.Removed)
	}
	if _, err := os.Stat(filepath.Join(packagesDir, "orphan")); !os.IsNotExist(err) {
		t.Errorf("expected orphan directory to be gone, stat err = %v", err)
	}
}
