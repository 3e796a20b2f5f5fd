// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Warrenn/git-pm/pkg/manifest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestEngineInstallLocalPackageEndToEnd(t *testing.T) {
	workspaceRoot := t.TempDir()
	localPkg := t.TempDir()
	writeFile(t, filepath.Join(localPkg, "lib.txt"), "library contents")

	writeFile(t, filepath.Join(workspaceRoot, manifest.FileName),
		"packages:\n  widget:\n    local: "+localPkg+"\n")

	e, err := New(workspaceRoot, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := e.Install(context.Background(), InstallOptions{Recursive: true})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if result.Summary.Installed != 1 {
		t.Errorf("expected 1 installed package, got %d", result.Summary.Installed)
	}

	installedFile := filepath.Join(workspaceRoot, ".git-packages", "widget", "lib.txt")
	if _, err := os.Stat(installedFile); err != nil {
		t.Errorf("expected widget to be materialized: %v", err)
	}

	envFile := filepath.Join(workspaceRoot, ".git-pm.env")
	if _, err := os.Stat(envFile); err != nil {
		t.Errorf("expected env file to be generated: %v", err)
	}

	gitignore := filepath.Join(workspaceRoot, ".gitignore")
	data, err := os.ReadFile(gitignore)
	if err != nil {
		t.Fatalf("expected .gitignore to be generated: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, manifest.OverrideFileName) {
		t.Errorf("expected .gitignore to manage the local-override manifest file, got:\n%s", content)
	}
}

func TestEngineRemoveCascadesOrphanedPackage(t *testing.T) {
	workspaceRoot := t.TempDir()
	localPkg := t.TempDir()
	writeFile(t, filepath.Join(localPkg, "lib.txt"), "library contents")

	writeFile(t, filepath.Join(workspaceRoot, manifest.FileName),
		"packages:\n  widget:\n    local: "+localPkg+"\n")

	e, err := New(workspaceRoot, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Install(context.Background(), InstallOptions{Recursive: true}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	if _, err := e.Remove(context.Background(), "widget", InstallOptions{Recursive: true}); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := os.Stat(filepath.Join(workspaceRoot, ".git-packages", "widget")); !os.IsNotExist(err) {
		t.Errorf("expected widget's install directory to be removed, stat err = %v", err)
	}
}

func TestEngineCleanRemovesPackagesAndEnvFile(t *testing.T) {
	workspaceRoot := t.TempDir()
	localPkg := t.TempDir()
	writeFile(t, filepath.Join(localPkg, "lib.txt"), "library contents")

	writeFile(t, filepath.Join(workspaceRoot, manifest.FileName),
		"packages:\n  widget:\n    local: "+localPkg+"\n")

	e, err := New(workspaceRoot, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Install(context.Background(), InstallOptions{Recursive: true}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	summary, err := e.Clean(context.Background())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.Removed != 1 {
		t.Errorf("expected 1 removed package, got %d", summary.Removed)
	}

	if _, err := os.Stat(filepath.Join(workspaceRoot, ".git-pm.env")); !os.IsNotExist(err) {
		t.Errorf("expected env file to be removed, stat err = %v", err)
	}
}

func TestEngineRemoveUnknownPackageFails(t *testing.T) {
	workspaceRoot := t.TempDir()
	writeFile(t, filepath.Join(workspaceRoot, manifest.FileName), "packages:\n")

	e, err := New(workspaceRoot, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Remove(context.Background(), "nonexistent", InstallOptions{Recursive: true}); err == nil {
		t.Fatal("expected an error removing a package absent from the manifest")
	}
}
