// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Warrenn/git-pm/pkg/gitref"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Packages) != 0 || len(m.Order) != 0 {
		t.Errorf("expected empty manifest for a missing file, got %+v", m)
	}
}

func TestLoadPreservesFileOrder(t *testing.T) {
	path := writeManifest(t, `packages:
  widget:
    repo: github.com/acme/widget
    ref_value: main
  gadget:
    repo: github.com/acme/gadget
    ref_value: main
  gizmo:
    local: /tmp/gizmo
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"widget", "gadget", "gizmo"}
	if len(m.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", m.Order, want)
	}
	for i := range want {
		if m.Order[i] != want[i] {
			t.Errorf("Order[%d] = %q, want %q", i, m.Order[i], want[i])
		}
	}
}

func TestLoadGitSpecDefaultsRefTypeToBranch(t *testing.T) {
	path := writeManifest(t, `packages:
  widget:
    repo: github.com/acme/widget
    ref_value: main
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec := m.Packages["widget"]
	if spec.Kind != SourceGit {
		t.Fatalf("expected SourceGit, got %v", spec.Kind)
	}
	if spec.Ref.Kind() != gitref.KindBranch || spec.Ref.Value() != "main" {
		t.Errorf("Ref = %v, want branch:main", spec.Ref)
	}
	if spec.Repo.String() != "github.com/acme/widget" {
		t.Errorf("Repo = %q, want %q", spec.Repo.String(), "github.com/acme/widget")
	}
}

func TestLoadLocalSpecRejectsRepoAndRef(t *testing.T) {
	path := writeManifest(t, `packages:
  widget:
    local: /tmp/widget
    repo: github.com/acme/widget
`)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a local package also declaring repo")
	}
}

func TestLoadMissingRefValueFails(t *testing.T) {
	path := writeManifest(t, `packages:
  widget:
    repo: github.com/acme/widget
`)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a git package missing ref_value")
	}
}

func TestLoadMalformedYAMLReturnsErrManifestMalformed(t *testing.T) {
	path := writeManifest(t, "packages:\n  widget: [this is not a mapping\n")
	_, err := Load(path)
	if _, ok := err.(*ErrManifestMalformed); !ok {
		t.Errorf("expected *ErrManifestMalformed, got %T: %v", err, err)
	}
}

func TestMergeOverrideReplacesWholeEntry(t *testing.T) {
	base := Manifest{
		Order: []string{"widget"},
		Packages: map[string]PackageSpec{
			"widget": {Name: "widget", Kind: SourceGit, Repo: gitref.Parse("github.com/acme/widget"), Ref: gitref.NewBranch("main")},
		},
	}
	override := Manifest{
		Order: []string{"widget"},
		Packages: map[string]PackageSpec{
			"widget": {Name: "widget", Kind: SourceLocal, LocalPath: "/local/widget"},
		},
	}

	merged := Merge(base, override)
	if merged.Packages["widget"].Kind != SourceLocal {
		t.Errorf("expected override to replace base entry wholesale, got %+v", merged.Packages["widget"])
	}
	if len(merged.Order) != 1 || merged.Order[0] != "widget" {
		t.Errorf("Order = %v, want [widget]", merged.Order)
	}
}

func TestMergeOverrideAppendsNewNames(t *testing.T) {
	base := Manifest{
		Order:    []string{"widget"},
		Packages: map[string]PackageSpec{"widget": {Name: "widget", Kind: SourceLocal, LocalPath: "/a"}},
	}
	override := Manifest{
		Order:    []string{"gadget"},
		Packages: map[string]PackageSpec{"gadget": {Name: "gadget", Kind: SourceLocal, LocalPath: "/b"}},
	}

	merged := Merge(base, override)
	want := []string{"widget", "gadget"}
	if len(merged.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", merged.Order, want)
	}
	for i := range want {
		if merged.Order[i] != want[i] {
			t.Errorf("Order[%d] = %q, want %q", i, merged.Order[i], want[i])
		}
	}
}

func TestAddOrReplaceThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	spec, err := NewGitSpec("widget", "github.com/acme/widget", "sub", "tag", "v1.0.0")
	if err != nil {
		t.Fatalf("NewGitSpec: %v", err)
	}
	if err := AddOrReplace(path, "widget", spec); err != nil {
		t.Fatalf("AddOrReplace: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.Packages["widget"]
	if got.Repo.String() != "github.com/acme/widget" || got.Path != "sub" || got.Ref.Kind() != gitref.KindTag || got.Ref.Value() != "v1.0.0" {
		t.Errorf("round-tripped spec = %+v, want repo=github.com/acme/widget path=sub tag:v1.0.0", got)
	}
}

func TestRemoveReportsWhetherEntryExisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	spec, err := NewGitSpec("widget", "github.com/acme/widget", "", "branch", "main")
	if err != nil {
		t.Fatalf("NewGitSpec: %v", err)
	}
	if err := AddOrReplace(path, "widget", spec); err != nil {
		t.Fatalf("AddOrReplace: %v", err)
	}

	existed, err := Remove(path, "widget")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !existed {
		t.Error("expected Remove to report existed=true for a present package")
	}

	existed, err = Remove(path, "widget")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if existed {
		t.Error("expected Remove to report existed=false for an already-removed package")
	}
}

func TestLoadEffectiveRootMergesOverride(t *testing.T) {
	workspaceRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspaceRoot, FileName),
		[]byte("packages:\n  widget:\n    repo: github.com/acme/widget\n    ref_value: main\n"), 0o644); err != nil {
		t.Fatalf("write base manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workspaceRoot, OverrideFileName),
		[]byte("packages:\n  widget:\n    local: /local/widget\n"), 0o644); err != nil {
		t.Fatalf("write override manifest: %v", err)
	}

	_, _, effective, err := LoadEffectiveRoot(workspaceRoot)
	if err != nil {
		t.Fatalf("LoadEffectiveRoot: %v", err)
	}
	if effective.Packages["widget"].Kind != SourceLocal {
		t.Errorf("expected override to win in the effective manifest, got %+v", effective.Packages["widget"])
	}
}
