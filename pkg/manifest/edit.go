// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Warrenn/git-pm/pkg/gitref"
)

// AddOrReplace edits the root manifest at path to insert or replace one
// entry, without installing.
func AddOrReplace(path, name string, spec PackageSpec) error {
	wire, err := readWireManifest(path)
	if err != nil {
		return err
	}

	if wire.Packages == nil {
		wire.Packages = map[string]wireSpec{}
	}
	wire.Packages[name] = toWire(spec)

	return writeWireManifest(path, wire)
}

// Remove deletes name from the manifest at path. Returns
// ErrPackageNotInstalled-equivalent (false, nil) when name was absent so the
// caller can decide how to report it.
func Remove(path, name string) (existed bool, err error) {
	wire, err := readWireManifest(path)
	if err != nil {
		return false, err
	}

	if _, ok := wire.Packages[name]; !ok {
		return false, nil
	}

	delete(wire.Packages, name)
	return true, writeWireManifest(path, wire)
}

func readWireManifest(path string) (wireManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return wireManifest{Packages: map[string]wireSpec{}}, nil
		}
		return wireManifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var wire wireManifest
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return wireManifest{}, &ErrManifestMalformed{Path: path, Err: err}
	}
	if wire.Packages == nil {
		wire.Packages = map[string]wireSpec{}
	}
	return wire, nil
}

func writeWireManifest(path string, wire wireManifest) error {
	data, err := yaml.Marshal(wire)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func toWire(spec PackageSpec) wireSpec {
	if spec.Kind == SourceLocal {
		return wireSpec{Local: spec.LocalPath}
	}
	return wireSpec{
		Repo:     spec.Repo.String(),
		Path:     spec.Path,
		RefType:  string(spec.Ref.Kind()),
		RefValue: spec.Ref.Value(),
	}
}

// NewGitSpec builds a PackageSpec for the "add" command from raw CLI
// values.
func NewGitSpec(name, repo, path, refType, refValue string) (PackageSpec, error) {
	kind, err := gitref.ParseRefType(refType)
	if err != nil {
		return PackageSpec{}, err
	}
	ref, err := gitref.New(kind, refValue)
	if err != nil {
		return PackageSpec{}, err
	}
	return PackageSpec{
		Name: name,
		Kind: SourceGit,
		Repo: gitref.Parse(repo),
		Path: path,
		Ref:  ref,
	}, nil
}
