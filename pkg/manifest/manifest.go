// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifest loads the root manifest and the optional local-override
// manifest, and merges them into one effective package set.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Warrenn/git-pm/pkg/gitref"
)

// FileName is the root manifest's conventional name at the workspace root.
const FileName = "git-pm.yaml"

// OverrideFileName is the local-override manifest's conventional name,
// typically git-ignored.
const OverrideFileName = "git-pm.local.yaml"

// wireSpec is the on-disk shape of one packages map entry.
type wireSpec struct {
	Repo     string `yaml:"repo,omitempty"`
	Path     string `yaml:"path,omitempty"`
	RefType  string `yaml:"ref_type,omitempty"`
	RefValue string `yaml:"ref_value,omitempty"`
	Local    string `yaml:"local,omitempty"`
}

type wireManifest struct {
	Packages map[string]wireSpec `yaml:"packages"`
}

// SourceKind tags PackageSpec's sum type: Git{repo,path,ref} or Local{path}.
type SourceKind string

const (
	SourceGit   SourceKind = "git"
	SourceLocal SourceKind = "local"
)

// PackageSpec is the declaration of one package.
type PackageSpec struct {
	Name string

	Kind SourceKind

	// Git fields, meaningful when Kind == SourceGit.
	Repo gitref.RepoId
	Path string
	Ref  gitref.Ref

	// Local fields, meaningful when Kind == SourceLocal.
	LocalPath string
}

// Manifest is the effective `{packages: Map<name, PackageSpec>}`. Keys are
// ordered per insertion (manifest file order), which dependency-resolution
// topological sort uses for tie-breaking.
type Manifest struct {
	Order    []string
	Packages map[string]PackageSpec
}

// ErrManifestMalformed wraps a syntax error encountered while parsing a
// manifest or override file.
type ErrManifestMalformed struct {
	Path string
	Err  error
}

func (e *ErrManifestMalformed) Error() string {
	return fmt.Sprintf("manifest malformed: %s: %v", e.Path, e.Err)
}

func (e *ErrManifestMalformed) Unwrap() error { return e.Err }

// Load reads the manifest at path. A missing file is legal and yields an
// empty Manifest.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{Packages: map[string]PackageSpec{}}, nil
		}
		return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, &ErrManifestMalformed{Path: path, Err: err}
	}

	order, wire, err := decodeOrdered(&doc)
	if err != nil {
		return Manifest{}, &ErrManifestMalformed{Path: path, Err: err}
	}

	return fromWire(path, order, wire)
}

// decodeOrdered walks the document node to recover the "packages" mapping's
// file order (yaml.v3 preserves node order in Content, unlike a plain Go
// map), then decodes each entry with the ordinary struct-tag based decoder.
func decodeOrdered(doc *yaml.Node) ([]string, wireManifest, error) {
	var wire wireManifest
	if err := doc.Decode(&wire); err != nil {
		return nil, wireManifest{}, err
	}

	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, wire, nil
	}

	var order []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if key.Value != "packages" {
			continue
		}
		packagesNode := root.Content[i+1]
		if packagesNode.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(packagesNode.Content); j += 2 {
			order = append(order, packagesNode.Content[j].Value)
		}
	}

	return order, wire, nil
}

func fromWire(path string, order []string, wire wireManifest) (Manifest, error) {
	m := Manifest{Order: order, Packages: make(map[string]PackageSpec, len(wire.Packages))}

	for name, w := range wire.Packages {
		spec, err := specFromWire(name, w)
		if err != nil {
			return Manifest{}, &ErrManifestMalformed{Path: path, Err: err}
		}
		m.Packages[name] = spec
	}

	return m, nil
}

func specFromWire(name string, w wireSpec) (PackageSpec, error) {
	if w.Local != "" {
		if w.Repo != "" || w.RefValue != "" {
			return PackageSpec{}, fmt.Errorf("package %q: local source cannot also declare repo/ref", name)
		}
		return PackageSpec{Name: name, Kind: SourceLocal, LocalPath: w.Local}, nil
	}

	if w.Repo == "" {
		return PackageSpec{}, fmt.Errorf("package %q: must declare either repo or local", name)
	}

	refType := w.RefType
	if refType == "" {
		refType = "branch"
	}
	kind, err := gitref.ParseRefType(refType)
	if err != nil {
		return PackageSpec{}, fmt.Errorf("package %q: %w", name, err)
	}
	if w.RefValue == "" {
		return PackageSpec{}, fmt.Errorf("package %q: ref_value is required", name)
	}
	ref, err := gitref.New(kind, w.RefValue)
	if err != nil {
		return PackageSpec{}, fmt.Errorf("package %q: %w", name, err)
	}

	return PackageSpec{
		Name: name,
		Kind: SourceGit,
		Repo: gitref.Parse(w.Repo),
		Path: w.Path,
		Ref:  ref,
	}, nil
}

// LoadEffectiveRoot loads the root manifest at workspaceRoot/FileName and,
// if present, the override manifest at workspaceRoot/OverrideFileName, and
// merges them: overrides replace whole entries, not partial field overlay,
// and may introduce names absent from the base.
func LoadEffectiveRoot(workspaceRoot string) (base Manifest, override Manifest, effective Manifest, err error) {
	base, err = Load(joinPath(workspaceRoot, FileName))
	if err != nil {
		return Manifest{}, Manifest{}, Manifest{}, err
	}

	override, err = Load(joinPath(workspaceRoot, OverrideFileName))
	if err != nil {
		return Manifest{}, Manifest{}, Manifest{}, err
	}

	effective = Merge(base, override)
	return base, override, effective, nil
}

// Merge applies override entries onto base: an override entry with the
// same name as a base entry replaces it wholesale; an override entry with
// a new name is added. Base order is preserved, with override-only names
// appended.
func Merge(base, override Manifest) Manifest {
	out := Manifest{
		Packages: make(map[string]PackageSpec, len(base.Packages)+len(override.Packages)),
	}

	seen := map[string]bool{}
	for _, name := range base.Order {
		if spec, ok := override.Packages[name]; ok {
			out.Packages[name] = spec
		} else {
			out.Packages[name] = base.Packages[name]
		}
		out.Order = append(out.Order, name)
		seen[name] = true
	}

	for _, name := range override.Order {
		if seen[name] {
			continue
		}
		out.Packages[name] = override.Packages[name]
		out.Order = append(out.Order, name)
		seen[name] = true
	}

	return out
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + string(os.PathSeparator) + name
}
