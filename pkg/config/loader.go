// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Defaults returns the built-in default configuration (lowest-priority
// layer).
func Defaults() Config {
	return Config{
		PackagesDir: DefaultPackagesDir,
		CacheDir:    DefaultCacheDir(),
		GitProtocol: map[string]string{},
		URLPatterns: map[string]string{},
	}
}

// Loader resolves the effective configuration for one invocation.
type Loader struct {
	// ProjectDir is the directory to start the project-config search from.
	// Defaults to the current working directory when empty.
	ProjectDir string
}

// Load reads the user-scope and project-scope config files (if present) and
// deep-merges them over the built-in defaults. It never fails because a file
// is absent, and never touches the network.
func (l Loader) Load() (Effective, error) {
	projectDir := l.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Effective{}, fmt.Errorf("determine working directory: %w", err)
		}
		projectDir = wd
	}

	projectPath, err := FindProjectConfigFile(projectDir)
	if err != nil {
		return Effective{}, err
	}

	return load(UserConfigFile(), projectPath)
}

func load(userPath, projectPath string) (Effective, error) {
	eff := Effective{
		Config:  Defaults(),
		Sources: defaultSources(),
	}

	userCfg, userPresent, err := readLayer(userPath)
	if err != nil {
		return Effective{}, fmt.Errorf("read user config %s: %w", userPath, err)
	}
	if userPresent {
		mergeLayer(&eff, userCfg, SourceUser)
	}

	projectCfg, projectPresent, err := readLayer(projectPath)
	if err != nil {
		return Effective{}, fmt.Errorf("read project config %s: %w", projectPath, err)
	}
	if projectPresent {
		mergeLayer(&eff, projectCfg, SourceProject)
	}

	return eff, nil
}

func readLayer(path string) (Config, bool, error) {
	if path == "" {
		return Config{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, true, nil
}

// mergeLayer deep-merges layer over eff.Config (layer wins on scalar
// conflicts, nested maps are merged key-wise) and records provenance for
// every key the layer actually set.
func mergeLayer(eff *Effective, layer Config, src Source) {
	if err := mergo.Merge(&eff.Config, layer, mergo.WithOverride); err != nil {
		// mergo only fails on reflect-level type mismatches, which cannot
		// happen here since both sides are Config; defensive no-op.
		return
	}

	if layer.PackagesDir != "" {
		eff.Sources["packages_dir"] = src
	}
	if layer.CacheDir != "" {
		eff.Sources["cache_dir"] = src
	}
	if len(layer.GitProtocol) > 0 {
		eff.Sources["git_protocol"] = src
	}
	if len(layer.URLPatterns) > 0 {
		eff.Sources["url_patterns"] = src
	}
	if layer.AzureDevopsPat != "" {
		eff.Sources["azure_devops_pat"] = src
	}
}

func defaultSources() map[string]Source {
	return map[string]Source{
		"packages_dir":     SourceDefault,
		"cache_dir":        SourceDefault,
		"git_protocol":     SourceDefault,
		"url_patterns":     SourceDefault,
		"azure_devops_pat": SourceDefault,
	}
}
