// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultPackagesDir is the default value of packages_dir.
const DefaultPackagesDir = ".git-packages"

// userConfigSubdir is the directory name under the XDG config home.
const userConfigSubdir = "git-pm"

// cacheSubdir is the directory name under the XDG cache home.
const cacheSubdir = "git-pm"

// UserConfigFile returns the user-scope config file path:
// <xdg config home>/git-pm/.git-pm-config.yaml (FileName).
func UserConfigFile() string {
	return filepath.Join(xdg.ConfigHome, userConfigSubdir, FileName)
}

// DefaultCacheDir returns the default cache_dir: <xdg cache home>/git-pm.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, cacheSubdir)
}

// FindProjectConfigFile walks up from dir looking for FileName, stopping at
// the filesystem root. Returns "" if none is found; this is not an error.
func FindProjectConfigFile(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project directory: %w", err)
	}

	cur := abs
	for {
		candidate := filepath.Join(cur, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}
		cur = parent
	}
}

// WorkspaceRoot returns the directory that should be treated as the
// workspace root: the directory containing the project config file if one
// was found, otherwise dir itself.
func WorkspaceRoot(dir, projectConfigPath string) (string, error) {
	if projectConfigPath == "" {
		return filepath.Abs(dir)
	}
	return filepath.Dir(projectConfigPath), nil
}
