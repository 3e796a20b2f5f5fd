// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

// LinkStrategy is the mechanism used to connect a package directory to a
// cache or dependency entry, probed once per invocation and then reused for
// every link: symlink, falling back to a platform junction, falling back
// to a full copy.
type LinkStrategy string

const (
	StrategySymlink LinkStrategy = "symlink"
	StrategyJunction LinkStrategy = "junction"
	StrategyCopy    LinkStrategy = "copy"
)

// ProbeLinkStrategy determines which strategy the host filesystem supports
// by attempting a real symlink (then, on failure, a junction) inside dir,
// and removing the probe artifact afterward. The result should be cached
// for the remainder of one invocation rather than re-probed per link.
func ProbeLinkStrategy(dir string) (LinkStrategy, error) {
	probeTarget := filepath.Join(dir, ".git-pm-probe-target")
	probeLink := filepath.Join(dir, ".git-pm-probe-link")
	defer os.Remove(probeTarget)
	defer os.Remove(probeLink)

	if err := os.MkdirAll(probeTarget, 0o755); err != nil {
		return "", fmt.Errorf("probe link strategy: %w", err)
	}

	if err := os.Symlink(probeTarget, probeLink); err == nil {
		return StrategySymlink, nil
	}
	_ = os.Remove(probeLink)

	if err := createJunction(probeLink, probeTarget); err == nil {
		return StrategyJunction, nil
	}
	_ = os.Remove(probeLink)

	return StrategyCopy, nil
}

// Link connects linkPath to target (an absolute path) using strategy,
// falling back to a full copy if the chosen strategy fails at the point of
// use, e.g. a permissions change between the probe and the link. Symlinks
// are created relative to linkPath's directory so a relocated workspace
// keeps working.
func Link(strategy LinkStrategy, linkPath, target string) (used LinkStrategy, err error) {
	switch strategy {
	case StrategySymlink:
		relTarget := target
		if rel, err := filepath.Rel(filepath.Dir(linkPath), target); err == nil {
			relTarget = rel
		}
		if err := os.Symlink(relTarget, linkPath); err == nil {
			return StrategySymlink, nil
		}
	case StrategyJunction:
		if err := createJunction(linkPath, target); err == nil {
			return StrategyJunction, nil
		}
	}

	if err := copyTree(target, linkPath); err != nil {
		return "", err
	}
	return StrategyCopy, nil
}
