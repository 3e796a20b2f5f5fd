// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package workspace generates the per-workspace environment file,
// maintains a labeled section of .gitignore, and cascades removal of
// packages that are no longer reachable from any manifest.
package workspace
