// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package cache implements the content-addressed sparse-checkout cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Warrenn/git-pm/pkg/gitref"
)

// Key computes the 16-hex-character cache key: a prefix of a cryptographic
// hash over (RepoId, path, ref_type, ref_value). For branches, ref_value
// must already be the resolved commit, not the branch name, so callers
// must resolve a Branch ref before calling Key.
func Key(repo gitref.RepoId, path string, refKind gitref.Kind, refValue string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", repo.String(), path, refKind, refValue)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
