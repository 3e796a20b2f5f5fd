// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

//go:build !windows

package installer

import "errors"

// createJunction always fails on non-Windows platforms: junctions are an NTFS
// concept, so the probe always falls through to the copy strategy there.
func createJunction(string, string) error {
	return errors.New("junctions are not supported on this platform")
}
