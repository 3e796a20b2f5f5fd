// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

//go:build windows

package installer

import "os/exec"

// createJunction creates an NTFS directory junction at link pointing at
// target, via mklink /J. Go's standard library has no portable junction
// primitive, so this shells out the same way the rest of the codebase
// shells out to git.
func createJunction(link, target string) error {
	return exec.Command("cmd", "/c", "mklink", "/J", link, target).Run()
}
