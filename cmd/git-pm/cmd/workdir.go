// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

// resolveWorkDir returns the workspace directory to operate in: the --dir
// flag's value, or "." (the current directory) when unset.
func resolveWorkDir() string {
	if workDir != "" {
		return workDir
	}
	return "."
}
