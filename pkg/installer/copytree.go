// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package installer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
)

// copyTree recursively copies src onto dst, creating dst and any needed
// parents. Used as the link-strategy fallback.
func copyTree(src, dst string) error {
	return copyTreeFiltered(src, dst, false)
}

// copyTreeSkippingGitDir recursively copies src onto dst like copyTree, but
// excludes any top-level ".git" entry so a Git-sourced package materialized
// from its cache entry ends up a plain directory, not a git checkout.
func copyTreeSkippingGitDir(src, dst string) error {
	return copyTreeFiltered(src, dst, true)
}

func copyTreeFiltered(src, dst string, skipGitDir bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "stat copy source", "path", src)
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create copy destination", "path", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "read copy source", "path", src)
	}

	for _, entry := range entries {
		if skipGitDir && entry.Name() == ".git" {
			continue
		}

		srcChild := filepath.Join(src, entry.Name())
		dstChild := filepath.Join(dst, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Readlink(srcChild)
			if err != nil {
				return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "read symlink", "path", srcChild)
			}
			if err := os.Symlink(target, dstChild); err != nil {
				return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "recreate symlink", "path", dstChild)
			}
			continue
		}

		// Only the top level is filtered: a nested ".git" belongs to the
		// package's own content, not cache metadata.
		if err := copyTreeFiltered(srcChild, dstChild, false); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "open copy source", "path", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create copy destination parent", "path", dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "create copy destination", "path", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "copy file contents", "path", dst)
	}

	return nil
}

// removeExisting deletes an existing install target, tolerating read-only
// files left over from a prior copy-fallback materialization; removal must
// not fail merely because files are read-only.
func removeExisting(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "stat existing install path", "path", path)
	}

	_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.Mode()&0o200 == 0 {
			_ = os.Chmod(p, info.Mode()|0o200)
		}
		return nil
	})

	if err := os.RemoveAll(path); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "remove existing install path", "path", path)
	}
	return nil
}
