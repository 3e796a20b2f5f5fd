// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
)

const (
	gitignoreBeginMarker = "# BEGIN git-pm"
	gitignoreEndMarker   = "# END git-pm"
)

// EnsureGitignoreEntries maintains a single labeled section inside
// workspaceRoot/.gitignore containing one entry per name in patterns, never
// touching any content outside that section. Calling this repeatedly with
// the same patterns is a no-op after the first run; calling it with a
// changed pattern set replaces only the labeled section's body.
func EnsureGitignoreEntries(workspaceRoot string, patterns []string) error {
	path := filepath.Join(workspaceRoot, ".gitignore")

	existing, err := readLines(path)
	if err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "read .gitignore", "path", path)
	}

	updated, changed := mergeGitignoreSection(existing, patterns)
	if !changed {
		return nil
	}

	content := strings.Join(updated, "\n")
	if len(updated) > 0 {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "write .gitignore", "path", path)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// mergeGitignoreSection rebuilds the git-pm labeled section in place
// (preserving its position if present, appending it otherwise) and reports
// whether the file content actually changed, so an already-up-to-date
// .gitignore is never rewritten. Patterns already covered by a line outside
// the managed section are omitted from it, so a user-authored entry (or a
// broader directory pattern the user already wrote) is never duplicated.
func mergeGitignoreSection(lines []string, patterns []string) ([]string, bool) {
	beginIdx, endIdx := -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == gitignoreBeginMarker {
			beginIdx = i
		} else if trimmed == gitignoreEndMarker && beginIdx != -1 {
			endIdx = i
			break
		}
	}

	var outside []string
	if beginIdx != -1 && endIdx != -1 {
		outside = append(outside, lines[:beginIdx]...)
		outside = append(outside, lines[endIdx+1:]...)
	} else {
		outside = lines
	}

	var needed []string
	for _, p := range patterns {
		if !patternAlreadyCovered(outside, p) {
			needed = append(needed, p)
		}
	}

	section := make([]string, 0, len(needed)+2)
	section = append(section, gitignoreBeginMarker)
	section = append(section, needed...)
	section = append(section, gitignoreEndMarker)

	if beginIdx == -1 || endIdx == -1 {
		if len(lines) > 0 {
			out := append(append([]string{}, lines...), section...)
			return out, true
		}
		return section, true
	}

	current := lines[beginIdx : endIdx+1]
	if sameLines(current, section) {
		return lines, false
	}

	out := make([]string, 0, len(lines)-len(current)+len(section))
	out = append(out, lines[:beginIdx]...)
	out = append(out, section...)
	out = append(out, lines[endIdx+1:]...)
	return out, true
}

// patternAlreadyCovered reports whether pattern is already ignored by some
// line in lines: either the same pattern modulo a leading/trailing slash,
// or a broader directory pattern that pattern falls under.
func patternAlreadyCovered(lines []string, pattern string) bool {
	norm := normalizeGitignorePattern(pattern)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		existing := normalizeGitignorePattern(trimmed)
		if existing == norm {
			return true
		}
		if existing != "" && strings.HasPrefix(norm, existing+"/") {
			return true
		}
	}
	return false
}

func normalizeGitignorePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	return p
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
