// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
)

// EnvFileName is the generated environment file's conventional name at the
// workspace root.
const EnvFileName = ".git-pm.env"

var envNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]`)

// WriteEnvFile renders GIT_PM_PACKAGES_DIR, GIT_PM_PROJECT_ROOT, and one
// GIT_PM_PACKAGE_<NAME> per installed package, sorted by name for
// reproducible output, and writes it to workspaceRoot/EnvFileName.
func WriteEnvFile(workspaceRoot, packagesDir string, packagePaths map[string]string) error {
	names := make([]string, 0, len(packagePaths))
	for name := range packagePaths {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "GIT_PM_PACKAGES_DIR=%s\n", packagesDir)
	fmt.Fprintf(&b, "GIT_PM_PROJECT_ROOT=%s\n", workspaceRoot)
	for _, name := range names {
		fmt.Fprintf(&b, "GIT_PM_PACKAGE_%s=%s\n", envVarSuffix(name), packagePaths[name])
	}

	path := filepath.Join(workspaceRoot, EnvFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return gitpmerr.Wrap(gitpmerr.KindWriteFailure, err, "write environment file", "path", path)
	}
	return nil
}

// envVarSuffix upper-cases name and replaces every character outside
// [A-Za-z0-9_] with an underscore, so package names containing dashes or
// dots still produce valid shell variable names.
func envVarSuffix(name string) string {
	upper := strings.ToUpper(name)
	return envNameSanitizer.ReplaceAllString(upper, "_")
}
