// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

// FileName is the base name of a git-pm config file, at either scope.
const FileName = ".git-pm-config.yaml"

// Config is the closed set of recognized git-pm configuration keys.
//
// Example project-scope file:
//
//	packages_dir: .git-packages
//	git_protocol:
//	  dev.azure.com: https
//	url_patterns:
//	  git.internal.example.com: "https://git.internal.example.com/{path}.git"
type Config struct {
	// PackagesDir is the workspace install root, relative to the workspace
	// root unless absolute.
	PackagesDir string `yaml:"packages_dir,omitempty"`

	// CacheDir is the cache root. Defaults to user-cache-root/git-pm.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// GitProtocol maps a host to "ssh" or "https", consulted by the URL
	// resolver (rule 4) when no more specific rule applies.
	GitProtocol map[string]string `yaml:"git_protocol,omitempty"`

	// URLPatterns maps a host to a URL template containing a "{path}"
	// placeholder, consulted by the URL resolver (rule 1) before anything
	// else.
	URLPatterns map[string]string `yaml:"url_patterns,omitempty"`

	// AzureDevopsPat is a statically configured Azure DevOps personal
	// access token, used by the URL resolver when no environment-provided
	// token is present.
	AzureDevopsPat string `yaml:"azure_devops_pat,omitempty"`
}

// recognizedKeys is the closed set accepted by the "config" command.
var recognizedKeys = map[string]bool{
	"packages_dir":     true,
	"cache_dir":        true,
	"git_protocol":     true,
	"url_patterns":     true,
	"azure_devops_pat": true,
}

// IsRecognizedKey reports whether key is one of the closed set of config
// keys. Unknown keys are rejected by the "config" command with
// UnknownConfigKey.
func IsRecognizedKey(key string) bool {
	return recognizedKeys[key]
}

// Source identifies which layer a resolved value came from, for
// "config --list" provenance reporting.
type Source string

const (
	SourceDefault Source = "default"
	SourceUser    Source = "user"
	SourceProject Source = "project"
)

// Effective is the frozen, merged configuration plus provenance of each
// top-level key, consumed by every other component.
type Effective struct {
	Config

	// Sources records which layer supplied each top-level key's final
	// value, keyed by the yaml tag name (e.g. "packages_dir").
	Sources map[string]Source
}
