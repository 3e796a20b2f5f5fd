// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package urlresolve, given a RepoId and the effective config, produces a
// git-clonable fetch URL and an optional extra-header for authentication.
// Resolution is a pure function of (RepoId, Config, Env); no code reads the
// environment deep inside the fetcher.
package urlresolve

import (
	"fmt"
	"strings"

	"github.com/Warrenn/git-pm/pkg/config"
	"github.com/Warrenn/git-pm/pkg/gitref"
)

const azureHost = "dev.azure.com"

// Env is a snapshot of the process environment variables this resolver
// consults. Taking it as a value (rather than reading os.Getenv internally)
// keeps resolution deterministic and testable.
type Env struct {
	// AzureDevopsPat is AZURE_DEVOPS_PAT.
	AzureDevopsPat string
	// SystemAccessToken is SYSTEM_ACCESSTOKEN (Azure Pipelines).
	SystemAccessToken string
	// HostTokens maps a host (dots as-is) to the value of
	// GIT_PM_TOKEN_<host_with_dots_as_underscores>.
	HostTokens map[string]string
}

// NewEnvFromOSEnviron builds an Env from a process environment slice
// (os.Environ()), so callers at the cmd boundary control the exact snapshot
// passed down.
func NewEnvFromOSEnviron(environ []string) Env {
	env := Env{HostTokens: map[string]string{}}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case k == "AZURE_DEVOPS_PAT":
			env.AzureDevopsPat = v
		case k == "SYSTEM_ACCESSTOKEN":
			env.SystemAccessToken = v
		case strings.HasPrefix(k, "GIT_PM_TOKEN_"):
			host := strings.ReplaceAll(strings.TrimPrefix(k, "GIT_PM_TOKEN_"), "_", ".")
			env.HostTokens[strings.ToLower(host)] = v
		}
	}

	return env
}

// Resolution is the output of Resolve: a fetch URL and the git
// "http.extraheader" value to apply for that one fetch, if any.
type Resolution struct {
	FetchURL    string
	ExtraHeader string // empty unless a bearer-style header is required
}

// Resolve applies five recognition rules in order, first match wins. It
// never fails: an unrecognized host with no applicable rule falls through
// to plain SSH (rule 5), and authentication failure surfaces later as a
// fetch error when the fetcher actually talks to the remote.
func Resolve(repo gitref.RepoId, cfg config.Config, env Env) Resolution {
	// Rule 1: explicit per-host URL pattern override.
	if tmpl, ok := cfg.URLPatterns[repo.Host]; ok {
		return Resolution{FetchURL: strings.ReplaceAll(tmpl, "{path}", repo.Path)}
	}

	// Rule 2: Azure DevOps with any available auth source.
	if repo.Host == azureHost {
		if env.SystemAccessToken != "" {
			return Resolution{
				FetchURL:    azureHTTPSURL(repo, ""),
				ExtraHeader: fmt.Sprintf("Authorization: bearer %s", env.SystemAccessToken),
			}
		}
		pat := env.AzureDevopsPat
		if pat == "" {
			pat = cfg.AzureDevopsPat
		}
		if pat != "" {
			return Resolution{FetchURL: azureHTTPSURL(repo, pat)}
		}
	}

	// Rule 3: generic per-host token from the environment.
	if token, ok := env.HostTokens[repo.Host]; ok && token != "" {
		userinfo := "oauth2:" + token
		if bareTokenHost(repo.Host) {
			userinfo = token
		}
		return Resolution{FetchURL: fmt.Sprintf("https://%s@%s/%s", userinfo, repo.Host, repo.Path)}
	}

	// Rule 4: configured protocol preference.
	if strings.EqualFold(cfg.GitProtocol[repo.Host], "https") {
		return Resolution{FetchURL: fmt.Sprintf("https://%s/%s", repo.Host, repo.Path)}
	}

	// Rule 5: fall through to SSH.
	if repo.Host == azureHost {
		return Resolution{FetchURL: azureSSHURL(repo)}
	}
	return Resolution{FetchURL: fmt.Sprintf("git@%s:%s", repo.Host, repo.Path)}
}

// bareTokenHost reports whether a host's generic-token providers expect the
// token as bare userinfo rather than an "oauth2:" prefixed one. Gitea
// accepts a bare token; GitHub and GitLab expect the "oauth2:" form. Since
// GIT_PM_TOKEN_<host> is host-keyed rather than provider-keyed, the
// distinction is made by host substring.
func bareTokenHost(host string) bool {
	return strings.Contains(host, "gitea")
}

// azureHTTPSURL builds the HTTPS "/_git/" form. If pat is non-empty it is
// embedded as URL userinfo; otherwise no userinfo is added (used when a
// bearer extra-header carries the credential instead).
func azureHTTPSURL(repo gitref.RepoId, pat string) string {
	path := withGitSegment(repo.Path)
	if pat == "" {
		return fmt.Sprintf("https://%s/%s", repo.Host, path)
	}
	return fmt.Sprintf("https://%s@%s/%s", pat, repo.Host, path)
}

// azureSSHURL builds "git@ssh.dev.azure.com:v3/org/project/repo" from a
// normalized "org/project/repo" RepoId path.
func azureSSHURL(repo gitref.RepoId) string {
	return fmt.Sprintf("git@ssh.%s:v3/%s", repo.Host, repo.Path)
}

// withGitSegment inserts the Azure DevOps "_git" marker before the final
// path segment: "org/project/repo" -> "org/project/_git/repo".
func withGitSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "_git/" + path
	}
	return path[:idx] + "/_git/" + path[idx+1:]
}
