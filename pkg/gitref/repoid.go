// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitref

import (
	"net/url"
	"strings"
)

// RepoId is an opaque, canonical, provider-agnostic repository identifier
// such as "github.com/owner/repo" or "dev.azure.com/org/project/repo". It is
// not a fetch URL: the URL resolver turns a RepoId plus Config into one.
type RepoId struct {
	// Host is the lower-cased, trimmed host segment.
	Host string
	// Path is the trimmed, "/"-joined, URL-decoded remainder, with no
	// leading/trailing slash and no trailing ".git".
	Path string
}

// String returns the canonical "host/path" form.
func (r RepoId) String() string {
	if r.Path == "" {
		return r.Host
	}
	return r.Host + "/" + r.Path
}

// Equal reports equality after normalization; both sides are expected to
// already be Parse'd so this is a plain field comparison.
func (r RepoId) Equal(other RepoId) bool {
	return r.Host == other.Host && r.Path == other.Path
}

// PathSegments splits Path on "/", filtering empty segments.
func (r RepoId) PathSegments() []string {
	parts := strings.Split(r.Path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Parse normalizes any of the accepted input forms into a RepoId:
//   - SSH shorthand: git@host:path
//   - ssh:// URL, with or without an embedded user
//   - https:// or http:// URL, with or without embedded user and with or
//     without a trailing ".git"
//   - Azure DevOps "_git/" segment, present or absent, in any of the above
//   - bare "host/path" shorthand
//
// Project path segments may be URL-encoded or contain literal spaces; both
// are accepted and normalized to literal (decoded) form.
func Parse(input string) RepoId {
	s := strings.TrimSpace(input)

	var host, rest string

	switch {
	case strings.HasPrefix(s, "ssh://"):
		host, rest = splitAuthorityPath(strings.TrimPrefix(s, "ssh://"))
	case strings.HasPrefix(s, "https://"):
		host, rest = splitAuthorityPath(strings.TrimPrefix(s, "https://"))
	case strings.HasPrefix(s, "http://"):
		host, rest = splitAuthorityPath(strings.TrimPrefix(s, "http://"))
	case strings.HasPrefix(s, "git@"):
		// git@host:path
		s = strings.TrimPrefix(s, "git@")
		if idx := strings.Index(s, ":"); idx >= 0 {
			host = s[:idx]
			rest = s[idx+1:]
		} else {
			host = s
		}
	default:
		// bare "host/path" shorthand
		host, rest = splitAuthorityPath(s)
	}

	host = strings.ToLower(strings.TrimSpace(host))
	rest = strings.TrimPrefix(rest, "/")
	rest = strings.TrimSuffix(rest, "/")
	rest = strings.TrimSuffix(rest, ".git")

	// Azure DevOps: both "org/project/_git/repo" and "org/project/repo" are
	// accepted; normalize away the "_git" marker segment.
	rest = strings.ReplaceAll(rest, "/_git/", "/")
	rest = strings.TrimPrefix(rest, "_git/")

	rest = decodeSegments(rest)

	return RepoId{Host: host, Path: rest}
}

// splitAuthorityPath splits "user@host:port/path..." or "host/path..." into
// (host, path), discarding any userinfo and port.
func splitAuthorityPath(s string) (string, string) {
	if idx := strings.Index(s, "@"); idx >= 0 {
		s = s[idx+1:]
	}

	idx := strings.IndexAny(s, "/")
	if idx < 0 {
		return stripPort(s), ""
	}
	return stripPort(s[:idx]), s[idx+1:]
}

func stripPort(hostAndPort string) string {
	if idx := strings.LastIndex(hostAndPort, ":"); idx >= 0 {
		return hostAndPort[:idx]
	}
	return hostAndPort
}

// decodeSegments URL-decodes each "/"-separated path segment independently,
// tolerating segments that aren't percent-encoded (literal spaces included).
func decodeSegments(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if decoded, err := url.PathUnescape(s); err == nil {
			segs[i] = decoded
		}
	}
	return strings.Join(segs, "/")
}
