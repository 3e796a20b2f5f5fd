// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitref

import "testing"

func TestParseRepoId(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPath string
	}{
		{"bare shorthand", "github.com/acme/widget", "github.com", "acme/widget"},
		{"https url", "https://github.com/acme/widget", "github.com", "acme/widget"},
		{"https url with .git suffix", "https://github.com/acme/widget.git", "github.com", "acme/widget"},
		{"https url with embedded user", "https://git@github.com/acme/widget", "github.com", "acme/widget"},
		{"ssh url", "ssh://git@github.com/acme/widget.git", "github.com", "acme/widget"},
		{"ssh shorthand", "git@github.com:acme/widget.git", "github.com", "acme/widget"},
		{"uppercase host normalized", "GitHub.com/acme/widget", "github.com", "acme/widget"},
		{"azure devops with _git segment", "dev.azure.com/org/project/_git/repo", "dev.azure.com", "org/project/repo"},
		{"azure devops without _git segment", "dev.azure.com/org/project/repo", "dev.azure.com", "org/project/repo"},
		{"encoded path segment", "dev.azure.com/org/my%20project/repo", "dev.azure.com", "org/my project/repo"},
		{"host with port", "ssh://git@github.com:22/acme/widget.git", "github.com", "acme/widget"},
		{"leading and trailing whitespace", "  github.com/acme/widget  ", "github.com", "acme/widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Host != tt.wantHost || got.Path != tt.wantPath {
				t.Errorf("Parse(%q) = {%q, %q}, want {%q, %q}", tt.input, got.Host, got.Path, tt.wantHost, tt.wantPath)
			}
		})
	}
}

func TestRepoIdString(t *testing.T) {
	id := RepoId{Host: "github.com", Path: "acme/widget"}
	if got, want := id.String(), "github.com/acme/widget"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bare := RepoId{Host: "github.com"}
	if got, want := bare.String(), "github.com"; got != want {
		t.Errorf("String() with empty Path = %q, want %q", got, want)
	}
}

func TestRepoIdEqual(t *testing.T) {
	a := Parse("github.com/acme/widget")
	b := Parse("https://github.com/acme/widget.git")
	if !a.Equal(b) {
		t.Errorf("expected %v and %v (same repo, different input forms) to be equal", a, b)
	}

	c := Parse("github.com/acme/other")
	if a.Equal(c) {
		t.Errorf("expected %v and %v to be unequal", a, c)
	}
}

func TestRepoIdPathSegments(t *testing.T) {
	id := RepoId{Host: "dev.azure.com", Path: "org/project/repo"}
	got := id.PathSegments()
	want := []string{"org", "project", "repo"}
	if len(got) != len(want) {
		t.Fatalf("PathSegments() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PathSegments()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
