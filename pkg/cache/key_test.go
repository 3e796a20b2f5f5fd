// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cache

import (
	"testing"

	"github.com/Warrenn/git-pm/pkg/gitref"
)

func TestKeyIsDeterministicAndSixteenHexChars(t *testing.T) {
	repo := gitref.Parse("github.com/acme/widget")

	a := Key(repo, "sub", gitref.KindCommit, "deadbeef")
	b := Key(repo, "sub", gitref.KindCommit, "deadbeef")
	if a != b {
		t.Errorf("Key is not deterministic: %q != %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Key length = %d, want 16", len(a))
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	repo := gitref.Parse("github.com/acme/widget")
	other := gitref.Parse("github.com/acme/gadget")

	base := Key(repo, "sub", gitref.KindCommit, "deadbeef")

	cases := map[string]string{
		"different repo":     Key(other, "sub", gitref.KindCommit, "deadbeef"),
		"different path":     Key(repo, "other-sub", gitref.KindCommit, "deadbeef"),
		"different ref kind": Key(repo, "sub", gitref.KindTag, "deadbeef"),
		"different ref value": Key(repo, "sub", gitref.KindCommit, "cafef00d"),
	}

	for name, got := range cases {
		if got == base {
			t.Errorf("%s: expected a different key, got the same %q", name, got)
		}
	}
}
