// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cache

import (
	"strings"

	"github.com/Warrenn/git-pm/internal/gitpmerr"
)

// authFailurePatterns are git stderr substrings that indicate the remote
// rejected credentials rather than being unreachable.
var authFailurePatterns = []string{
	"permission denied",
	"authentication failed",
	"could not read username",
	"could not read password",
	"invalid credentials",
	"access denied",
	"403",
}

// classifyRemoteError decides whether an ls-remote or fetch failure for a
// ref that exists but is unreachable under the selected auth is a
// NetworkError or an AuthFailed. It classifies by stderr content:
// credential/permission-shaped messages become AuthFailed, everything else
// (timeouts, DNS failures, connection refused, unexpected exits) becomes
// NetworkError.
func classifyRemoteError(stderr string, kv ...string) *gitpmerr.Error {
	lower := strings.ToLower(stderr)
	for _, pattern := range authFailurePatterns {
		if strings.Contains(lower, pattern) {
			return gitpmerr.New(gitpmerr.KindAuthFailed, strings.TrimSpace(stderr), kv...)
		}
	}
	return gitpmerr.New(gitpmerr.KindNetworkError, strings.TrimSpace(stderr), kv...)
}
