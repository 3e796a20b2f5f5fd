// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package urlresolve

import "net/url"

// Mask returns urlStr with any embedded userinfo credential replaced by
// "***", safe to include in logs and progress events.
func Mask(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.User == nil {
		return urlStr
	}

	username := parsed.User.Username()
	_, hasPassword := parsed.User.Password()

	masked := "***"
	if hasPassword {
		masked = username + ":***"
	} else if username == "" {
		masked = ""
	}

	result := parsed.Scheme + "://"
	if masked != "" {
		result += masked + "@"
	}
	result += parsed.Host + parsed.RequestURI()
	return result
}
