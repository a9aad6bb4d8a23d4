// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package links extracts hyperlinks from rendered bodies, classifies them
// against the site's own domain, and resolves the internal link graph into
// per-post backlink counts.
package links

import (
	"net/url"
	"strings"
)

// NormalizePath canonicalizes a URL into a comparable path key: scheme and
// host are discarded, leading and trailing slashes trimmed. Empty input
// yields "". Both sides of every internal-link comparison go through this
// one function; matching silently fails otherwise.
func NormalizePath(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		// Not parseable as a URL; treat the whole value as a path.
		return strings.Trim(rawURL, "/")
	}

	return strings.Trim(u.Path, "/")
}
