// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package links

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls href targets out of rendered HTML, in order of first
// appearance with duplicates preserved — each occurrence counts separately
// for backlink purposes. The seam exists so the pattern-matching default
// can be swapped for a real HTML parser without touching the resolver.
type Extractor interface {
	Links(body string) []string
}

var hrefPattern = regexp.MustCompile(`href=["']([^"']+)["']`)

// RegexExtractor matches href attributes by pattern. Fragile against
// malformed markup and nested quotes, but cheap and sufficient for
// exporter-rendered bodies.
type RegexExtractor struct{}

// Links implements Extractor.
func (RegexExtractor) Links(body string) []string {
	matches := hrefPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// DOMExtractor parses the body as HTML and collects anchor hrefs in
// document order. More tolerant of broken markup than the regex default.
type DOMExtractor struct{}

// Links implements Extractor.
func (DOMExtractor) Links(body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			out = append(out, href)
		}
	})
	return out
}

// Scanner classifies hyperlinks found in post bodies against the site's
// own domain.
type Scanner struct {
	domain    string
	extractor Extractor
}

// NewScanner creates a Scanner for the given site domain. A nil extractor
// defaults to the regex one.
func NewScanner(domain string, extractor Extractor) *Scanner {
	if extractor == nil {
		extractor = RegexExtractor{}
	}
	return &Scanner{domain: domain, extractor: extractor}
}

// Domain returns the configured site domain.
func (s *Scanner) Domain() string {
	return s.domain
}

// Links returns every href occurrence in the body, in order, duplicates
// preserved.
func (s *Scanner) Links(body string) []string {
	return s.extractor.Links(body)
}

// IsExternal reports whether a link leaves the site: an absolute http(s)
// URL that does not contain the site domain.
func (s *Scanner) IsExternal(link string) bool {
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return false
	}
	return !strings.Contains(link, s.domain)
}

// ExternalLinks returns the outbound hyperlink occurrences found in the
// body, in order, duplicates preserved.
func (s *Scanner) ExternalLinks(body string) []string {
	var out []string
	for _, link := range s.Links(body) {
		if s.IsExternal(link) {
			out = append(out, link)
		}
	}
	return out
}

// InternalCandidate reports whether a link may target the site's own
// content, and the normalized path to test against the known-path index.
// Absolute and scheme-relative URLs qualify when they contain the site
// domain; root-relative paths always qualify. Anchors, mail links and
// other schemes never do.
func (s *Scanner) InternalCandidate(link string) (string, bool) {
	switch {
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"), strings.HasPrefix(link, "//"):
		if !strings.Contains(link, s.domain) {
			return "", false
		}
	case strings.HasPrefix(link, "/"):
		// Root-relative: always a candidate.
	default:
		return "", false
	}
	return NormalizePath(link), true
}
