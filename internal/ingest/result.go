// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ingest

import "fmt"

// Result contains the outcome of one pipeline run. Non-fatal conditions
// are counted and collected here for operator visibility; they never
// interrupt the run.
type Result struct {
	RunID string

	Authors       int
	Categories    int
	Tags          int
	Posts         int
	Pages         int
	Attachments   int
	Comments      int
	MetaEntries   int
	ExternalLinks int
	Backlinks     int64

	// Skipped counts records dropped for an unparseable mandatory ID.
	Skipped int
	// UnresolvedTerms counts taxonomy references whose nicename matched no
	// indexed term. Counted, never an error.
	UnresolvedTerms int

	Errors []string
}

// AddError records a non-fatal error message.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any non-fatal errors were recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// TotalItems returns the number of channel items ingested.
func (r *Result) TotalItems() int {
	return r.Posts + r.Pages + r.Attachments
}
