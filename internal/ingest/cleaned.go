// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ingest

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/olegiv/wxr-go/internal/util"
)

// OverrideLoader reads pre-cleaned HTML bodies keyed by post slug from a
// fixed priority order of directories: blog posts first, pages second.
// Absence of a file is not an error; the field stays null and display
// falls back to the rendered body.
type OverrideLoader struct {
	dirs   []string
	logger *slog.Logger
}

// NewOverrideLoader creates a loader over the given directories. Empty
// directory entries are skipped.
func NewOverrideLoader(logger *slog.Logger, dirs ...string) *OverrideLoader {
	var existing []string
	for _, dir := range dirs {
		if dir != "" {
			existing = append(existing, dir)
		}
	}
	return &OverrideLoader{dirs: existing, logger: logger}
}

// Load returns the cleaned HTML override for a slug, or an invalid
// NullString when no override exists. The slug is validated before it is
// used in a filesystem path.
func (l *OverrideLoader) Load(slug string) sql.NullString {
	if !util.IsValidSlug(slug) {
		return sql.NullString{}
	}

	for _, dir := range l.dirs {
		path, err := util.SafeJoinPath(dir, slug+".html")
		if err != nil {
			l.logger.Warn("cleaned HTML path rejected", "slug", slug, "dir", dir, "error", err)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				l.logger.Warn("reading cleaned HTML", "path", path, "error", err)
			}
			continue
		}

		return sql.NullString{String: string(data), Valid: true}
	}

	return sql.NullString{}
}
