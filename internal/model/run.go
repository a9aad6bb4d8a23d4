// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// ImportRun records one pipeline execution for operator visibility.
type ImportRun struct {
	ID           string       `json:"id"`
	DocumentPath string       `json:"document_path"`
	SiteDomain   string       `json:"site_domain"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   sql.NullTime `json:"finished_at,omitempty"`
	Posts        int64        `json:"posts"`
	Pages        int64        `json:"pages"`
	Attachments  int64        `json:"attachments"`
	Comments     int64        `json:"comments"`
	Backlinks    int64        `json:"backlinks"`
	Skipped      int64        `json:"skipped"`
	ErrorCount   int64        `json:"error_count"`
}

// SiteInfo keys written by ingestion.
const (
	SiteInfoTitle         = "title"
	SiteInfoDescription   = "description"
	SiteInfoActivePlugins = "active_plugins"
)
