// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strconv"
)

// NullStringFromValue creates a sql.NullString from a string value.
// Returns a valid NullString if the string is non-empty, otherwise returns an invalid one.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringValue returns the string held by a sql.NullString, or "" when invalid.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ParseIntOrZero parses a string into an int64, returning 0 when the string
// is empty or not numeric. WXR optional numeric fields (post_parent,
// menu_order, comment_count, comment_parent, comment_user_id) default to 0.
func ParseIntOrZero(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseRequiredInt parses a mandatory numeric identifier. Unlike
// ParseIntOrZero, an empty or malformed value is an error: stable IDs come
// from the source document and a record without one cannot be stored.
func ParseRequiredInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
