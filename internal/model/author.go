// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the canonical record shapes produced by WXR
// normalization and persisted by the store.
package model

// Author represents one wp:author channel entry. Login is the natural key
// referenced by dc:creator on items.
type Author struct {
	AuthorID    int64  `json:"author_id"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// FullName returns first and last name joined, falling back to the display
// name, then the login.
func (a *Author) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.DisplayName != "":
		return a.DisplayName
	default:
		return a.Login
	}
}
