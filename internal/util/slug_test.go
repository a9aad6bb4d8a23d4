// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"accents removed", "Crème Brûlée", "creme-brulee"},
		{"special characters stripped", "What?! A post...", "what-a-post"},
		{"multiple hyphens collapsed", "a -- b", "a-b"},
		{"already a slug", "hello-world", "hello-world"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid slug", "hello-world", true},
		{"valid with digits", "post-123", true},
		{"valid with underscore", "my_post", true},
		{"empty", "", false},
		{"uppercase", "Hello", false},
		{"spaces", "hello world", false},
		{"path traversal", "../etc/passwd", false},
		{"leading hyphen", "-hello", false},
		{"trailing hyphen", "hello-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSlug(tt.input))
		})
	}
}
