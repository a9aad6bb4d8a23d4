// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Link scanner implementations selectable via WXR_LINK_SCANNER.
const (
	ScannerRegex = "regex"
	ScannerDOM   = "dom"
)

// Config holds the application configuration loaded from environment variables.
// Document path, store location and site domain can also be passed as CLI
// flags, which take precedence.
type Config struct {
	DocumentPath string `env:"WXR_DOCUMENT"`
	DBPath       string `env:"WXR_DB_PATH" envDefault:"./data/wxr.db"`
	SiteDomain   string `env:"WXR_SITE_DOMAIN"`
	LogLevel     string `env:"WXR_LOG_LEVEL" envDefault:"info"`

	// Optional directories holding pre-cleaned HTML bodies keyed by post
	// slug, consulted read-only during ingestion. Blog posts first, pages
	// second.
	CleanedPostsDir string `env:"WXR_CLEANED_POSTS_DIR" envDefault:"./all_blog_posts"`
	CleanedPagesDir string `env:"WXR_CLEANED_PAGES_DIR" envDefault:"./all_pages"`

	// LinkScanner selects the href extraction implementation.
	LinkScanner string `env:"WXR_LINK_SCANNER" envDefault:"regex"`
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LinkScanner != ScannerRegex && cfg.LinkScanner != ScannerDOM {
		return nil, fmt.Errorf("WXR_LINK_SCANNER must be %q or %q, got %q",
			ScannerRegex, ScannerDOM, cfg.LinkScanner)
	}

	return cfg, nil
}

// Validate checks the inputs the ingestion core requires. They arrive from
// the caller (CLI flags or env) and only need to be non-empty.
func (c *Config) Validate() error {
	if c.DocumentPath == "" {
		return fmt.Errorf("document path is required (WXR_DOCUMENT or -document)")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required (WXR_DB_PATH or -db)")
	}
	if c.SiteDomain == "" {
		return fmt.Errorf("site domain is required (WXR_SITE_DOMAIN or -domain)")
	}
	return nil
}
