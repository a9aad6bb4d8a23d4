// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command wxr ingests a WordPress WXR export document into a normalized
// SQLite store, including SEO metadata and the internal-link graph used to
// rank pages by inbound link count.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/olegiv/wxr-go/internal/config"
	"github.com/olegiv/wxr-go/internal/ingest"
	"github.com/olegiv/wxr-go/internal/links"
	"github.com/olegiv/wxr-go/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion = "dev"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; environment variables win if both are set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	documentPath := flag.String("document", cfg.DocumentPath, "path to the WXR export document")
	dbPath := flag.String("db", cfg.DBPath, "path to the SQLite store")
	siteDomain := flag.String("domain", cfg.SiteDomain, "the site's own domain, for internal/external link classification")
	cleanedPosts := flag.String("cleaned-posts", cfg.CleanedPostsDir, "directory of pre-cleaned HTML bodies for blog posts")
	cleanedPages := flag.String("cleaned-pages", cfg.CleanedPagesDir, "directory of pre-cleaned HTML bodies for pages")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wxr", appVersion)
		return nil
	}

	cfg.DocumentPath = *documentPath
	cfg.DBPath = *dbPath
	cfg.SiteDomain = *siteDomain
	cfg.CleanedPostsDir = *cleanedPosts
	cfg.CleanedPagesDir = *cleanedPages
	cfg.LogLevel = *logLevel

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return err
	}

	var extractor links.Extractor
	if cfg.LinkScanner == config.ScannerDOM {
		extractor = links.DOMExtractor{}
	}

	importer := ingest.New(db, logger, ingest.Options{
		DocumentPath:    cfg.DocumentPath,
		SiteDomain:      cfg.SiteDomain,
		CleanedPostsDir: cfg.CleanedPostsDir,
		CleanedPagesDir: cfg.CleanedPagesDir,
		Extractor:       extractor,
	})

	result, err := importer.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d authors, %d categories, %d tags, %d posts, %d pages, %d attachments, %d comments.\n",
		result.Authors, result.Categories, result.Tags,
		result.Posts, result.Pages, result.Attachments, result.Comments)
	fmt.Printf("Captured %d external links, resolved %d internal backlinks.\n",
		result.ExternalLinks, result.Backlinks)
	if result.Skipped > 0 || result.UnresolvedTerms > 0 {
		fmt.Printf("Skipped %d records, %d unresolved taxonomy references.\n",
			result.Skipped, result.UnresolvedTerms)
	}
	if result.HasErrors() {
		fmt.Printf("%d non-fatal errors; see the log for details.\n", len(result.Errors))
	}

	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
