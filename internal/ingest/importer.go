// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ingest sequences the WXR ingestion pipeline: parse the document,
// extract site info, ingest authors, categories, tags and items, then run
// the backlink resolver. Each entity pass commits at its end, so a
// mid-pipeline failure keeps the already-committed passes.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wxr-go/internal/links"
	"github.com/olegiv/wxr-go/internal/model"
	"github.com/olegiv/wxr-go/internal/store"
	"github.com/olegiv/wxr-go/internal/util"
	"github.com/olegiv/wxr-go/internal/wxr"
)

// activePluginsPlaceholder is stored when the export carries no plugin
// information, which WXR never does.
const activePluginsPlaceholder = "Placeholder: Could not determine active plugins from this XML."

// Options configure one pipeline run.
type Options struct {
	DocumentPath string
	SiteDomain   string

	// Optional cleaned-HTML override directories, blog posts first.
	CleanedPostsDir string
	CleanedPagesDir string

	// Extractor selects the link scanning implementation; nil means the
	// regex default.
	Extractor links.Extractor
}

// Importer runs the ingestion pipeline against one store. The pipeline is
// single-threaded and assumes exclusive access to the store for the
// duration of a run.
type Importer struct {
	db        *sql.DB
	queries   *store.Queries
	logger    *slog.Logger
	opts      Options
	scanner   *links.Scanner
	overrides *OverrideLoader
}

// New creates an Importer. The database connection is owned by the caller
// and must outlive the run.
func New(db *sql.DB, logger *slog.Logger, opts Options) *Importer {
	return &Importer{
		db:        db,
		queries:   store.New(db),
		logger:    logger,
		opts:      opts,
		scanner:   links.NewScanner(opts.SiteDomain, opts.Extractor),
		overrides: NewOverrideLoader(logger, opts.CleanedPostsDir, opts.CleanedPagesDir),
	}
}

// Run executes the full pipeline. Fatal errors abort the run and name the
// phase that failed; passes committed before the failure remain valid.
func (i *Importer) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.New().String()}

	f, err := os.Open(i.opts.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("parse phase: opening document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := wxr.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse phase: %w", err)
	}

	channel, err := doc.Channel()
	if err != nil {
		return nil, fmt.Errorf("parse phase: %w", err)
	}

	startedAt := time.Now().UTC()
	if err := i.queries.CreateImportRun(ctx, model.ImportRun{
		ID:           result.RunID,
		DocumentPath: i.opts.DocumentPath,
		SiteDomain:   i.opts.SiteDomain,
		StartedAt:    startedAt,
	}); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	i.logger.Info("ingestion started",
		"run_id", result.RunID,
		"document", i.opts.DocumentPath,
		"domain", i.opts.SiteDomain)

	if err := i.inTx(ctx, "site info ingestion", func(q *store.Queries) error {
		return i.ingestSiteInfo(ctx, q, doc, channel)
	}); err != nil {
		return result, err
	}

	if err := i.inTx(ctx, "author ingestion", func(q *store.Queries) error {
		return i.ingestAuthors(ctx, q, doc, channel, result)
	}); err != nil {
		return result, err
	}

	if err := i.inTx(ctx, "category ingestion", func(q *store.Queries) error {
		return i.ingestCategories(ctx, q, doc, channel, result)
	}); err != nil {
		return result, err
	}

	if err := i.inTx(ctx, "tag ingestion", func(q *store.Queries) error {
		return i.ingestTags(ctx, q, doc, channel, result)
	}); err != nil {
		return result, err
	}

	var items []*wxr.Item
	if err := i.inTx(ctx, "item ingestion", func(q *store.Queries) error {
		items, err = i.ingestItems(ctx, q, doc, channel, result)
		return err
	}); err != nil {
		return result, err
	}

	if err := i.inTx(ctx, "backlink resolution", func(q *store.Queries) error {
		resolver := links.NewResolver(q, i.scanner, i.logger)
		total, err := resolver.Resolve(ctx, items)
		result.Backlinks = total
		return err
	}); err != nil {
		return result, err
	}

	if err := i.queries.FinishImportRun(ctx, store.FinishImportRunParams{
		ID:          result.RunID,
		FinishedAt:  sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Posts:       int64(result.Posts),
		Pages:       int64(result.Pages),
		Attachments: int64(result.Attachments),
		Comments:    int64(result.Comments),
		Backlinks:   result.Backlinks,
		Skipped:     int64(result.Skipped),
		ErrorCount:  int64(len(result.Errors)),
	}); err != nil {
		return result, fmt.Errorf("recording run: %w", err)
	}

	i.logger.Info("ingestion finished",
		"run_id", result.RunID,
		"items", result.TotalItems(),
		"comments", result.Comments,
		"backlinks", result.Backlinks,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	return result, nil
}

// inTx runs one pipeline pass in its own transaction, committing at the
// end. The phase name is carried in any fatal error.
func (i *Importer) inTx(ctx context.Context, phase string, fn func(q *store.Queries) error) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: starting transaction: %w", phase, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(i.queries.WithTx(tx)); err != nil {
		return fmt.Errorf("%s: %w", phase, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: committing: %w", phase, err)
	}
	return nil
}

// ingestSiteInfo stores document-level metadata from the channel header.
func (i *Importer) ingestSiteInfo(ctx context.Context, q *store.Queries, doc *wxr.Document, channel *wxr.Element) error {
	if err := q.SetSiteInfo(ctx, model.SiteInfoTitle, doc.Text(channel, "title")); err != nil {
		return err
	}
	if err := q.SetSiteInfo(ctx, model.SiteInfoDescription, doc.Text(channel, "description")); err != nil {
		return err
	}

	// Clear stale plugin entries from a previous ingestion.
	if err := q.DeleteSiteInfoPrefix(ctx, "plugin_"); err != nil {
		return err
	}
	return q.SetSiteInfo(ctx, model.SiteInfoActivePlugins, activePluginsPlaceholder)
}

func (i *Importer) ingestAuthors(ctx context.Context, q *store.Queries, doc *wxr.Document, channel *wxr.Element, result *Result) error {
	for _, el := range doc.FindAll(channel, wxr.PrefixWP, "author") {
		author, err := wxr.ParseAuthor(doc, el)
		if err != nil {
			i.skipRecord(result, err)
			continue
		}
		if err := q.CreateAuthor(ctx, author); err != nil {
			return err
		}
		result.Authors++
	}
	return nil
}

func (i *Importer) ingestCategories(ctx context.Context, q *store.Queries, doc *wxr.Document, channel *wxr.Element, result *Result) error {
	for _, el := range doc.FindAll(channel, wxr.PrefixWP, "category") {
		category, err := wxr.ParseCategory(doc, el)
		if err != nil {
			i.skipRecord(result, err)
			continue
		}
		if err := q.CreateCategory(ctx, category); err != nil {
			return err
		}
		result.Categories++
	}
	return nil
}

func (i *Importer) ingestTags(ctx context.Context, q *store.Queries, doc *wxr.Document, channel *wxr.Element, result *Result) error {
	for _, el := range doc.FindAll(channel, wxr.PrefixWP, "tag") {
		tag, err := wxr.ParseTag(doc, el)
		if err != nil {
			i.skipRecord(result, err)
			continue
		}
		if err := q.CreateTag(ctx, tag); err != nil {
			return err
		}
		result.Tags++
	}
	return nil
}

// ingestItems processes every channel item and returns the normalized
// records for the backlink resolver's later passes.
func (i *Importer) ingestItems(ctx context.Context, q *store.Queries, doc *wxr.Document, channel *wxr.Element, result *Result) ([]*wxr.Item, error) {
	var items []*wxr.Item

	for _, el := range doc.FindAll(channel, "", "item") {
		item, err := wxr.ParseItem(doc, el)
		if err != nil {
			i.skipRecord(result, err)
			continue
		}
		if item == nil {
			// Not an ingestible type (nav menu item, custom type).
			continue
		}

		if item.IsContent() {
			slug := item.PostName
			if slug == "" {
				// Drafts can lack a post_name; derive one from the title.
				slug = util.Slugify(item.Title)
			}
			item.CleanedHTML = i.overrides.Load(slug)
		}

		if err := i.storeItem(ctx, q, item, result); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// storeItem persists one item and its dependent records.
func (i *Importer) storeItem(ctx context.Context, q *store.Queries, item *wxr.Item, result *Result) error {
	if err := q.UpsertPost(ctx, item.Post); err != nil {
		return fmt.Errorf("post %d: %w", item.PostID, err)
	}

	switch item.PostType {
	case model.PostTypePost:
		result.Posts++
	case model.PostTypePage:
		result.Pages++
	case model.PostTypeAttachment:
		result.Attachments++
	}

	for _, ref := range item.Taxonomy {
		if err := i.linkTaxonomy(ctx, q, item.PostID, ref, result); err != nil {
			return err
		}
	}

	for _, meta := range item.Meta {
		if err := q.CreatePostMeta(ctx, item.PostID, meta.Key, meta.Value); err != nil {
			return fmt.Errorf("post %d meta %q: %w", item.PostID, meta.Key, err)
		}
		result.MetaEntries++
	}

	for _, comment := range item.Comments {
		if err := q.CreateComment(ctx, comment); err != nil {
			return fmt.Errorf("comment %d: %w", comment.CommentID, err)
		}
		result.Comments++
	}
	for _, warning := range item.Warnings {
		i.logger.Warn("record skipped", "reason", warning)
		result.Skipped++
		result.AddError("%s", warning)
	}

	if item.IsContent() && item.ContentEncoded != "" {
		if err := i.captureExternalLinks(ctx, q, item, result); err != nil {
			return err
		}
	}

	return nil
}

// linkTaxonomy resolves one taxonomy reference by nicename and records the
// join row. An unmatched nicename produces no row and no error.
func (i *Importer) linkTaxonomy(ctx context.Context, q *store.Queries, postID int64, ref model.TaxonomyRef, result *Result) error {
	switch {
	case ref.IsCategory():
		termID, err := q.GetCategoryIDByNicename(ctx, ref.Nicename)
		if errors.Is(err, sql.ErrNoRows) {
			i.unresolvedTerm(result, postID, ref)
			return nil
		}
		if err != nil {
			return fmt.Errorf("post %d category %q: %w", postID, ref.Nicename, err)
		}
		return q.AddPostCategory(ctx, postID, termID)
	case ref.IsTag():
		termID, err := q.GetTagIDByNicename(ctx, ref.Nicename)
		if errors.Is(err, sql.ErrNoRows) {
			i.unresolvedTerm(result, postID, ref)
			return nil
		}
		if err != nil {
			return fmt.Errorf("post %d tag %q: %w", postID, ref.Nicename, err)
		}
		return q.AddPostTag(ctx, postID, termID)
	}
	return nil
}

// captureExternalLinks records outbound hyperlink occurrences found in the
// item body, keyed per occurrence so re-ingestion does not duplicate them.
func (i *Importer) captureExternalLinks(ctx context.Context, q *store.Queries, item *wxr.Item, result *Result) error {
	occurrences := make(map[string]int64)
	for _, url := range i.scanner.ExternalLinks(item.ContentEncoded) {
		link := model.ExternalLink{
			SourcePostID:    item.PostID,
			SourcePostTitle: item.Title,
			LinkedURL:       url,
			OccurrenceIndex: occurrences[url],
		}
		occurrences[url]++

		if err := q.CreateExternalLink(ctx, link); err != nil {
			return fmt.Errorf("post %d external link %q: %w", item.PostID, url, err)
		}
		result.ExternalLinks++
	}
	return nil
}

func (i *Importer) skipRecord(result *Result, err error) {
	i.logger.Warn("record skipped", "reason", err.Error())
	result.Skipped++
	result.AddError("%s", err.Error())
}

func (i *Importer) unresolvedTerm(result *Result, postID int64, ref model.TaxonomyRef) {
	i.logger.Warn("unresolved taxonomy reference",
		"post_id", postID, "domain", ref.Domain, "nicename", ref.Nicename)
	result.UnresolvedTerms++
}
