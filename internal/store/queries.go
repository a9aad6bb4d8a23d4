// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/olegiv/wxr-go/internal/model"
)

// DBTX is the subset of database/sql used by Queries, satisfied by both
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries exposes the store's write primitives and read queries.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to the given database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// SetSiteInfo writes one document-level metadata entry, replacing any
// previous value for the key.
func (q *Queries) SetSiteInfo(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO site_info (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetSiteInfo returns the value stored for a site_info key.
func (q *Queries) GetSiteInfo(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM site_info WHERE key = ?`, key).Scan(&value)
	return value, err
}

// DeleteSiteInfoPrefix removes site_info entries whose key starts with the
// given prefix. Used to clear stale plugin entries before re-ingestion.
func (q *Queries) DeleteSiteInfoPrefix(ctx context.Context, prefix string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM site_info WHERE key LIKE ? || '%'`, prefix)
	return err
}

// CreateAuthor inserts an author with insert-or-ignore semantics: the first
// write wins and the row is never updated afterwards.
func (q *Queries) CreateAuthor(ctx context.Context, a model.Author) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO authors (author_id, login, email, display_name, first_name, last_name)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.AuthorID, a.Login, a.Email, a.DisplayName, a.FirstName, a.LastName)
	return err
}

// GetAuthorByLogin looks up an author by login, the natural key items join on.
func (q *Queries) GetAuthorByLogin(ctx context.Context, login string) (model.Author, error) {
	var a model.Author
	err := q.db.QueryRowContext(ctx, `
		SELECT author_id, login, email, display_name, first_name, last_name
		FROM authors WHERE login = ?`, login).
		Scan(&a.AuthorID, &a.Login, &a.Email, &a.DisplayName, &a.FirstName, &a.LastName)
	return a, err
}

// CreateCategory inserts a category with insert-or-ignore semantics.
func (q *Queries) CreateCategory(ctx context.Context, c model.Category) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO categories (term_id, nicename, parent, name, description)
		VALUES (?, ?, ?, ?, ?)`,
		c.TermID, c.Nicename, c.Parent, c.Name, c.Description)
	return err
}

// CreateTag inserts a tag with insert-or-ignore semantics.
func (q *Queries) CreateTag(ctx context.Context, t model.Tag) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO tags (term_id, nicename, name, description)
		VALUES (?, ?, ?, ?)`,
		t.TermID, t.Nicename, t.Name, t.Description)
	return err
}

// GetCategoryIDByNicename resolves a category slug to its term ID.
// Returns sql.ErrNoRows for an unknown nicename.
func (q *Queries) GetCategoryIDByNicename(ctx context.Context, nicename string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx,
		`SELECT term_id FROM categories WHERE nicename = ?`, nicename).Scan(&id)
	return id, err
}

// GetTagIDByNicename resolves a tag slug to its term ID.
// Returns sql.ErrNoRows for an unknown nicename.
func (q *Queries) GetTagIDByNicename(ctx context.Context, nicename string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx,
		`SELECT term_id FROM tags WHERE nicename = ?`, nicename).Scan(&id)
	return id, err
}

// UpsertPost inserts or updates a post. Re-ingestion overwrites every field
// except internal_backlink_count, which only the backlink resolver touches.
func (q *Queries) UpsertPost(ctx context.Context, p model.Post) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO posts (
			post_id, title, link, pub_date, creator, guid, description,
			content_encoded, excerpt_encoded, post_date, post_date_gmt,
			post_modified, post_modified_gmt, comment_status, ping_status,
			post_name, status, post_parent, menu_order, post_type,
			post_mime_type, comment_count, cleaned_html_source,
			seo_title, seo_description, seo_keywords
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			pub_date = excluded.pub_date,
			creator = excluded.creator,
			guid = excluded.guid,
			description = excluded.description,
			content_encoded = excluded.content_encoded,
			excerpt_encoded = excluded.excerpt_encoded,
			post_date = excluded.post_date,
			post_date_gmt = excluded.post_date_gmt,
			post_modified = excluded.post_modified,
			post_modified_gmt = excluded.post_modified_gmt,
			comment_status = excluded.comment_status,
			ping_status = excluded.ping_status,
			post_name = excluded.post_name,
			status = excluded.status,
			post_parent = excluded.post_parent,
			menu_order = excluded.menu_order,
			post_type = excluded.post_type,
			post_mime_type = excluded.post_mime_type,
			comment_count = excluded.comment_count,
			cleaned_html_source = excluded.cleaned_html_source,
			seo_title = excluded.seo_title,
			seo_description = excluded.seo_description,
			seo_keywords = excluded.seo_keywords`,
		p.PostID, p.Title, p.Link, p.PubDate, p.Creator, p.GUID, p.Description,
		p.ContentEncoded, p.ExcerptEncoded, p.PostDate, p.PostDateGMT,
		p.PostModified, p.PostModifiedGMT, p.CommentStatus, p.PingStatus,
		p.PostName, p.Status, p.PostParent, p.MenuOrder, p.PostType,
		p.PostMimeType, p.CommentCount, p.CleanedHTML,
		p.SEOTitle, p.SEODescription, p.SEOKeywords)
	return err
}

// AddPostCategory links a post to a category term, ignoring duplicates.
func (q *Queries) AddPostCategory(ctx context.Context, postID, termID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_categories (post_id, category_term_id) VALUES (?, ?)`,
		postID, termID)
	return err
}

// AddPostTag links a post to a tag term, ignoring duplicates.
func (q *Queries) AddPostTag(ctx context.Context, postID, termID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_tags (post_id, tag_term_id) VALUES (?, ?)`,
		postID, termID)
	return err
}

// CreatePostMeta inserts one key/value sidecar entry, ignoring an entry the
// post already carries with the same key and value.
func (q *Queries) CreatePostMeta(ctx context.Context, postID int64, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`,
		postID, key, value)
	return err
}

// CreateComment inserts a comment with insert-or-ignore semantics keyed by
// comment_id.
func (q *Queries) CreateComment(ctx context.Context, c model.Comment) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO comments (
			comment_id, post_id, comment_author, comment_author_email,
			comment_author_url, comment_author_ip, comment_date,
			comment_date_gmt, comment_content, comment_approved,
			comment_type, comment_parent, comment_user_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CommentID, c.PostID, c.Author, c.AuthorEmail, c.AuthorURL,
		c.AuthorIP, c.Date, c.DateGMT, c.Content, c.Approved,
		c.Type, c.Parent, c.UserID)
	return err
}

// CreateExternalLink records one outbound hyperlink occurrence. The
// occurrence index keeps duplicate hrefs within one body as separate rows
// while making re-ingestion idempotent.
func (q *Queries) CreateExternalLink(ctx context.Context, l model.ExternalLink) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO external_links
			(source_post_id, source_post_title, linked_url, occurrence_index)
		VALUES (?, ?, ?, ?)`,
		l.SourcePostID, l.SourcePostTitle, l.LinkedURL, l.OccurrenceIndex)
	return err
}

// ResetBacklinkCounts zeroes every post's internal_backlink_count. Running
// the resolver without this reset double-counts, so the count pass always
// starts from here.
func (q *Queries) ResetBacklinkCounts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE posts SET internal_backlink_count = 0`)
	return err
}

// AddBacklinkCount increments a post's internal_backlink_count by delta.
func (q *Queries) AddBacklinkCount(ctx context.Context, postID, delta int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts
		SET internal_backlink_count = internal_backlink_count + ?
		WHERE post_id = ?`, delta, postID)
	return err
}

const postColumns = `
	post_id, title, link, pub_date, creator, guid, description,
	content_encoded, excerpt_encoded, post_date, post_date_gmt,
	post_modified, post_modified_gmt, comment_status, ping_status,
	post_name, status, post_parent, menu_order, post_type,
	post_mime_type, comment_count, cleaned_html_source,
	seo_title, seo_description, seo_keywords, internal_backlink_count`

func scanPost(row interface{ Scan(dest ...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.PostID, &p.Title, &p.Link, &p.PubDate, &p.Creator, &p.GUID, &p.Description,
		&p.ContentEncoded, &p.ExcerptEncoded, &p.PostDate, &p.PostDateGMT,
		&p.PostModified, &p.PostModifiedGMT, &p.CommentStatus, &p.PingStatus,
		&p.PostName, &p.Status, &p.PostParent, &p.MenuOrder, &p.PostType,
		&p.PostMimeType, &p.CommentCount, &p.CleanedHTML,
		&p.SEOTitle, &p.SEODescription, &p.SEOKeywords, &p.InternalBacklinkCount)
	return p, err
}

// GetPostByID returns one post by its source document ID.
func (q *Queries) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE post_id = ?`, postID)
	return scanPost(row)
}

// ListPostsByBacklinks returns posts and pages ranked by inbound internal
// link count, most linked first.
func (q *Queries) ListPostsByBacklinks(ctx context.Context, limit int64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE post_type IN (?, ?)
		ORDER BY internal_backlink_count DESC, post_id
		LIMIT ?`,
		model.PostTypePost, model.PostTypePage, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPostsByModified returns published posts ordered by last modification,
// most recent first.
func (q *Queries) ListPostsByModified(ctx context.Context, limit int64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE post_type = ? AND status = ?
		ORDER BY post_modified DESC
		LIMIT ?`,
		model.PostTypePost, model.PostStatusPublish, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListExternalLinks returns the outbound link audit rows in insertion order.
func (q *Queries) ListExternalLinks(ctx context.Context, limit int64) ([]model.ExternalLink, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT link_id, source_post_id, source_post_title, linked_url, occurrence_index
		FROM external_links
		ORDER BY link_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var links []model.ExternalLink
	for rows.Next() {
		var l model.ExternalLink
		if err := rows.Scan(&l.LinkID, &l.SourcePostID, &l.SourcePostTitle,
			&l.LinkedURL, &l.OccurrenceIndex); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// CountPostsByType returns the number of stored items per post_type.
func (q *Queries) CountPostsByType(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT post_type, COUNT(*) FROM posts GROUP BY post_type`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var postType string
		var count int64
		if err := rows.Scan(&postType, &count); err != nil {
			return nil, err
		}
		counts[postType] = count
	}
	return counts, rows.Err()
}

// ListPostMeta returns a post's sidecar entries ordered by meta_id.
func (q *Queries) ListPostMeta(ctx context.Context, postID int64) ([]model.PostMeta, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT meta_id, post_id, meta_key, meta_value
		FROM post_meta WHERE post_id = ? ORDER BY meta_id`, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var meta []model.PostMeta
	for rows.Next() {
		var m model.PostMeta
		if err := rows.Scan(&m.MetaID, &m.PostID, &m.MetaKey, &m.MetaValue); err != nil {
			return nil, err
		}
		meta = append(meta, m)
	}
	return meta, rows.Err()
}

// CreateImportRun records the start of a pipeline run.
func (q *Queries) CreateImportRun(ctx context.Context, r model.ImportRun) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, document_path, site_domain, started_at)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.DocumentPath, r.SiteDomain, r.StartedAt)
	return err
}

// FinishImportRunParams carries the final counters for a pipeline run.
type FinishImportRunParams struct {
	ID          string
	FinishedAt  sql.NullTime
	Posts       int64
	Pages       int64
	Attachments int64
	Comments    int64
	Backlinks   int64
	Skipped     int64
	ErrorCount  int64
}

// FinishImportRun records the end of a pipeline run and its counters.
func (q *Queries) FinishImportRun(ctx context.Context, p FinishImportRunParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE import_runs SET
			finished_at = ?, posts = ?, pages = ?, attachments = ?,
			comments = ?, backlinks = ?, skipped = ?, error_count = ?
		WHERE id = ?`,
		p.FinishedAt, p.Posts, p.Pages, p.Attachments,
		p.Comments, p.Backlinks, p.Skipped, p.ErrorCount, p.ID)
	return err
}

// GetImportRun returns one pipeline run record.
func (q *Queries) GetImportRun(ctx context.Context, id string) (model.ImportRun, error) {
	var r model.ImportRun
	err := q.db.QueryRowContext(ctx, `
		SELECT id, document_path, site_domain, started_at, finished_at,
			posts, pages, attachments, comments, backlinks, skipped, error_count
		FROM import_runs WHERE id = ?`, id).
		Scan(&r.ID, &r.DocumentPath, &r.SiteDomain, &r.StartedAt, &r.FinishedAt,
			&r.Posts, &r.Pages, &r.Attachments, &r.Comments, &r.Backlinks,
			&r.Skipped, &r.ErrorCount)
	return r, err
}
