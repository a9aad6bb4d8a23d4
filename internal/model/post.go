// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
)

// Post types as they appear in the wp:post_type discriminator.
const (
	PostTypePost       = "post"
	PostTypePage       = "page"
	PostTypeAttachment = "attachment"
)

// Post statuses
const (
	PostStatusPublish = "publish"
	PostStatusDraft   = "draft"
)

// Post represents one channel item: a post, a page, or an attachment,
// discriminated by PostType. All three share the posts table; PostID is the
// source document's own stable ID.
type Post struct {
	PostID          int64          `json:"post_id"`
	Title           string         `json:"title"`
	Link            string         `json:"link"`
	PubDate         string         `json:"pub_date"`
	Creator         string         `json:"creator"`
	GUID            string         `json:"guid"`
	Description     string         `json:"description"`
	ContentEncoded  string         `json:"content_encoded"`
	ExcerptEncoded  string         `json:"excerpt_encoded"`
	PostDate        string         `json:"post_date"`
	PostDateGMT     string         `json:"post_date_gmt"`
	PostModified    string         `json:"post_modified"`
	PostModifiedGMT string         `json:"post_modified_gmt"`
	CommentStatus   string         `json:"comment_status"`
	PingStatus      string         `json:"ping_status"`
	PostName        string         `json:"post_name"`
	Status          string         `json:"status"`
	PostParent      int64          `json:"post_parent"`
	MenuOrder       int64          `json:"menu_order"`
	PostType        string         `json:"post_type"`
	PostMimeType    string         `json:"post_mime_type"`
	CommentCount    int64          `json:"comment_count"`
	SEOTitle        string         `json:"seo_title"`
	SEODescription  string         `json:"seo_description"`
	SEOKeywords     string         `json:"seo_keywords"`
	CleanedHTML     sql.NullString `json:"cleaned_html_source,omitempty"`

	// InternalBacklinkCount is derived by the backlink resolver, never by
	// ingestion itself. The posts upsert must not touch it.
	InternalBacklinkCount int64 `json:"internal_backlink_count"`
}

// IsContent returns true for posts and pages, the types that participate in
// the internal link graph and the cleaned-HTML override lookup.
func (p *Post) IsContent() bool {
	return p.PostType == PostTypePost || p.PostType == PostTypePage
}

// IsAttachment returns true if the item is a media attachment.
func (p *Post) IsAttachment() bool {
	return p.PostType == PostTypeAttachment
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublish
}

// DisplayBody returns the cleaned HTML override when present, falling back
// to the rendered body from the export.
func (p *Post) DisplayBody() string {
	if p.CleanedHTML.Valid && p.CleanedHTML.String != "" {
		return p.CleanedHTML.String
	}
	return p.ContentEncoded
}

// PostMeta is one free-form key/value sidecar entry for a post. The three
// AIOSEO keys are promoted to first-class Post fields and never appear here.
type PostMeta struct {
	MetaID    int64  `json:"meta_id"`
	PostID    int64  `json:"post_id"`
	MetaKey   string `json:"meta_key"`
	MetaValue string `json:"meta_value"`
}

// ExternalLink is one outbound hyperlink occurrence discovered in a post
// body. A body linking the same URL twice produces two rows, told apart by
// OccurrenceIndex.
type ExternalLink struct {
	LinkID          int64  `json:"link_id"`
	SourcePostID    int64  `json:"source_post_id"`
	SourcePostTitle string `json:"source_post_title"`
	LinkedURL       string `json:"linked_url"`
	OccurrenceIndex int64  `json:"occurrence_index"`
}
