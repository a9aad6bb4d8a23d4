// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wxr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olegiv/wxr-go/internal/model"
	"github.com/olegiv/wxr-go/internal/util"
)

// ErrMissingRequiredField marks a record whose mandatory numeric identifier
// is absent or not parseable. The record is skipped and logged; the run
// continues.
var ErrMissingRequiredField = errors.New("missing required field")

// PlaceholderTitle is used when neither the title field nor the body
// headings yield one.
const PlaceholderTitle = "Untitled Post"

// AIOSEO postmeta keys promoted to first-class post fields. They never
// appear in post_meta.
const (
	MetaKeySEOTitle       = "_aioseo_title"
	MetaKeySEODescription = "_aioseo_description"
	MetaKeySEOKeywords    = "_aioseo_keywords"
)

// MetaEntry is one free-form wp:postmeta key/value pair.
type MetaEntry struct {
	Key   string
	Value string
}

// Item is the canonical record for one channel item of an ingestible type,
// together with its taxonomy references, sidecar metadata and embedded
// comments.
type Item struct {
	model.Post

	Taxonomy []model.TaxonomyRef
	Meta     []MetaEntry
	Comments []model.Comment

	// Warnings collects non-fatal conditions hit while normalizing the
	// item, such as skipped comments with unparseable IDs.
	Warnings []string
}

// requiredID parses a mandatory numeric identifier field.
func requiredID(value, entity, field string) (int64, error) {
	id, err := util.ParseRequiredInt(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %s is not numeric (%q)", entity, ErrMissingRequiredField, field, value)
	}
	return id, nil
}

// ParseAuthor normalizes one wp:author channel entry.
func ParseAuthor(d *Document, el *Element) (model.Author, error) {
	id, err := requiredID(d.WPText(el, "author_id"), "author", "author_id")
	if err != nil {
		return model.Author{}, err
	}
	return model.Author{
		AuthorID:    id,
		Login:       d.WPText(el, "author_login"),
		Email:       d.WPText(el, "author_email"),
		DisplayName: d.WPText(el, "author_display_name"),
		FirstName:   d.WPText(el, "author_first_name"),
		LastName:    d.WPText(el, "author_last_name"),
	}, nil
}

// ParseCategory normalizes one wp:category channel entry.
func ParseCategory(d *Document, el *Element) (model.Category, error) {
	id, err := requiredID(d.WPText(el, "term_id"), "category", "term_id")
	if err != nil {
		return model.Category{}, err
	}
	return model.Category{
		TermID:      id,
		Nicename:    d.WPText(el, "category_nicename"),
		Parent:      d.WPText(el, "category_parent"),
		Name:        d.WPText(el, "cat_name"),
		Description: d.WPText(el, "category_description"),
	}, nil
}

// ParseTag normalizes one wp:tag channel entry. Some exporters write the
// slug as tag_slug instead of tag_nicename.
func ParseTag(d *Document, el *Element) (model.Tag, error) {
	id, err := requiredID(d.WPText(el, "term_id"), "tag", "term_id")
	if err != nil {
		return model.Tag{}, err
	}

	nicename := d.WPText(el, "tag_nicename")
	if nicename == "" {
		nicename = d.WPText(el, "tag_slug")
	}

	return model.Tag{
		TermID:      id,
		Nicename:    nicename,
		Name:        d.WPText(el, "tag_name"),
		Description: d.WPText(el, "tag_description"),
	}, nil
}

// ParseComment normalizes one wp:comment embedded in an item.
func ParseComment(d *Document, el *Element, postID int64) (model.Comment, error) {
	id, err := requiredID(d.WPText(el, "comment_id"), "comment", "comment_id")
	if err != nil {
		return model.Comment{}, err
	}
	return model.Comment{
		CommentID:   id,
		PostID:      postID,
		Author:      d.WPText(el, "comment_author"),
		AuthorEmail: d.WPText(el, "comment_author_email"),
		AuthorURL:   d.WPText(el, "comment_author_url"),
		AuthorIP:    d.WPText(el, "comment_author_IP"),
		Date:        d.WPText(el, "comment_date"),
		DateGMT:     d.WPText(el, "comment_date_gmt"),
		Content:     d.WPText(el, "comment_content"),
		Approved:    d.WPText(el, "comment_approved"),
		Type:        d.WPText(el, "comment_type"),
		Parent:      util.ParseIntOrZero(d.WPText(el, "comment_parent")),
		UserID:      util.ParseIntOrZero(d.WPText(el, "comment_user_id")),
	}, nil
}

// ParseItem normalizes one channel item. Items of types other than post,
// page and attachment (nav menu items, custom types) return (nil, nil) and
// are not ingested. A missing or non-numeric wp:post_id is an error for
// the item.
func ParseItem(d *Document, el *Element) (*Item, error) {
	postType := d.WPText(el, "post_type")
	switch postType {
	case model.PostTypePost, model.PostTypePage, model.PostTypeAttachment:
	default:
		return nil, nil
	}

	postID, err := requiredID(d.WPText(el, "post_id"), "item", "post_id")
	if err != nil {
		return nil, err
	}

	content := d.NSText(el, PrefixContent, "encoded")

	title := d.Text(el, "title")
	if title == "" {
		title = headingTitle(content)
	}
	if title == "" {
		title = PlaceholderTitle
	}

	item := &Item{
		Post: model.Post{
			PostID:          postID,
			Title:           title,
			Link:            d.Text(el, "link"),
			PubDate:         d.Text(el, "pubDate"),
			Creator:         d.NSText(el, PrefixDC, "creator"),
			GUID:            d.Text(el, "guid"),
			Description:     d.Text(el, "description"),
			ContentEncoded:  content,
			ExcerptEncoded:  d.NSText(el, PrefixExcerpt, "encoded"),
			PostDate:        d.WPText(el, "post_date"),
			PostDateGMT:     d.WPText(el, "post_date_gmt"),
			PostModified:    d.WPText(el, "post_modified"),
			PostModifiedGMT: d.WPText(el, "post_modified_gmt"),
			CommentStatus:   d.WPText(el, "comment_status"),
			PingStatus:      d.WPText(el, "ping_status"),
			PostName:        d.WPText(el, "post_name"),
			Status:          d.WPText(el, "status"),
			PostParent:      util.ParseIntOrZero(d.WPText(el, "post_parent")),
			MenuOrder:       util.ParseIntOrZero(d.WPText(el, "menu_order")),
			PostType:        postType,
			PostMimeType:    d.WPText(el, "post_mime_type"),
			CommentCount:    util.ParseIntOrZero(d.WPText(el, "comment_count")),
		},
	}

	// Taxonomy references carry their vocabulary in the domain attribute.
	for _, ref := range d.FindAll(el, "", "category") {
		item.Taxonomy = append(item.Taxonomy, model.TaxonomyRef{
			Domain:   ref.Attr("domain"),
			Nicename: ref.Attr("nicename"),
			Name:     strings.TrimSpace(ref.Text),
		})
	}

	// Sidecar metadata; SEO keys are promoted to post fields instead.
	for _, meta := range d.FindAll(el, PrefixWP, "postmeta") {
		key := d.WPText(meta, "meta_key")
		value := d.WPText(meta, "meta_value")
		switch key {
		case MetaKeySEOTitle:
			item.SEOTitle = value
		case MetaKeySEODescription:
			item.SEODescription = value
		case MetaKeySEOKeywords:
			item.SEOKeywords = value
		default:
			item.Meta = append(item.Meta, MetaEntry{Key: key, Value: value})
		}
	}

	for _, c := range d.FindAll(el, PrefixWP, "comment") {
		comment, err := ParseComment(d, c, postID)
		if err != nil {
			item.Warnings = append(item.Warnings, err.Error())
			continue
		}
		item.Comments = append(item.Comments, comment)
	}

	return item, nil
}

// headingTitle derives a title from the first h1 or h2 heading in the body
// content, for items whose title field is empty.
func headingTitle(body string) string {
	if body == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}
