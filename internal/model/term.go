// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Taxonomy domains as they appear on item <category> references.
const (
	TaxonomyCategory = "category"
	TaxonomyPostTag  = "post_tag"
)

// Category represents one wp:category channel entry. Nicename is the slug
// used as the join key from item taxonomy references.
type Category struct {
	TermID      int64  `json:"term_id"`
	Nicename    string `json:"nicename"`
	Parent      string `json:"parent"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HasParent returns true if the category references a parent category.
func (c *Category) HasParent() bool {
	return c.Parent != ""
}

// Tag represents one wp:tag channel entry.
type Tag struct {
	TermID      int64  `json:"term_id"`
	Nicename    string `json:"nicename"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaxonomyRef is one <category> reference on an item, tagged with the
// vocabulary it belongs to. An unmatched nicename produces no join row.
type TaxonomyRef struct {
	Domain   string `json:"domain"`
	Nicename string `json:"nicename"`
	Name     string `json:"name"`
}

// IsCategory returns true if the reference belongs to the category vocabulary.
func (r TaxonomyRef) IsCategory() bool {
	return r.Domain == TaxonomyCategory
}

// IsTag returns true if the reference belongs to the post_tag vocabulary.
func (r TaxonomyRef) IsTag() bool {
	return r.Domain == TaxonomyPostTag
}
