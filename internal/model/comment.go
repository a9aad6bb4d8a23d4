// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Comment approval states as stored in wp:comment_approved.
const (
	CommentApproved = "1"
	CommentPending  = "0"
	CommentSpam     = "spam"
)

// Comment represents one wp:comment embedded in a channel item.
type Comment struct {
	CommentID   int64  `json:"comment_id"`
	PostID      int64  `json:"post_id"`
	Author      string `json:"comment_author"`
	AuthorEmail string `json:"comment_author_email"`
	AuthorURL   string `json:"comment_author_url"`
	AuthorIP    string `json:"comment_author_ip"`
	Date        string `json:"comment_date"`
	DateGMT     string `json:"comment_date_gmt"`
	Content     string `json:"comment_content"`
	Approved    string `json:"comment_approved"`
	Type        string `json:"comment_type"`
	Parent      int64  `json:"comment_parent"`
	UserID      int64  `json:"comment_user_id"`
}

// IsApproved returns true if the comment passed moderation.
func (c *Comment) IsApproved() bool {
	return c.Approved == CommentApproved
}
