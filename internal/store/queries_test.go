// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wxr-go/internal/model"
	"github.com/olegiv/wxr-go/internal/store"
	"github.com/olegiv/wxr-go/internal/testutil"
)

func testQueries(t *testing.T) (*store.Queries, context.Context) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db), context.Background()
}

func TestSiteInfo(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.SetSiteInfo(ctx, model.SiteInfoTitle, "My Blog"))
	require.NoError(t, q.SetSiteInfo(ctx, model.SiteInfoTitle, "Renamed Blog"))

	value, err := q.GetSiteInfo(ctx, model.SiteInfoTitle)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Blog", value)

	_, err = q.GetSiteInfo(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteSiteInfoPrefix(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.SetSiteInfo(ctx, "plugin_akismet", "active"))
	require.NoError(t, q.SetSiteInfo(ctx, "plugin_aioseo", "active"))
	require.NoError(t, q.SetSiteInfo(ctx, model.SiteInfoTitle, "My Blog"))

	require.NoError(t, q.DeleteSiteInfoPrefix(ctx, "plugin_"))

	_, err := q.GetSiteInfo(ctx, "plugin_akismet")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	title, err := q.GetSiteInfo(ctx, model.SiteInfoTitle)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", title)
}

func TestCreateAuthor_FirstWriteWins(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.CreateAuthor(ctx, model.Author{
		AuthorID: 1, Login: "admin", Email: "a@site.com", DisplayName: "Admin",
	}))
	require.NoError(t, q.CreateAuthor(ctx, model.Author{
		AuthorID: 1, Login: "admin", Email: "changed@site.com", DisplayName: "Changed",
	}))

	a, err := q.GetAuthorByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "a@site.com", a.Email)
	assert.Equal(t, "Admin", a.DisplayName)
}

func TestTermLookups(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.CreateCategory(ctx, model.Category{TermID: 11, Nicename: "go", Name: "Go"}))
	require.NoError(t, q.CreateTag(ctx, model.Tag{TermID: 21, Nicename: "testing", Name: "Testing"}))

	id, err := q.GetCategoryIDByNicename(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	id, err = q.GetTagIDByNicename(ctx, "testing")
	require.NoError(t, err)
	assert.Equal(t, int64(21), id)

	_, err = q.GetCategoryIDByNicename(ctx, "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = q.GetTagIDByNicename(ctx, "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpsertPost_PreservesBacklinkCount(t *testing.T) {
	q, ctx := testQueries(t)

	post := model.Post{PostID: 1, Title: "First", Link: "https://site.com/first/", PostType: model.PostTypePost}
	require.NoError(t, q.UpsertPost(ctx, post))
	require.NoError(t, q.AddBacklinkCount(ctx, 1, 4))

	post.Title = "First, revised"
	post.ContentEncoded = "<p>new body</p>"
	require.NoError(t, q.UpsertPost(ctx, post))

	got, err := q.GetPostByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "First, revised", got.Title)
	assert.Equal(t, "<p>new body</p>", got.ContentEncoded)
	assert.Equal(t, int64(4), got.InternalBacklinkCount)
}

func TestResetBacklinkCounts(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 2, Title: "b", PostType: model.PostTypePage}))
	require.NoError(t, q.AddBacklinkCount(ctx, 1, 3))
	require.NoError(t, q.AddBacklinkCount(ctx, 2, 7))

	require.NoError(t, q.ResetBacklinkCounts(ctx))

	for _, id := range []int64{1, 2} {
		p, err := q.GetPostByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.InternalBacklinkCount)
	}
}

func TestPostTaxonomyLinks_Idempotent(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))
	require.NoError(t, q.CreateCategory(ctx, model.Category{TermID: 11, Nicename: "go"}))
	require.NoError(t, q.CreateTag(ctx, model.Tag{TermID: 21, Nicename: "testing"}))

	for i := 0; i < 2; i++ {
		require.NoError(t, q.AddPostCategory(ctx, 1, 11))
		require.NoError(t, q.AddPostTag(ctx, 1, 21))
	}
}

func TestCreatePostMeta_Idempotent(t *testing.T) {
	q, ctx := testQueries(t)
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))

	require.NoError(t, q.CreatePostMeta(ctx, 1, "_thumbnail_id", "99"))
	require.NoError(t, q.CreatePostMeta(ctx, 1, "_thumbnail_id", "99"))
	require.NoError(t, q.CreatePostMeta(ctx, 1, "_thumbnail_id", "100"))

	meta, err := q.ListPostMeta(ctx, 1)
	require.NoError(t, err)
	require.Len(t, meta, 2)
	assert.Equal(t, "99", meta[0].MetaValue)
	assert.Equal(t, "100", meta[1].MetaValue)
}

func TestCreateExternalLink_OccurrenceIdempotence(t *testing.T) {
	q, ctx := testQueries(t)
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))

	link := model.ExternalLink{
		SourcePostID: 1, SourcePostTitle: "a",
		LinkedURL: "https://example.org/", OccurrenceIndex: 0,
	}
	// Two real occurrences of the same URL, then a full re-run of both.
	require.NoError(t, q.CreateExternalLink(ctx, link))
	link.OccurrenceIndex = 1
	require.NoError(t, q.CreateExternalLink(ctx, link))
	link.OccurrenceIndex = 0
	require.NoError(t, q.CreateExternalLink(ctx, link))
	link.OccurrenceIndex = 1
	require.NoError(t, q.CreateExternalLink(ctx, link))

	links, err := q.ListExternalLinks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, int64(0), links[0].OccurrenceIndex)
	assert.Equal(t, int64(1), links[1].OccurrenceIndex)
}

func TestCreateComment_Idempotent(t *testing.T) {
	q, ctx := testQueries(t)
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))

	c := model.Comment{CommentID: 5, PostID: 1, Author: "Visitor", Approved: model.CommentApproved}
	require.NoError(t, q.CreateComment(ctx, c))
	c.Author = "Changed"
	require.NoError(t, q.CreateComment(ctx, c))
}

func TestListPostsByBacklinks(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 2, Title: "b", PostType: model.PostTypePage}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 3, Title: "c", PostType: model.PostTypeAttachment}))
	require.NoError(t, q.AddBacklinkCount(ctx, 2, 5))

	posts, err := q.ListPostsByBacklinks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2) // attachments excluded
	assert.Equal(t, int64(2), posts[0].PostID)
	assert.Equal(t, int64(1), posts[1].PostID)
}

func TestListPostsByModified(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.UpsertPost(ctx, model.Post{
		PostID: 1, Title: "old", PostType: model.PostTypePost,
		Status: model.PostStatusPublish, PostModified: "2021-01-01 00:00:00",
	}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{
		PostID: 2, Title: "new", PostType: model.PostTypePost,
		Status: model.PostStatusPublish, PostModified: "2022-06-01 00:00:00",
	}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{
		PostID: 3, Title: "draft", PostType: model.PostTypePost,
		Status: model.PostStatusDraft, PostModified: "2023-01-01 00:00:00",
	}))

	posts, err := q.ListPostsByModified(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].PostID)
	assert.Equal(t, int64(1), posts[1].PostID)
}

func TestCountPostsByType(t *testing.T) {
	q, ctx := testQueries(t)

	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 2, Title: "b", PostType: model.PostTypePost}))
	require.NoError(t, q.UpsertPost(ctx, model.Post{PostID: 3, Title: "c", PostType: model.PostTypePage}))

	counts, err := q.CountPostsByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		model.PostTypePost: 2,
		model.PostTypePage: 1,
	}, counts)
}

func TestImportRunLifecycle(t *testing.T) {
	q, ctx := testQueries(t)

	run := model.ImportRun{
		ID:           uuid.NewString(),
		DocumentPath: "/data/export.xml",
		SiteDomain:   "site.com",
		StartedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, q.CreateImportRun(ctx, run))

	got, err := q.GetImportRun(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, got.FinishedAt.Valid)

	require.NoError(t, q.FinishImportRun(ctx, store.FinishImportRunParams{
		ID:         run.ID,
		FinishedAt: sql.NullTime{Time: run.StartedAt.Add(time.Minute), Valid: true},
		Posts:      10, Pages: 2, Attachments: 3, Comments: 7,
		Backlinks: 4, Skipped: 1, ErrorCount: 0,
	}))

	got, err = q.GetImportRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, got.FinishedAt.Valid)
	assert.Equal(t, int64(10), got.Posts)
	assert.Equal(t, int64(3), got.Attachments)
	assert.Equal(t, int64(1), got.Skipped)
}

func TestWithTx(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()
	q := store.New(db)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, q.WithTx(tx).UpsertPost(ctx, model.Post{PostID: 1, Title: "a", PostType: model.PostTypePost}))
	require.NoError(t, tx.Rollback())

	_, err = q.GetPostByID(ctx, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
