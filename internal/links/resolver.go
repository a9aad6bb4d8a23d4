// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package links

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/olegiv/wxr-go/internal/store"
	"github.com/olegiv/wxr-go/internal/wxr"
)

// Resolver computes internal backlink counts with the mandatory two-pass
// algorithm: a full index pass over every post and page, then a count pass
// over every body. The index pass must complete in full before counting
// starts, or a link to a target later in document order would not be
// attributed.
type Resolver struct {
	queries *store.Queries
	scanner *Scanner
	logger  *slog.Logger
}

// NewResolver creates a Resolver writing through the given queries.
func NewResolver(queries *store.Queries, scanner *Scanner, logger *slog.Logger) *Resolver {
	return &Resolver{queries: queries, scanner: scanner, logger: logger}
}

// BuildIndex maps each post's and page's normalized own link to its post
// ID. Attachments do not participate in the link graph.
func (r *Resolver) BuildIndex(items []*wxr.Item) map[string]int64 {
	index := make(map[string]int64)
	for _, item := range items {
		if !item.IsContent() || item.Link == "" {
			continue
		}
		index[NormalizePath(item.Link)] = item.PostID
	}
	return index
}

// Resolve recomputes every backlink counter from scratch. Stored counters
// are reset to 0 first: the count pass only ever adds, so skipping the
// reset on re-ingestion would double-count. Returns the total number of
// backlinks attributed.
func (r *Resolver) Resolve(ctx context.Context, items []*wxr.Item) (int64, error) {
	index := r.BuildIndex(items)

	if err := r.queries.ResetBacklinkCounts(ctx); err != nil {
		return 0, fmt.Errorf("resetting backlink counts: %w", err)
	}

	// Count in memory, one increment per href occurrence. Self-links count.
	counts := make(map[int64]int64)
	for _, item := range items {
		if !item.IsContent() || item.ContentEncoded == "" {
			continue
		}
		for _, link := range r.scanner.Links(item.ContentEncoded) {
			path, ok := r.scanner.InternalCandidate(link)
			if !ok {
				continue
			}
			if targetID, known := index[path]; known {
				counts[targetID]++
			}
		}
	}

	// Deterministic write order keeps re-runs byte-identical.
	targets := make([]int64, 0, len(counts))
	for id := range counts {
		targets = append(targets, id)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	var total int64
	for _, id := range targets {
		if err := r.queries.AddBacklinkCount(ctx, id, counts[id]); err != nil {
			return total, fmt.Errorf("incrementing backlink count for post %d: %w", id, err)
		}
		total += counts[id]
	}

	r.logger.Info("backlink resolution complete",
		"targets", len(targets), "backlinks", total)

	return total, nil
}
