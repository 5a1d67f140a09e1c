// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package bleve

import (
	"context"
	"testing"

	"tasknest/modules/indexer/tasks/internaltypes"
	"tasknest/modules/optional"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()
	indexer, created, err := NewIndexer(t.TempDir() + "/tasks.bleve")
	require.NoError(t, err)
	require.True(t, created)
	t.Cleanup(indexer.Close)
	return indexer
}

func TestBleveIndexAndSearch(t *testing.T) {
	indexer := newTestIndexer(t)
	ctx := context.Background()

	require.NoError(t, indexer.Index(ctx,
		&internal.IndexerData{ID: "01A", ProjectID: "p1", Title: "Buy groceries", Content: "milk and bread"},
		&internal.IndexerData{ID: "01B", ProjectID: "p2", Title: "Call dentist", Content: "ask about the milk teeth"},
		&internal.IndexerData{ID: "01C", ProjectID: "p1", Title: "File taxes", IsCompleted: true},
	))

	result, err := indexer.Search(ctx, &internal.SearchOptions{Keyword: "milk"})
	require.NoError(t, err)
	ids := matchIDs(result)
	assert.ElementsMatch(t, []string{"01A", "01B"}, ids)

	// tokenized matching is case-insensitive
	result, err = indexer.Search(ctx, &internal.SearchOptions{Keyword: "MILK"})
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)

	// scores come back for ranking
	for _, hit := range result.Hits {
		assert.Greater(t, hit.Score, 0.0)
	}
}

func TestBleveSearchFilters(t *testing.T) {
	indexer := newTestIndexer(t)
	ctx := context.Background()

	require.NoError(t, indexer.Index(ctx,
		&internal.IndexerData{ID: "01A", ProjectID: "p1", Title: "report draft"},
		&internal.IndexerData{ID: "01B", ProjectID: "p2", Title: "report review"},
		&internal.IndexerData{ID: "01C", ProjectID: "p1", Title: "report final", IsCompleted: true},
	))

	result, err := indexer.Search(ctx, &internal.SearchOptions{Keyword: "report"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"01A", "01B"}, matchIDs(result))

	result, err = indexer.Search(ctx, &internal.SearchOptions{Keyword: "report", IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, result.Hits, 3)

	result, err = indexer.Search(ctx, &internal.SearchOptions{
		Keyword:          "report",
		ProjectID:        optional.Some("p1"),
		IncludeCompleted: true,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"01A", "01C"}, matchIDs(result))
}

func TestBleveDelete(t *testing.T) {
	indexer := newTestIndexer(t)
	ctx := context.Background()

	require.NoError(t, indexer.Index(ctx,
		&internal.IndexerData{ID: "01A", Title: "doomed task"},
	))
	require.NoError(t, indexer.Delete(ctx, "01A"))

	result, err := indexer.Search(ctx, &internal.SearchOptions{Keyword: "doomed"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestBleveReopen(t *testing.T) {
	dir := t.TempDir() + "/tasks.bleve"
	ctx := context.Background()

	indexer, created, err := NewIndexer(dir)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, indexer.Index(ctx, &internal.IndexerData{ID: "01A", Title: "persistent"}))
	indexer.Close()

	// reopening an existing index keeps its documents
	indexer, created, err = NewIndexer(dir)
	require.NoError(t, err)
	assert.False(t, created)
	defer indexer.Close()

	result, err := indexer.Search(ctx, &internal.SearchOptions{Keyword: "persistent"})
	require.NoError(t, err)
	assert.Len(t, result.Hits, 1)
}

func matchIDs(result *internal.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
