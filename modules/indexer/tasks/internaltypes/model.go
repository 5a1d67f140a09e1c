// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package internal

import (
	"context"

	"tasknest/modules/optional"
)

// SearchLimit caps the number of hits either backend returns.
const SearchLimit = 50

// IndexerData is one task as stored in the search index.
type IndexerData struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`

	// Fields used for keyword searching
	Title   string `json:"title"`
	Content string `json:"content"` // plain-text rendering of the notes

	// Fields used for filtering
	IsCompleted bool `json:"is_completed"`
}

// Match represents one search hit
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// SearchResult represents search results
type SearchResult struct {
	Hits []Match
}

// SearchOptions represents search options.
type SearchOptions struct {
	Keyword string

	ProjectID        optional.Option[string] // restrict to one project
	IncludeCompleted bool

	Limit int // zero means SearchLimit
}

// Indexer defines an interface to index and search tasks. The bleve backend
// ranks by relevance; the database fallback orders by primary key. Both
// must find the same single best match for an unambiguous query.
type Indexer interface {
	Index(ctx context.Context, docs ...*IndexerData) error
	Delete(ctx context.Context, ids ...string) error
	Search(ctx context.Context, opts *SearchOptions) (*SearchResult, error)
	Close()
}
