// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package db implements the fallback search backend which queries the
// database directly. It keeps no state of its own, so Index and Delete
// are no-ops.
package db

import (
	"context"

	"tasknest/modules/indexer/tasks/internaltypes"
)

// SearchFunc performs the database search. It is registered by the
// models layer at init time, modules cannot import models directly.
var SearchFunc func(ctx context.Context, opts *internal.SearchOptions) (*internal.SearchResult, error)

var _ internal.Indexer = &Indexer{}

// Indexer implements internal.Indexer on the database
type Indexer struct{}

// NewIndexer returns the database search backend
func NewIndexer() *Indexer {
	return &Indexer{}
}

// Index is a no-op, the database is always current
func (i *Indexer) Index(_ context.Context, _ ...*internal.IndexerData) error {
	return nil
}

// Delete is a no-op, the database is always current
func (i *Indexer) Delete(_ context.Context, _ ...string) error {
	return nil
}

// Search delegates to the registered database search
func (i *Indexer) Search(ctx context.Context, opts *internal.SearchOptions) (*internal.SearchResult, error) {
	return SearchFunc(ctx, opts)
}

// Close is a no-op
func (i *Indexer) Close() {}
