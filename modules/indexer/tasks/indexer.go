// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tasks provides task search over two interchangeable backends:
// a bleve index with relevance ranking, and a database scan fallback.
// Callers never deal with backends directly, the active one is chosen
// at init time and search degrades to the fallback rather than failing.
package tasks

import (
	"context"
	"strings"
	"sync/atomic"

	"tasknest/modules/indexer/tasks/bleve"
	"tasknest/modules/indexer/tasks/db"
	"tasknest/modules/indexer/tasks/internaltypes"
	"tasknest/modules/log"
	"tasknest/modules/setting"
	"tasknest/modules/util"
)

// SearchModeIndexed and SearchModeFallback name the active backend in
// search results and logs.
const (
	SearchModeIndexed  = "indexed"
	SearchModeFallback = "fallback"
)

// MaxKeywordLen is the longest accepted search keyword, in runes.
const MaxKeywordLen = 250

// SearchOptions is the caller-facing alias for the backend contract
type SearchOptions = internal.SearchOptions

// IndexerData is the caller-facing alias for an index document
type IndexerData = internal.IndexerData

// PopulateFunc feeds every live task into a freshly created index. It
// is registered by the models layer at init time.
var PopulateFunc func(ctx context.Context, indexer internal.Indexer) error

var (
	holder     atomic.Pointer[internal.Indexer]
	holderMode atomic.Pointer[string]
)

func setHolder(indexer internal.Indexer, mode string) {
	holder.Store(&indexer)
	holderMode.Store(&mode)
}

func getHolder() internal.Indexer {
	p := holder.Load()
	if p == nil {
		// Init was never called, which only happens in miswired tests.
		// Fall back to the database rather than panic.
		return db.NewIndexer()
	}
	return *p
}

// SearchMode reports which backend is active
func SearchMode() string {
	p := holderMode.Load()
	if p == nil {
		return SearchModeFallback
	}
	return *p
}

// InitTaskIndexer chooses and prepares the search backend. The bleve
// index being unavailable is not an error: the database fallback is
// substituted and the degradation logged.
func InitTaskIndexer(ctx context.Context) error {
	if !setting.Indexer.TaskIndexerEnabled {
		log.Info("Task search using database fallback (indexer disabled)")
		setHolder(db.NewIndexer(), SearchModeFallback)
		return nil
	}

	indexer, created, err := bleve.NewIndexer(setting.Indexer.TaskIndexerPath)
	if err != nil {
		log.Error("Task index at %s unavailable: %v. Search degrades to database fallback", setting.Indexer.TaskIndexerPath, err)
		setHolder(db.NewIndexer(), SearchModeFallback)
		return nil
	}

	if created && PopulateFunc != nil {
		if err := PopulateFunc(ctx, indexer); err != nil {
			log.Error("Populating task index failed: %v. Search degrades to database fallback", err)
			indexer.Close()
			setHolder(db.NewIndexer(), SearchModeFallback)
			return nil
		}
	}

	log.Info("Task search using bleve index at %s", setting.Indexer.TaskIndexerPath)
	setHolder(indexer, SearchModeIndexed)
	return nil
}

// CloseTaskIndexer releases the active backend
func CloseTaskIndexer() {
	p := holder.Swap(nil)
	if p != nil {
		(*p).Close()
	}
}

// UpdateTaskIndexer upserts documents into the active backend. Index
// maintenance is best effort, a failing write is logged and search
// keeps serving possibly stale results.
func UpdateTaskIndexer(ctx context.Context, docs ...*internal.IndexerData) {
	if len(docs) == 0 {
		return
	}
	if err := getHolder().Index(ctx, docs...); err != nil {
		log.Error("Failed to update task index: %v", err)
	}
}

// DeleteTaskIndexer removes documents from the active backend
func DeleteTaskIndexer(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := getHolder().Delete(ctx, ids...); err != nil {
		log.Error("Failed to delete from task index: %v", err)
	}
}

// SearchTasks runs a keyword search on the active backend and returns
// matching task ids, best first.
func SearchTasks(ctx context.Context, opts *SearchOptions) ([]string, error) {
	opts.Keyword = strings.TrimSpace(opts.Keyword)
	if opts.Keyword == "" {
		return nil, util.NewInvalidArgumentErrorf("search keyword must not be empty")
	}
	if len([]rune(opts.Keyword)) > MaxKeywordLen {
		return nil, util.NewInvalidArgumentErrorf("search keyword longer than %d characters", MaxKeywordLen)
	}
	if opts.Limit <= 0 || opts.Limit > internal.SearchLimit {
		opts.Limit = internal.SearchLimit
	}

	result, err := getHolder().Search(ctx, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
