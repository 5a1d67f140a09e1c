// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package bleve implements the indexed search backend on a local bleve
// index with relevance ranking.
package bleve

import (
	"context"
	"errors"
	"os"

	"tasknest/modules/indexer/tasks/internaltypes"
	"tasknest/modules/log"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/unicodenorm"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	taskIndexerAnalyzer  = "taskIndexer"
	taskIndexerDocType   = "taskIndexerDocType"
	unicodeNormalizeName = "unicodeNormalize"
	maxBatchSize         = 16
)

// IndexerData is the bleve view of an index document
type IndexerData internal.IndexerData

// Type returns the document type, for bleve's mapping.Classifier interface.
func (d *IndexerData) Type() string {
	return taskIndexerDocType
}

func addUnicodeNormalizeTokenFilter(m *mapping.IndexMappingImpl) error {
	return m.AddCustomTokenFilter(unicodeNormalizeName, map[string]any{
		"type": unicodenorm.Name,
		"form": unicodenorm.NFC,
	})
}

// generateTaskIndexMapping generates the bleve index mapping for tasks
func generateTaskIndexMapping() (mapping.IndexMapping, error) {
	mapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = false
	textFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name
	keywordFieldMapping.Store = false
	keywordFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("project_id", keywordFieldMapping)

	boolFieldMapping := bleve.NewBooleanFieldMapping()
	boolFieldMapping.Store = false
	boolFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("is_completed", boolFieldMapping)

	if err := addUnicodeNormalizeTokenFilter(mapping); err != nil {
		return nil, err
	} else if err = mapping.AddCustomAnalyzer(taskIndexerAnalyzer, map[string]any{
		"type":          custom.Name,
		"char_filters":  []string{},
		"tokenizer":     unicode.Name,
		"token_filters": []string{unicodeNormalizeName, lowercase.Name},
	}); err != nil {
		return nil, err
	}

	mapping.DefaultAnalyzer = taskIndexerAnalyzer
	mapping.AddDocumentMapping(taskIndexerDocType, docMapping)
	mapping.AddDocumentMapping("_all", bleve.NewDocumentDisabledMapping())
	mapping.DefaultMapping = bleve.NewDocumentDisabledMapping() // avoid indexing unexpected structs

	return mapping, nil
}

var _ internal.Indexer = &Indexer{}

// Indexer implements internal.Indexer on a local bleve index
type Indexer struct {
	indexDir string
	inner    bleve.Index
}

// NewIndexer opens or creates the index at indexDir. The second return
// value reports whether a fresh index was created, fresh indexes need a
// populate pass. An index that cannot be opened is dropped and recreated.
func NewIndexer(indexDir string) (*Indexer, bool, error) {
	index, err := bleve.Open(indexDir)
	if err == nil {
		return &Indexer{indexDir: indexDir, inner: index}, false, nil
	}
	if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		log.Warn("Task index at %s cannot be opened (%v), recreating", indexDir, err)
		if err = os.RemoveAll(indexDir); err != nil {
			return nil, false, err
		}
	}

	m, err := generateTaskIndexMapping()
	if err != nil {
		return nil, false, err
	}
	if index, err = bleve.New(indexDir, m); err != nil {
		return nil, false, err
	}
	return &Indexer{indexDir: indexDir, inner: index}, true, nil
}

// Index upserts the given documents
func (b *Indexer) Index(_ context.Context, docs ...*internal.IndexerData) error {
	batch := b.inner.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, (*IndexerData)(doc)); err != nil {
			return err
		}
		if batch.Size() >= maxBatchSize {
			if err := b.inner.Batch(batch); err != nil {
				return err
			}
			batch = b.inner.NewBatch()
		}
	}
	return b.inner.Batch(batch)
}

// Delete removes documents by id
func (b *Indexer) Delete(_ context.Context, ids ...string) error {
	batch := b.inner.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return b.inner.Batch(batch)
}

func newMatchPhraseQuery(matchPhrase, field, analyzer string) *query.MatchPhraseQuery {
	q := bleve.NewMatchPhraseQuery(matchPhrase)
	q.FieldVal = field
	q.Analyzer = analyzer
	return q
}

// Search searches the index, relevance ranked.
func (b *Indexer) Search(ctx context.Context, opts *internal.SearchOptions) (*internal.SearchResult, error) {
	queries := []query.Query{
		bleve.NewDisjunctionQuery(
			newMatchPhraseQuery(opts.Keyword, "title", taskIndexerAnalyzer),
			newMatchPhraseQuery(opts.Keyword, "content", taskIndexerAnalyzer),
		),
	}
	if opts.ProjectID.Has() {
		q := bleve.NewTermQuery(opts.ProjectID.Value())
		q.SetField("project_id")
		queries = append(queries, q)
	}
	if !opts.IncludeCompleted {
		q := bleve.NewBoolFieldQuery(false)
		q.SetField("is_completed")
		queries = append(queries, q)
	}

	limit := opts.Limit
	if limit <= 0 || limit > internal.SearchLimit {
		limit = internal.SearchLimit
	}
	search := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(queries...), limit, 0, false)
	search.SortBy([]string{"-_score", "_id"})

	result, err := b.inner.SearchInContext(ctx, search)
	if err != nil {
		return nil, err
	}

	ret := &internal.SearchResult{
		Hits: make([]internal.Match, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		ret.Hits = append(ret.Hits, internal.Match{
			ID:    hit.ID,
			Score: hit.Score,
		})
	}
	return ret, nil
}

// Close closes the underlying index
func (b *Indexer) Close() {
	if b.inner == nil {
		return
	}
	if err := b.inner.Close(); err != nil {
		log.Error("Failed to close task index at %s: %v", b.indexDir, err)
	}
}
