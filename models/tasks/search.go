// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"

	"tasknest/models/db"
	task_indexer "tasknest/modules/indexer/tasks"
	indexer_db "tasknest/modules/indexer/tasks/db"
	"tasknest/modules/indexer/tasks/internaltypes"
	"tasknest/modules/log"

	"xorm.io/builder"
)

func init() {
	// The indexer module cannot import models, so the database backed
	// search and the populate pass are registered here.
	indexer_db.SearchFunc = dbSearchTasks
	task_indexer.PopulateFunc = populateTaskIndexer
}

func searchCond(opts *internal.SearchOptions) builder.Cond {
	pattern := "%" + opts.Keyword + "%"
	cond := builder.NewCond().And(
		builder.Eq{"deleted_unix": 0},
		builder.Or(
			db.BuildCaseInsensitiveLike("title", pattern),
			db.BuildCaseInsensitiveLike("notes_plain", pattern),
		),
	)
	if opts.ProjectID.Has() {
		cond = cond.And(builder.Eq{"project_id": opts.ProjectID.Value()})
	}
	if !opts.IncludeCompleted {
		cond = cond.And(builder.Eq{"is_completed": false})
	}
	return cond
}

// dbSearchTasks is the fallback search, a case-insensitive substring
// scan over title and plain-text notes. No relevance ranking, results
// come back in id order which is creation order.
func dbSearchTasks(ctx context.Context, opts *internal.SearchOptions) (*internal.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 || limit > internal.SearchLimit {
		limit = internal.SearchLimit
	}

	ids := make([]string, 0, limit)
	err := db.GetEngine(ctx).Table("task").
		Cols("id").
		Where(searchCond(opts)).
		OrderBy("id").
		Limit(limit).
		Find(&ids)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	result := &internal.SearchResult{
		Hits: make([]internal.Match, 0, len(ids)),
	}
	for _, id := range ids {
		result.Hits = append(result.Hits, internal.Match{ID: id})
	}
	return result, nil
}

func taskToIndexerData(task *Task) *internal.IndexerData {
	return &internal.IndexerData{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Content:     task.NotesPlain,
		IsCompleted: task.IsCompleted,
	}
}

// populateTaskIndexer feeds every live task into a fresh index
func populateTaskIndexer(ctx context.Context, indexer internal.Indexer) error {
	const batchSize = 50
	for start := 0; ; start += batchSize {
		tasks := make([]*Task, 0, batchSize)
		err := db.GetEngine(ctx).
			Where("deleted_unix = 0").
			OrderBy("id").
			Limit(batchSize, start).
			Find(&tasks)
		if err != nil {
			return fmt.Errorf("populate task index: %w", err)
		}
		if len(tasks) == 0 {
			return nil
		}
		docs := make([]*internal.IndexerData, 0, len(tasks))
		for _, task := range tasks {
			docs = append(docs, taskToIndexerData(task))
		}
		if err := indexer.Index(ctx, docs...); err != nil {
			return fmt.Errorf("populate task index: %w", err)
		}
	}
}

// syncTasksToIndexer pushes the given tasks to the search index. Called
// after the owning transaction committed, never inside it.
func syncTasksToIndexer(tasks ...*Task) {
	docs := make([]*internal.IndexerData, 0, len(tasks))
	for _, task := range tasks {
		docs = append(docs, taskToIndexerData(task))
	}
	task_indexer.UpdateTaskIndexer(db.DefaultContext, docs...)
}

// syncTaskIDsToIndexer reloads the given tasks and pushes them to the
// search index, for bulk updates that only touched rows.
func syncTaskIDsToIndexer(ids ...string) {
	if len(ids) == 0 {
		return
	}
	tasks, err := GetTasksByIDs(db.DefaultContext, ids)
	if err != nil {
		log.Error("Failed to reload tasks for index sync: %v", err)
		return
	}
	syncTasksToIndexer(tasks...)
}

func removeTasksFromIndexer(ids ...string) {
	task_indexer.DeleteTaskIndexer(db.DefaultContext, ids...)
}

// SearchTasks performs a keyword search and returns matching tasks,
// best match first, with tags and reminders loaded.
func SearchTasks(ctx context.Context, opts *task_indexer.SearchOptions) (TaskList, error) {
	ids, err := task_indexer.SearchTasks(ctx, opts)
	if err != nil {
		return nil, err
	}
	tasks, err := GetTasksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := tasks.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return tasks, nil
}
