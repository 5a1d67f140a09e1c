// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"testing"

	"tasknest/models/db"
	"tasknest/models/unittest"
	task_indexer "tasknest/modules/indexer/tasks"
	"tasknest/modules/indexer/tasks/bleve"
	"tasknest/modules/indexer/tasks/internaltypes"
	"tasknest/modules/optional"
	"tasknest/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTasksFallback(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	parcel, err := CreateTask(ctx, CreateTaskOptions{
		Title: "Errands",
		Notes: "Pick up the **parcel** at the post office",
	})
	require.NoError(t, err)
	_, err = CreateTask(ctx, CreateTaskOptions{Title: "Water the plants"})
	require.NoError(t, err)

	// the match lives only in the notes, found via their plain rendering
	found, err := SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "parcel"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, parcel.ID, found[0].ID)
	assert.NotNil(t, found[0].Tags, "results come with attributes attached")

	// matching is case-insensitive
	found, err = SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "PARCEL"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "bicycle"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchTasksKeywordValidation(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	_, err := SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: ""})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	_, err = SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "   "})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	long := make([]rune, task_indexer.MaxKeywordLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: string(long)})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
}

func TestSearchTasksFilters(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	project, err := CreateProject(ctx, CreateProjectOptions{Name: "p"})
	require.NoError(t, err)

	inProject, err := CreateTask(ctx, CreateTaskOptions{Title: "report draft", ProjectID: project.ID})
	require.NoError(t, err)
	loose, err := CreateTask(ctx, CreateTaskOptions{Title: "report review"})
	require.NoError(t, err)
	done, err := CreateTask(ctx, CreateTaskOptions{Title: "report final"})
	require.NoError(t, err)
	_, err = ToggleTaskComplete(ctx, done.ID)
	require.NoError(t, err)
	deleted, err := CreateTask(ctx, CreateTaskOptions{Title: "report obsolete"})
	require.NoError(t, err)
	require.NoError(t, DeleteTask(ctx, deleted.ID))

	// completed and deleted tasks are out by default
	found, err := SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "report"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	found, err = SearchTasks(ctx, &task_indexer.SearchOptions{Keyword: "report", IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = SearchTasks(ctx, &task_indexer.SearchOptions{
		Keyword:   "report",
		ProjectID: optional.Some(project.ID),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, inProject.ID, found[0].ID)
	_ = loose
}

// Both search modes must agree when there is a single unambiguous match.
func TestSearchModesParity(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	match, err := CreateTask(ctx, CreateTaskOptions{
		Title: "Weekly shop",
		Notes: "don't forget the *juniper* syrup",
	})
	require.NoError(t, err)
	_, err = CreateTask(ctx, CreateTaskOptions{Title: "Mow the lawn"})
	require.NoError(t, err)

	opts := &internal.SearchOptions{Keyword: "juniper", Limit: internal.SearchLimit}

	dbResult, err := dbSearchTasks(ctx, opts)
	require.NoError(t, err)
	require.Len(t, dbResult.Hits, 1)
	assert.Equal(t, match.ID, dbResult.Hits[0].ID)

	indexer, created, err := bleve.NewIndexer(t.TempDir())
	require.NoError(t, err)
	require.True(t, created)
	defer indexer.Close()
	require.NoError(t, populateTaskIndexer(ctx, indexer))

	bleveResult, err := indexer.Search(ctx, opts)
	require.NoError(t, err)
	require.Len(t, bleveResult.Hits, 1)
	assert.Equal(t, dbResult.Hits[0].ID, bleveResult.Hits[0].ID)
}
