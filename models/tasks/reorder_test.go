// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"testing"

	"tasknest/models/db"
	"tasknest/models/unittest"
	"tasknest/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderTasksMidpoint(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	milk, err := CreateTask(ctx, CreateTaskOptions{Title: "Buy milk"})
	require.NoError(t, err)
	bread, err := CreateTask(ctx, CreateTaskOptions{Title: "Buy bread"})
	require.NoError(t, err)
	eggs, err := CreateTask(ctx, CreateTaskOptions{Title: "Buy eggs"})
	require.NoError(t, err)
	require.Equal(t, 0.0, milk.SortOrder)
	require.Equal(t, 1.0, bread.SortOrder)
	require.Equal(t, 2.0, eggs.SortOrder)

	// moving eggs between milk and bread writes a midpoint for eggs only
	err = ReorderTasks(ctx, ReorderScopeList, []ReorderItem{{ID: eggs.ID, SortOrder: 0.5}})
	require.NoError(t, err)

	inbox, err := Inbox(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "Buy milk", inbox[0].Title)
	assert.Equal(t, "Buy eggs", inbox[1].Title)
	assert.Equal(t, "Buy bread", inbox[2].Title)

	// the neighbors kept their stored positions
	assert.Equal(t, 0.0, inbox[0].SortOrder)
	assert.Equal(t, 1.0, inbox[2].SortOrder)
}

func TestReorderTasksAtomic(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	a, err := CreateTask(ctx, CreateTaskOptions{Title: "a"})
	require.NoError(t, err)
	b, err := CreateTask(ctx, CreateTaskOptions{Title: "b"})
	require.NoError(t, err)

	// one bad id rejects the whole batch, the good id is untouched
	err = ReorderTasks(ctx, ReorderScopeList, []ReorderItem{
		{ID: a.ID, SortOrder: 10},
		{ID: "bogus", SortOrder: 11},
	})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	stored, err := GetTaskByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.SortOrder)

	// a deleted task counts as unknown
	require.NoError(t, DeleteTask(ctx, b.ID))
	err = ReorderTasks(ctx, ReorderScopeList, []ReorderItem{
		{ID: a.ID, SortOrder: 10},
		{ID: b.ID, SortOrder: 11},
	})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	err = ReorderTasks(ctx, ReorderScopeList, nil)
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	err = ReorderTasks(ctx, "column", []ReorderItem{{ID: a.ID, SortOrder: 1}})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
}

func TestReorderTasksBoardScope(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	project, err := CreateProject(ctx, CreateProjectOptions{Name: "p", ViewMode: ViewModeBoard})
	require.NoError(t, err)
	column, err := CreateBoardColumn(ctx, project.ID, "todo", false)
	require.NoError(t, err)
	task, err := CreateTask(ctx, CreateTaskOptions{Title: "t", ProjectID: project.ID, BoardColumnID: column.ID})
	require.NoError(t, err)

	err = ReorderTasks(ctx, ReorderScopeBoard, []ReorderItem{{ID: task.ID, SortOrder: 4.5}})
	require.NoError(t, err)

	stored, err := GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, stored.BoardSortOrder)
	assert.Equal(t, 0.0, stored.SortOrder, "list scope is independent of board scope")
}
