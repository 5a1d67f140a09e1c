// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"errors"
	"testing"

	"tasknest/models/db"
	"tasknest/models/unittest"
	"tasknest/modules/optional"
	"tasknest/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	task, err := CreateTask(ctx, CreateTaskOptions{
		Title:    "Buy milk",
		Notes:    "From the **corner** shop",
		Priority: PriorityHigh,
		DueDate:  "2026-09-01",
		DueTime:  "08:30",
	})
	require.NoError(t, err)

	assert.Len(t, task.ID, 26)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "From the corner shop", task.NotesPlain)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, 0.0, task.SortOrder)
	assert.False(t, task.IsCompleted)
	assert.Empty(t, task.Tags)
	assert.Empty(t, task.Reminders)

	second, err := CreateTask(ctx, CreateTaskOptions{Title: "Buy bread"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, second.SortOrder)
	assert.Greater(t, second.ID, task.ID, "ids must sort by creation time")
}

func TestCreateTaskValidation(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	cases := []struct {
		name string
		opts CreateTaskOptions
	}{
		{"empty title", CreateTaskOptions{Title: "   "}},
		{"bad priority", CreateTaskOptions{Title: "t", Priority: Priority(9)}},
		{"bad due date", CreateTaskOptions{Title: "t", DueDate: "01-09-2026"}},
		{"bad due time", CreateTaskOptions{Title: "t", DueTime: "8h30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateTask(ctx, tc.opts)
			assert.ErrorIs(t, err, util.ErrInvalidArgument)
		})
	}

	_, err := CreateTask(ctx, CreateTaskOptions{Title: "t", ProjectID: "missing"})
	assert.ErrorIs(t, err, util.ErrNotExist)
}

func TestCreateTaskSiblingPositions(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	parent, err := CreateTask(ctx, CreateTaskOptions{Title: "parent"})
	require.NoError(t, err)

	// subtasks get their own ordering scope starting at zero
	for i, want := range []float64{0.0, 1.0, 2.0} {
		sub, err := CreateTask(ctx, CreateTaskOptions{Title: "sub", ParentTaskID: parent.ID})
		require.NoError(t, err)
		assert.Equal(t, want, sub.SortOrder, "subtask %d", i)
	}

	// deleting a sibling does not reuse its position slot
	top, err := CreateTask(ctx, CreateTaskOptions{Title: "second top"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, top.SortOrder)
	require.NoError(t, DeleteTask(ctx, top.ID))
	third, err := CreateTask(ctx, CreateTaskOptions{Title: "third top"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, third.SortOrder)
}

func TestUpdateTask(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	task, err := CreateTask(ctx, CreateTaskOptions{Title: "orig", Notes: "plain"})
	require.NoError(t, err)

	updated, err := UpdateTask(ctx, task.ID, UpdateTaskOptions{
		Title:    optional.Some("renamed"),
		Notes:    optional.Some("# Heading\n\nbody"),
		Priority: optional.Some(PriorityUrgent),
		DueDate:  optional.Some("2026-12-24"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "Heading\nbody", updated.NotesPlain)
	assert.Equal(t, PriorityUrgent, updated.Priority)

	// untouched fields survive a partial update
	assert.Equal(t, task.SortOrder, updated.SortOrder)

	_, err = UpdateTask(ctx, task.ID, UpdateTaskOptions{Title: optional.Some(" ")})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	_, err = UpdateTask(ctx, "missing", UpdateTaskOptions{Title: optional.Some("x")})
	assert.True(t, IsErrTaskNotExist(err))
}

func TestUpdateTaskClearProject(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	project, err := CreateProject(ctx, CreateProjectOptions{Name: "work"})
	require.NoError(t, err)
	task, err := CreateTask(ctx, CreateTaskOptions{Title: "t", ProjectID: project.ID})
	require.NoError(t, err)

	updated, err := UpdateTask(ctx, task.ID, UpdateTaskOptions{ProjectID: optional.Some("")})
	require.NoError(t, err)
	assert.Empty(t, updated.ProjectID)
}

func TestTaskCycleRejected(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	a, err := CreateTask(ctx, CreateTaskOptions{Title: "a"})
	require.NoError(t, err)
	b, err := CreateTask(ctx, CreateTaskOptions{Title: "b", ParentTaskID: a.ID})
	require.NoError(t, err)
	c, err := CreateTask(ctx, CreateTaskOptions{Title: "c", ParentTaskID: b.ID})
	require.NoError(t, err)

	// direct self-reference
	_, err = UpdateTask(ctx, a.ID, UpdateTaskOptions{ParentTaskID: optional.Some(a.ID)})
	assert.True(t, IsErrTaskCycle(err))
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	// transitive: a -> b -> c -> a
	_, err = UpdateTask(ctx, a.ID, UpdateTaskOptions{ParentTaskID: optional.Some(c.ID)})
	assert.True(t, IsErrTaskCycle(err))

	// a rejected reparent leaves the stored parent untouched
	stored, err := GetTaskByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ParentTaskID)
}

func TestToggleTaskComplete(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	task, err := CreateTask(ctx, CreateTaskOptions{Title: "t"})
	require.NoError(t, err)

	done, err := ToggleTaskComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.False(t, done.CompletedUnix.IsZero())

	undone, err := ToggleTaskComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)
	assert.True(t, undone.CompletedUnix.IsZero())
}

func TestBulkCompleteProjectTasks(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	project, err := CreateProject(ctx, CreateProjectOptions{Name: "p"})
	require.NoError(t, err)
	other, err := CreateProject(ctx, CreateProjectOptions{Name: "other"})
	require.NoError(t, err)

	var inProject []*Task
	for _, title := range []string{"one", "two", "three"} {
		task, err := CreateTask(ctx, CreateTaskOptions{Title: title, ProjectID: project.ID})
		require.NoError(t, err)
		inProject = append(inProject, task)
	}
	outside, err := CreateTask(ctx, CreateTaskOptions{Title: "outside", ProjectID: other.ID})
	require.NoError(t, err)

	// one already done, only the remaining two count
	_, err = ToggleTaskComplete(ctx, inProject[0].ID)
	require.NoError(t, err)

	n, err := BulkCompleteProjectTasks(ctx, project.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, task := range inProject {
		stored, err := GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsCompleted)
	}
	stored, err := GetTaskByID(ctx, outside.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)

	// idempotent on an already completed project
	n, err = BulkCompleteProjectTasks(ctx, project.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteTask(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	tag, err := CreateTag(ctx, "errand", "#ff0000")
	require.NoError(t, err)
	task, err := CreateTask(ctx, CreateTaskOptions{Title: "t", TagIDs: []string{tag.ID}})
	require.NoError(t, err)

	require.NoError(t, DeleteTask(ctx, task.ID))

	_, err = GetTaskByID(ctx, task.ID)
	assert.True(t, IsErrTaskNotExist(err))
	var notExist ErrTaskNotExist
	assert.True(t, errors.As(err, &notExist))
	assert.Equal(t, task.ID, notExist.ID)

	// row survives with the marker set, links are gone for real
	stored := unittest.AssertExistsAndLoadBean(t, &Task{ID: task.ID})
	assert.False(t, stored.DeletedUnix.IsZero())
	unittest.AssertNotExistsBean(t, &TaskTagLink{TaskID: task.ID})

	// deleting twice reports NotFound
	err = DeleteTask(ctx, task.ID)
	assert.True(t, IsErrTaskNotExist(err))
}

// The raw fragments across the models layer address columns by their gonic
// names (id, project_id, parent_task_id, ...); the synced schema must use
// exactly those names.
func TestTaskColumnNaming(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	project, err := CreateProject(ctx, CreateProjectOptions{Name: "p"})
	require.NoError(t, err)
	task, err := CreateTask(ctx, CreateTaskOptions{Title: "t", ProjectID: project.ID})
	require.NoError(t, err)

	var row struct {
		ID            string
		ProjectID     string
		ParentTaskID  string
		BoardColumnID string
		SortOrder     float64
		DeletedUnix   int64
	}
	has, err := db.GetEngine(ctx).
		SQL("SELECT id, project_id, parent_task_id, board_column_id, sort_order, deleted_unix FROM task WHERE id = ?", task.ID).
		Get(&row)
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, task.ID, row.ID)
	assert.Equal(t, project.ID, row.ProjectID)
	assert.Empty(t, row.ParentTaskID)
	assert.Equal(t, 0.0, row.SortOrder)
}
