// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"testing"
	"time"

	"tasknest/models/db"
	"tasknest/models/unittest"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	first, err := CreateTask(ctx, CreateTaskOptions{Title: "first"})
	require.NoError(t, err)
	second, err := CreateTask(ctx, CreateTaskOptions{Title: "second"})
	require.NoError(t, err)
	_, err = CreateTask(ctx, CreateTaskOptions{Title: "child", ParentTaskID: first.ID})
	require.NoError(t, err)

	// completed top-level tasks stay in the inbox, sorted after active ones
	_, err = ToggleTaskComplete(ctx, first.ID)
	require.NoError(t, err)

	deleted, err := CreateTask(ctx, CreateTaskOptions{Title: "deleted"})
	require.NoError(t, err)
	require.NoError(t, DeleteTask(ctx, deleted.ID))

	inbox, err := Inbox(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, second.ID, inbox[0].ID)
	assert.Equal(t, first.ID, inbox[1].ID)
	assert.NotNil(t, inbox[0].Tags, "attributes come attached")
}

func TestToday(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	overdue, err := CreateTask(ctx, CreateTaskOptions{Title: "overdue", DueDate: "2026-03-01"})
	require.NoError(t, err)
	due, err := CreateTask(ctx, CreateTaskOptions{Title: "due today", DueDate: "2026-03-10", Priority: PriorityUrgent})
	require.NoError(t, err)
	_, err = CreateTask(ctx, CreateTaskOptions{Title: "future", DueDate: "2026-03-11"})
	require.NoError(t, err)
	_, err = CreateTask(ctx, CreateTaskOptions{Title: "undated"})
	require.NoError(t, err)
	done, err := CreateTask(ctx, CreateTaskOptions{Title: "done", DueDate: "2026-03-01"})
	require.NoError(t, err)
	_, err = ToggleTaskComplete(ctx, done.ID)
	require.NoError(t, err)

	today, err := Today(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, today, 2)
	// urgent first, then the overdue one
	assert.Equal(t, due.ID, today[0].ID)
	assert.Equal(t, overdue.ID, today[1].ID)

	_, err = Today(ctx, "not-a-date")
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
}

func TestCompleted(t *testing.T) {
	unittest.PrepareTestDatabase(t)
	ctx := db.DefaultContext

	now := time.Now().Unix()
	timeutil.Set(time.Unix(now, 0))
	defer timeutil.Unset()

	mkCompleted := func(title string, daysAgo int64) *Task {
		timeutil.Set(time.Unix(now-daysAgo*24*60*60, 0))
		task, err := CreateTask(ctx, CreateTaskOptions{Title: title})
		require.NoError(t, err)
		_, err = ToggleTaskComplete(ctx, task.ID)
		require.NoError(t, err)
		timeutil.Set(time.Unix(now, 0))
		return task
	}

	recent := mkCompleted("recent", 1)
	edge := mkCompleted("edge", 29)
	outside := mkCompleted("outside", 31)

	list, err := Completed(ctx, 30)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest completion first
	assert.Equal(t, recent.ID, list[0].ID)
	assert.Equal(t, edge.ID, list[1].ID)

	// a wider window picks up the older one
	list, err = Completed(ctx, 60)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, outside.ID, list[2].ID)

	for _, days := range []int{0, -1, 366} {
		_, err = Completed(ctx, days)
		assert.ErrorIs(t, err, util.ErrInvalidArgument, "days=%d", days)
	}
}
