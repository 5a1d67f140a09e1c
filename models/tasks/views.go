// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"

	"tasknest/models/db"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// Bounds of the completed view window, in days.
const (
	CompletedDaysMin     = 1
	CompletedDaysMax     = 365
	CompletedDaysDefault = 30
)

// Inbox returns every live top-level task, active and completed, active
// first, each group in list order. Tags and reminders come attached.
func Inbox(ctx context.Context) (TaskList, error) {
	list := make(TaskList, 0, 10)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0 AND parent_task_id = ''").
		OrderBy("is_completed, sort_order").
		Find(&list); err != nil {
		return nil, err
	}
	if err := list.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

// Today returns live incomplete tasks due on or before the reference date,
// overdue included, most urgent first. The reference date is an ISO date.
func Today(ctx context.Context, referenceDate string) (TaskList, error) {
	if err := validateDueDate(referenceDate); err != nil {
		return nil, err
	}
	if referenceDate == "" {
		referenceDate = timeutil.TimeStampNow().Format("2006-01-02")
	}

	list := make(TaskList, 0, 10)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0 AND is_completed = ? AND due_date <> '' AND due_date <= ?", false, referenceDate).
		OrderBy("priority DESC, due_date, sort_order").
		Find(&list); err != nil {
		return nil, err
	}
	if err := list.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

// Completed returns tasks completed within the last days days, newest
// first. days must be within [CompletedDaysMin, CompletedDaysMax].
func Completed(ctx context.Context, days int) (TaskList, error) {
	if days < CompletedDaysMin || days > CompletedDaysMax {
		return nil, util.NewInvalidArgumentErrorf("days must be between %d and %d", CompletedDaysMin, CompletedDaysMax)
	}
	cutoff := timeutil.TimeStampNow().Add(-int64(days) * 24 * 60 * 60)

	list := make(TaskList, 0, 10)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0 AND is_completed = ? AND completed_unix >= ?", true, cutoff).
		OrderBy("completed_unix DESC").
		Find(&list); err != nil {
		return nil, err
	}
	if err := list.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return list, nil
}
