// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"

	"tasknest/models/db"
	"tasknest/modules/container"
	"tasknest/modules/optional"
	"tasknest/modules/util"

	"xorm.io/builder"
)

// TaskList defines a list of tasks
type TaskList []*Task

// LoadAttributes attaches tags and reminders to every task in the list with
// two batched queries, never one query per task.
func (l TaskList) LoadAttributes(ctx context.Context) error {
	if err := l.loadTags(ctx); err != nil {
		return err
	}
	return l.loadReminders(ctx)
}

func (l TaskList) getTaskIDs() []string {
	return container.FilterSlice(l, func(t *Task) (string, bool) {
		return t.ID, true
	})
}

func (l TaskList) loadTags(ctx context.Context) error {
	if len(l) == 0 {
		return nil
	}

	links := make([]*TaskTagLink, 0, len(l))
	if err := db.GetEngine(ctx).In("task_id", l.getTaskIDs()).Find(&links); err != nil {
		return err
	}

	tagIDs := container.FilterSlice(links, func(link *TaskTagLink) (string, bool) {
		return link.TagID, true
	})
	tagMap := make(map[string]*Tag, len(tagIDs))
	if len(tagIDs) > 0 {
		tags := make([]*Tag, 0, len(tagIDs))
		if err := db.GetEngine(ctx).In("id", tagIDs).Where("deleted_unix = 0").Find(&tags); err != nil {
			return err
		}
		for _, tag := range tags {
			tagMap[tag.ID] = tag
		}
	}

	tagsByTask := make(map[string][]*Tag, len(l))
	for _, link := range links {
		if tag, ok := tagMap[link.TagID]; ok {
			tagsByTask[link.TaskID] = append(tagsByTask[link.TaskID], tag)
		}
	}
	for _, task := range l {
		task.Tags = tagsByTask[task.ID]
		if task.Tags == nil {
			task.Tags = []*Tag{}
		}
	}
	return nil
}

func (l TaskList) loadReminders(ctx context.Context) error {
	if len(l) == 0 {
		return nil
	}

	reminders := make([]*Reminder, 0, len(l))
	if err := db.GetEngine(ctx).
		In("task_id", l.getTaskIDs()).
		Where("deleted_unix = 0").
		OrderBy("remind_at").
		Find(&reminders); err != nil {
		return err
	}

	byTask := make(map[string][]*Reminder, len(l))
	for _, r := range reminders {
		byTask[r.TaskID] = append(byTask[r.TaskID], r)
	}
	for _, task := range l {
		task.Reminders = byTask[task.ID]
		if task.Reminders == nil {
			task.Reminders = []*Reminder{}
		}
	}
	return nil
}

// taskSortCols is the whitelist of sortable columns for FindTasks.
var taskSortCols = container.SetOf(
	"sort_order", "board_sort_order", "created_unix", "updated_unix",
	"due_date", "due_time", "priority", "title",
)

// FindTasksOptions are the filters of a task listing.
type FindTasksOptions struct {
	ProjectID     optional.Option[string]
	BoardColumnID optional.Option[string]
	ParentTaskID  optional.Option[string]
	IsCompleted   optional.Option[bool]
	Priority      optional.Option[Priority]
	DueDate       optional.Option[string]
	SortBy        string // one of taskSortCols, default sort_order
	Descending    bool
	Limit         int
	Offset        int
}

func (opts FindTasksOptions) toConds() (builder.Cond, error) {
	cond := builder.NewCond().And(builder.Eq{"deleted_unix": 0})
	if opts.ProjectID.Has() {
		cond = cond.And(builder.Eq{"project_id": opts.ProjectID.Value()})
	}
	if opts.BoardColumnID.Has() {
		cond = cond.And(builder.Eq{"board_column_id": opts.BoardColumnID.Value()})
	}
	if opts.ParentTaskID.Has() {
		cond = cond.And(builder.Eq{"parent_task_id": opts.ParentTaskID.Value()})
	}
	if opts.IsCompleted.Has() {
		cond = cond.And(builder.Eq{"is_completed": opts.IsCompleted.Value()})
	}
	if opts.Priority.Has() {
		if !opts.Priority.Value().IsValid() {
			return nil, util.NewInvalidArgumentErrorf("priority must be between %d and %d", PriorityNone, PriorityUrgent)
		}
		cond = cond.And(builder.Eq{"priority": opts.Priority.Value()})
	}
	if opts.DueDate.Has() {
		if err := validateDueDate(opts.DueDate.Value()); err != nil {
			return nil, err
		}
		cond = cond.And(builder.Eq{"due_date": opts.DueDate.Value()})
	}
	return cond, nil
}

// FindTasks lists live tasks with the given filters, tags and reminders
// attached.
func FindTasks(ctx context.Context, opts FindTasksOptions) (TaskList, error) {
	cond, err := opts.toConds()
	if err != nil {
		return nil, err
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "sort_order"
	}
	if !taskSortCols.Contains(sortBy) {
		return nil, util.NewInvalidArgumentErrorf("cannot sort tasks by %q", sortBy)
	}

	sess := db.GetEngine(ctx).Where(cond)
	if opts.Descending {
		sess = sess.Desc(sortBy)
	} else {
		sess = sess.Asc(sortBy)
	}
	if opts.Limit > 0 {
		sess = sess.Limit(opts.Limit, opts.Offset)
	}

	list := make(TaskList, 0, 10)
	if err := sess.Find(&list); err != nil {
		return nil, err
	}
	if err := list.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTasksByIDs returns the live tasks for the given ids in the given order.
// Ids without a live task are skipped.
func GetTasksByIDs(ctx context.Context, ids []string) (TaskList, error) {
	if len(ids) == 0 {
		return TaskList{}, nil
	}

	found := make([]*Task, 0, len(ids))
	if err := db.GetEngine(ctx).In("id", ids).Where("deleted_unix = 0").Find(&found); err != nil {
		return nil, err
	}
	byID := make(map[string]*Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}

	list := make(TaskList, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			list = append(list, t)
		}
	}
	return list, nil
}
