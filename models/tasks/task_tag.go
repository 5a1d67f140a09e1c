// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"

	"tasknest/models/db"
	"tasknest/modules/container"
	"tasknest/modules/util"

	"xorm.io/builder"
)

// TaskTagLink represents a task-tag relation. Unlike every other entity the
// link rows are physically removed: they are non-authoritative join data,
// nothing references them.
type TaskTagLink struct {
	ID     int64  `xorm:"pk autoincr"`
	TaskID string `xorm:"UNIQUE(s) INDEX NOT NULL VARCHAR(26)"`
	TagID  string `xorm:"UNIQUE(s) INDEX NOT NULL VARCHAR(26)"`
}

func init() {
	db.RegisterModel(new(TaskTagLink))
}

// validateLiveTagIDs fails with a Validation error naming the first unknown
// or deleted tag. Replace-all rejects the whole call instead of silently
// dropping unknown ids, so the caller can trust the resulting set.
func validateLiveTagIDs(ctx context.Context, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	live := make([]string, 0, len(tagIDs))
	if err := db.GetEngine(ctx).Table("tag").
		In("id", tagIDs).
		Where("deleted_unix = 0").
		Cols("id").Find(&live); err != nil {
		return err
	}
	liveSet := container.SetOf(live...)
	for _, id := range tagIDs {
		if !liveSet.Contains(id) {
			return util.NewInvalidArgumentErrorf("tag does not exist [id: %s]", id)
		}
	}
	return nil
}

func insertTaskTagLinks(ctx context.Context, taskID string, tagIDs []string) error {
	unique := container.FilterSlice(tagIDs, func(id string) (string, bool) {
		return id, id != ""
	})
	for _, tagID := range unique {
		if err := db.Insert(ctx, &TaskTagLink{TaskID: taskID, TagID: tagID}); err != nil {
			return err
		}
	}
	return nil
}

// replaceTaskTags swaps the task's whole link set. Must already run inside a
// transaction.
func replaceTaskTags(ctx context.Context, taskID string, tagIDs []string) error {
	if err := validateLiveTagIDs(ctx, tagIDs); err != nil {
		return err
	}
	if _, err := db.GetEngine(ctx).Delete(&TaskTagLink{TaskID: taskID}); err != nil {
		return db.MapSQLError(err)
	}
	return insertTaskTagLinks(ctx, taskID, tagIDs)
}

// SetTaskTags gives the task exactly the given tag set: every existing link
// is dropped and links for the supplied ids inserted, one atomic unit.
// Duplicate ids collapse to one link. Concurrent calls do not merge, the
// last commit wins wholesale.
func SetTaskTags(ctx context.Context, taskID string, tagIDs []string) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := getLiveTask(ctx, taskID); err != nil {
			return err
		}
		return replaceTaskTags(ctx, taskID, tagIDs)
	})
}

// GetTaskTags returns the task's live tags ordered by name.
func GetTaskTags(ctx context.Context, taskID string) ([]*Tag, error) {
	if _, err := getLiveTask(ctx, taskID); err != nil {
		return nil, err
	}

	tags := make([]*Tag, 0, 5)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0").
		In("id", builder.Select("tag_id").From("task_tag_link").Where(builder.Eq{"task_id": taskID})).
		OrderBy("name COLLATE NOCASE, id").
		Find(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}
