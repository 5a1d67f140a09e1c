// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"

	"tasknest/models/db"
	"tasknest/modules/container"
	"tasknest/modules/util"
)

// ReorderScope selects which of a task's two ordering spaces a reorder
// applies to.
type ReorderScope string

const (
	ReorderScopeList  ReorderScope = "list"
	ReorderScopeBoard ReorderScope = "board"
)

func (s ReorderScope) column() string {
	if s == ReorderScopeBoard {
		return "board_sort_order"
	}
	return "sort_order"
}

// ReorderItem is one (task, position) pair of a reorder batch.
type ReorderItem struct {
	ID        string
	SortOrder float64
}

// ReorderTasks applies a batch of position writes as one atomic unit.
// Positions are fractional: moving a task between two neighbors writes a
// midpoint for the moved task only, no other sibling is touched. If any id
// is unknown or already deleted nothing is applied.
func ReorderTasks(ctx context.Context, scope ReorderScope, items []ReorderItem) error {
	if len(items) == 0 {
		return util.NewInvalidArgumentErrorf("reorder batch must not be empty")
	}
	if scope != ReorderScopeList && scope != ReorderScopeBoard {
		return util.NewInvalidArgumentErrorf("unknown reorder scope %q", scope)
	}

	ids := container.FilterSlice(items, func(it ReorderItem) (string, bool) {
		return it.ID, true
	})

	return db.WithTx(ctx, func(ctx context.Context) error {
		live, err := db.GetEngine(ctx).
			In("id", ids).
			Where("deleted_unix = 0").
			Count(new(Task))
		if err != nil {
			return err
		}
		if live != int64(len(ids)) {
			return util.NewInvalidArgumentErrorf("reorder batch contains unknown or deleted tasks")
		}

		for _, item := range items {
			if _, err := db.GetEngine(ctx).Table("task").ID(item.ID).
				Update(map[string]any{scope.column(): item.SortOrder}); err != nil {
				return db.MapSQLError(err)
			}
		}
		return nil
	})
}
