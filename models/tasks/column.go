// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"
	"strings"

	"tasknest/models/db"
	"tasknest/modules/optional"
	"tasknest/modules/taskid"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// BoardColumn is a column of a project's board view. Board task order is
// scoped per column.
type BoardColumn struct {
	ID        string  `xorm:"pk VARCHAR(26)"`
	ProjectID string  `xorm:"INDEX NOT NULL VARCHAR(26)"`
	Name      string  `xorm:"NOT NULL"`
	SortOrder float64 `xorm:"NOT NULL DEFAULT 0"`

	// IsDone marks a terminal column, tasks moved here count as finished
	// on the board even before being ticked off
	IsDone bool `xorm:"NOT NULL DEFAULT false"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
	DeletedUnix timeutil.TimeStamp `xorm:"INDEX"`
}

// TableName return the real table name
func (BoardColumn) TableName() string {
	return "board_column"
}

func init() {
	db.RegisterModel(new(BoardColumn))
}

// ErrBoardColumnNotExist represents a "BoardColumnNotExist" kind of error.
type ErrBoardColumnNotExist struct {
	ID string
}

// IsErrBoardColumnNotExist checks if an error is a ErrBoardColumnNotExist
func IsErrBoardColumnNotExist(err error) bool {
	_, ok := err.(ErrBoardColumnNotExist)
	return ok
}

func (err ErrBoardColumnNotExist) Error() string {
	return fmt.Sprintf("board column does not exist [id: %s]", err.ID)
}

func (err ErrBoardColumnNotExist) Unwrap() error {
	return util.ErrNotExist
}

func getLiveBoardColumn(ctx context.Context, id string) (*BoardColumn, error) {
	c := new(BoardColumn)
	has, err := db.GetEngine(ctx).Where("id = ? AND deleted_unix = 0", id).Get(c)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrBoardColumnNotExist{ID: id}
	}
	return c, nil
}

// CreateBoardColumn appends a column to the project's board.
func CreateBoardColumn(ctx context.Context, projectID, name string, isDone bool) (*BoardColumn, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewInvalidArgumentErrorf("board column name must not be empty")
	}

	column := &BoardColumn{
		ID:        taskid.New(),
		ProjectID: projectID,
		Name:      name,
		IsDone:    isDone,
	}
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := getLiveProject(ctx, projectID); err != nil {
			return err
		}
		var next float64
		if _, err := db.GetEngine(ctx).
			SQL("SELECT COALESCE(MAX(sort_order), -1) + 1 FROM board_column WHERE project_id = ? AND deleted_unix = 0", projectID).
			Get(&next); err != nil {
			return err
		}
		column.SortOrder = next
		return db.Insert(ctx, column)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// ColumnsOfProject lists the live columns of a project in board order.
func ColumnsOfProject(ctx context.Context, projectID string) ([]*BoardColumn, error) {
	columns := make([]*BoardColumn, 0, 5)
	if err := db.GetEngine(ctx).
		Where("project_id = ? AND deleted_unix = 0", projectID).
		OrderBy("sort_order, id").
		Find(&columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// UpdateBoardColumnOptions is a partial update: only supplied fields are touched.
type UpdateBoardColumnOptions struct {
	Name      optional.Option[string]
	SortOrder optional.Option[float64]
	IsDone    optional.Option[bool]
}

// UpdateBoardColumn applies a partial update to a live column.
func UpdateBoardColumn(ctx context.Context, id string, opts UpdateBoardColumnOptions) (*BoardColumn, error) {
	if opts.Name.Has() && strings.TrimSpace(opts.Name.Value()) == "" {
		return nil, util.NewInvalidArgumentErrorf("board column name must not be empty")
	}

	var column *BoardColumn
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if column, err = getLiveBoardColumn(ctx, id); err != nil {
			return err
		}
		if opts.Name.Has() {
			column.Name = strings.TrimSpace(opts.Name.Value())
		}
		if opts.SortOrder.Has() {
			column.SortOrder = opts.SortOrder.Value()
		}
		if opts.IsDone.Has() {
			column.IsDone = opts.IsDone.Value()
		}
		_, err = db.GetEngine(ctx).ID(column.ID).
			Cols("name", "sort_order", "is_done").Update(column)
		return db.MapSQLError(err)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteBoardColumn soft-deletes the column and clears it off every live
// task in the same transaction, the same cascade emulation as projects.
func DeleteBoardColumn(ctx context.Context, id string) error {
	var affected []string
	err := db.WithTx(ctx, func(ctx context.Context) error {
		column, err := getLiveBoardColumn(ctx, id)
		if err != nil {
			return err
		}

		if err := db.GetEngine(ctx).Table("task").
			Where("board_column_id = ? AND deleted_unix = 0", id).
			Cols("id").Find(&affected); err != nil {
			return err
		}
		if len(affected) > 0 {
			if _, err := db.GetEngine(ctx).Table("task").
				In("id", affected).
				Update(map[string]any{
					"board_column_id": "",
					"updated_unix":    timeutil.TimeStampNow(),
				}); err != nil {
				return db.MapSQLError(err)
			}
		}

		column.DeletedUnix = timeutil.TimeStampNow()
		_, err = db.GetEngine(ctx).ID(column.ID).Cols("deleted_unix").Update(column)
		return db.MapSQLError(err)
	})
	return err
}
