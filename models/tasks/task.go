// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tasknest/models/db"
	"tasknest/modules/container"
	"tasknest/modules/markup"
	"tasknest/modules/optional"
	"tasknest/modules/taskid"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// Priority is the task priority, from none (0) to urgent (4).
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// IsValid checks if the priority is in range
func (p Priority) IsValid() bool {
	return p >= PriorityNone && p <= PriorityUrgent
}

var (
	dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dueTimePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
)

// Task represents a single task, optionally owned by a project, a board
// column and a parent task. Rows are soft-deleted: DeletedUnix != 0 excludes
// a row from every default read but the row stays in place.
type Task struct {
	ID             string `xorm:"pk VARCHAR(26)"`
	Title          string `xorm:"NOT NULL"`
	Notes          string `xorm:"TEXT"`
	NotesPlain     string `xorm:"TEXT"` // plain-text rendering of Notes, resynced on every write
	IsCompleted    bool   `xorm:"INDEX NOT NULL DEFAULT false"`
	CompletedUnix  timeutil.TimeStamp
	Priority       Priority `xorm:"INDEX NOT NULL DEFAULT 0"`
	DueDate        string   `xorm:"VARCHAR(10) INDEX"` // ISO date, empty when unset
	DueTime        string   `xorm:"VARCHAR(8)"`
	ProjectID      string   `xorm:"INDEX VARCHAR(26)"`
	BoardColumnID  string   `xorm:"INDEX VARCHAR(26)"`
	ParentTaskID   string   `xorm:"INDEX VARCHAR(26)"`
	RecurrenceRule string   `xorm:"TEXT"`

	// fractional sibling positions; list order is scoped by parent task,
	// board order by board column
	SortOrder      float64 `xorm:"NOT NULL DEFAULT 0"`
	BoardSortOrder float64 `xorm:"NOT NULL DEFAULT 0"`

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
	DeletedUnix timeutil.TimeStamp `xorm:"INDEX"`

	Tags      []*Tag      `xorm:"-"`
	Reminders []*Reminder `xorm:"-"`
}

func init() {
	db.RegisterModel(new(Task))
}

// ErrTaskNotExist represents a "TaskNotExist" kind of error.
type ErrTaskNotExist struct {
	ID string
}

// IsErrTaskNotExist checks if an error is a ErrTaskNotExist.
func IsErrTaskNotExist(err error) bool {
	_, ok := err.(ErrTaskNotExist)
	return ok
}

func (err ErrTaskNotExist) Error() string {
	return fmt.Sprintf("task does not exist [id: %s]", err.ID)
}

func (err ErrTaskNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrTaskCycle is returned when a parent assignment would close a cycle in
// the parent/child relation.
type ErrTaskCycle struct {
	TaskID   string
	ParentID string
}

// IsErrTaskCycle checks if an error is a ErrTaskCycle.
func IsErrTaskCycle(err error) bool {
	_, ok := err.(ErrTaskCycle)
	return ok
}

func (err ErrTaskCycle) Error() string {
	return fmt.Sprintf("assigning parent %s to task %s would create a cycle", err.ParentID, err.TaskID)
}

func (err ErrTaskCycle) Unwrap() error {
	return util.ErrInvalidArgument
}

// CreateTaskOptions are the fields of a new task.
type CreateTaskOptions struct {
	Title          string
	Notes          string
	Priority       Priority
	DueDate        string
	DueTime        string
	ProjectID      string
	BoardColumnID  string
	ParentTaskID   string
	RecurrenceRule string
	TagIDs         []string
}

// UpdateTaskOptions is a partial update: only supplied fields are touched.
// TagIDs, when supplied, replaces the task's whole tag set.
type UpdateTaskOptions struct {
	Title          optional.Option[string]
	Notes          optional.Option[string]
	Priority       optional.Option[Priority]
	DueDate        optional.Option[string]
	DueTime        optional.Option[string]
	ProjectID      optional.Option[string]
	BoardColumnID  optional.Option[string]
	ParentTaskID   optional.Option[string]
	RecurrenceRule optional.Option[string]
	SortOrder      optional.Option[float64]
	BoardSortOrder optional.Option[float64]
	TagIDs         optional.Option[[]string]
}

func validateDueDate(s string) error {
	if s != "" && !dueDatePattern.MatchString(s) {
		return util.NewInvalidArgumentErrorf("due date must be an ISO date (YYYY-MM-DD), got %q", s)
	}
	return nil
}

func validateDueTime(s string) error {
	if s != "" && !dueTimePattern.MatchString(s) {
		return util.NewInvalidArgumentErrorf("due time must be HH:MM or HH:MM:SS, got %q", s)
	}
	return nil
}

// nextSortOrder computes the position for a new sibling inside one ordering
// scope: max live sibling position + 1, or 0 for the first sibling.
func nextSortOrder(ctx context.Context, orderCol, scopeCol, scopeVal string) (float64, error) {
	var next float64
	_, err := db.GetEngine(ctx).
		SQL("SELECT COALESCE(MAX("+orderCol+"), -1) + 1 FROM task WHERE "+scopeCol+" = ? AND deleted_unix = 0", scopeVal).
		Get(&next)
	return next, err
}

func getLiveTask(ctx context.Context, id string) (*Task, error) {
	t := new(Task)
	has, err := db.GetEngine(ctx).Where("id = ? AND deleted_unix = 0", id).Get(t)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrTaskNotExist{ID: id}
	}
	return t, nil
}

// validateParentChain walks the ancestor chain starting at parentID and
// fails if it passes through taskID. A corrupt pre-existing loop is reported
// as a cycle too instead of hanging.
func validateParentChain(ctx context.Context, taskID, parentID string) error {
	seen := container.SetOf(taskID)
	cur := parentID
	for cur != "" {
		if !seen.Add(cur) {
			return ErrTaskCycle{TaskID: taskID, ParentID: parentID}
		}
		parent, err := getLiveTask(ctx, cur)
		if err != nil {
			return err
		}
		cur = parent.ParentTaskID
	}
	return nil
}

// CreateTask creates a task with fresh positions in both ordering scopes and
// links the given tags, all in one transaction.
func CreateTask(ctx context.Context, opts CreateTaskOptions) (*Task, error) {
	opts.Title = strings.TrimSpace(opts.Title)
	if opts.Title == "" {
		return nil, util.NewInvalidArgumentErrorf("task title must not be empty")
	}
	if !opts.Priority.IsValid() {
		return nil, util.NewInvalidArgumentErrorf("priority must be between %d and %d", PriorityNone, PriorityUrgent)
	}
	if err := validateDueDate(opts.DueDate); err != nil {
		return nil, err
	}
	if err := validateDueTime(opts.DueTime); err != nil {
		return nil, err
	}

	task := &Task{
		ID:             taskid.New(),
		Title:          opts.Title,
		Notes:          opts.Notes,
		NotesPlain:     markup.PlainText(opts.Notes),
		Priority:       opts.Priority,
		DueDate:        opts.DueDate,
		DueTime:        opts.DueTime,
		ProjectID:      opts.ProjectID,
		BoardColumnID:  opts.BoardColumnID,
		ParentTaskID:   opts.ParentTaskID,
		RecurrenceRule: opts.RecurrenceRule,
	}

	err := db.WithTx(ctx, func(ctx context.Context) error {
		if task.ProjectID != "" {
			if _, err := getLiveProject(ctx, task.ProjectID); err != nil {
				return err
			}
		}
		if task.BoardColumnID != "" {
			if _, err := getLiveBoardColumn(ctx, task.BoardColumnID); err != nil {
				return err
			}
		}
		if task.ParentTaskID != "" {
			if err := validateParentChain(ctx, task.ID, task.ParentTaskID); err != nil {
				return err
			}
		}
		if err := validateLiveTagIDs(ctx, opts.TagIDs); err != nil {
			return err
		}

		var err error
		if task.SortOrder, err = nextSortOrder(ctx, "sort_order", "parent_task_id", task.ParentTaskID); err != nil {
			return err
		}
		if task.BoardColumnID != "" {
			if task.BoardSortOrder, err = nextSortOrder(ctx, "board_sort_order", "board_column_id", task.BoardColumnID); err != nil {
				return err
			}
		}

		if err = db.Insert(ctx, task); err != nil {
			return err
		}
		return insertTaskTagLinks(ctx, task.ID, opts.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	if err := task.LoadAttributes(db.DefaultContext); err != nil {
		return nil, err
	}
	syncTasksToIndexer(task)
	return task, nil
}

// LoadAttributes attaches tags and reminders to the task.
func (t *Task) LoadAttributes(ctx context.Context) error {
	return TaskList{t}.LoadAttributes(ctx)
}

// GetTaskByID returns the live task with tags and reminders attached.
func GetTaskByID(ctx context.Context, id string) (*Task, error) {
	task, err := getLiveTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.LoadAttributes(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. Supplying TagIDs replaces the whole
// tag set in the same transaction (replace-all, unknown ids reject the call).
func UpdateTask(ctx context.Context, id string, opts UpdateTaskOptions) (*Task, error) {
	if opts.Title.Has() && strings.TrimSpace(opts.Title.Value()) == "" {
		return nil, util.NewInvalidArgumentErrorf("task title must not be empty")
	}
	if opts.Priority.Has() && !opts.Priority.Value().IsValid() {
		return nil, util.NewInvalidArgumentErrorf("priority must be between %d and %d", PriorityNone, PriorityUrgent)
	}
	if opts.DueDate.Has() {
		if err := validateDueDate(opts.DueDate.Value()); err != nil {
			return nil, err
		}
	}
	if opts.DueTime.Has() {
		if err := validateDueTime(opts.DueTime.Value()); err != nil {
			return nil, err
		}
	}

	var task *Task
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if task, err = getLiveTask(ctx, id); err != nil {
			return err
		}

		if opts.Title.Has() {
			task.Title = strings.TrimSpace(opts.Title.Value())
		}
		if opts.Notes.Has() {
			task.Notes = opts.Notes.Value()
			task.NotesPlain = markup.PlainText(task.Notes)
		}
		if opts.Priority.Has() {
			task.Priority = opts.Priority.Value()
		}
		if opts.DueDate.Has() {
			task.DueDate = opts.DueDate.Value()
		}
		if opts.DueTime.Has() {
			task.DueTime = opts.DueTime.Value()
		}
		if opts.RecurrenceRule.Has() {
			task.RecurrenceRule = opts.RecurrenceRule.Value()
		}
		if opts.ProjectID.Has() {
			task.ProjectID = opts.ProjectID.Value()
			if task.ProjectID != "" {
				if _, err := getLiveProject(ctx, task.ProjectID); err != nil {
					return err
				}
			}
		}
		if opts.BoardColumnID.Has() {
			task.BoardColumnID = opts.BoardColumnID.Value()
			if task.BoardColumnID != "" {
				if _, err := getLiveBoardColumn(ctx, task.BoardColumnID); err != nil {
					return err
				}
			}
		}
		if opts.ParentTaskID.Has() {
			task.ParentTaskID = opts.ParentTaskID.Value()
			if task.ParentTaskID != "" {
				if err := validateParentChain(ctx, task.ID, task.ParentTaskID); err != nil {
					return err
				}
			}
		}
		if opts.SortOrder.Has() {
			task.SortOrder = opts.SortOrder.Value()
		}
		if opts.BoardSortOrder.Has() {
			task.BoardSortOrder = opts.BoardSortOrder.Value()
		}

		if _, err = db.GetEngine(ctx).ID(task.ID).
			Cols("title", "notes", "notes_plain", "priority", "due_date", "due_time",
				"project_id", "board_column_id", "parent_task_id", "recurrence_rule",
				"sort_order", "board_sort_order").
			Update(task); err != nil {
			return db.MapSQLError(err)
		}

		if opts.TagIDs.Has() {
			if err := replaceTaskTags(ctx, task.ID, opts.TagIDs.Value()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := task.LoadAttributes(db.DefaultContext); err != nil {
		return nil, err
	}
	syncTasksToIndexer(task)
	return task, nil
}

// ToggleTaskComplete flips the completion flag; the completion timestamp is
// set or cleared alongside.
func ToggleTaskComplete(ctx context.Context, id string) (*Task, error) {
	var task *Task
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if task, err = getLiveTask(ctx, id); err != nil {
			return err
		}
		task.IsCompleted = !task.IsCompleted
		if task.IsCompleted {
			task.CompletedUnix = timeutil.TimeStampNow()
		} else {
			task.CompletedUnix = 0
		}
		_, err = db.GetEngine(ctx).ID(task.ID).
			Cols("is_completed", "completed_unix").Update(task)
		return db.MapSQLError(err)
	})
	if err != nil {
		return nil, err
	}

	if err := task.LoadAttributes(db.DefaultContext); err != nil {
		return nil, err
	}
	syncTasksToIndexer(task)
	return task, nil
}

// BulkCompleteProjectTasks marks every live incomplete task of the project
// completed in one transaction and returns how many were touched.
func BulkCompleteProjectTasks(ctx context.Context, projectID string) (int64, error) {
	var affected []string
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := getLiveProject(ctx, projectID); err != nil {
			return err
		}
		if err := db.GetEngine(ctx).Table("task").
			Where("project_id = ? AND deleted_unix = 0 AND is_completed = ?", projectID, false).
			Cols("id").Find(&affected); err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}
		_, err := db.GetEngine(ctx).Table("task").
			In("id", affected).
			Update(map[string]any{
				"is_completed":   true,
				"completed_unix": timeutil.TimeStampNow(),
				"updated_unix":   timeutil.TimeStampNow(),
			})
		return db.MapSQLError(err)
	})
	if err != nil {
		return 0, err
	}

	syncTaskIDsToIndexer(affected...)
	return int64(len(affected)), nil
}

// DeleteTask soft-deletes the task and hard-deletes its tag links. The links
// are plain join data, their rows carry nothing worth keeping.
func DeleteTask(ctx context.Context, id string) error {
	err := db.WithTx(ctx, func(ctx context.Context) error {
		task, err := getLiveTask(ctx, id)
		if err != nil {
			return err
		}
		task.DeletedUnix = timeutil.TimeStampNow()
		if _, err = db.GetEngine(ctx).ID(task.ID).Cols("deleted_unix").Update(task); err != nil {
			return db.MapSQLError(err)
		}
		_, err = db.GetEngine(ctx).Delete(&TaskTagLink{TaskID: id})
		return db.MapSQLError(err)
	})
	if err != nil {
		return err
	}

	removeTasksFromIndexer(id)
	return nil
}
