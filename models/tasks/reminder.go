// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"

	"tasknest/models/db"
	"tasknest/modules/taskid"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// ReminderKind distinguishes absolute fire times from offsets relative to
// the task's due time.
type ReminderKind string

const (
	ReminderAbsolute ReminderKind = "absolute"
	ReminderRelative ReminderKind = "relative"
)

// IsValid checks if the reminder kind is known
func (k ReminderKind) IsValid() bool {
	return k == ReminderAbsolute || k == ReminderRelative
}

// Reminder belongs to a task. A separate poller consumes UpcomingReminders
// and calls FireReminder; delivery itself happens outside this core.
type Reminder struct {
	ID              string             `xorm:"pk VARCHAR(26)"`
	TaskID          string             `xorm:"INDEX NOT NULL VARCHAR(26)"`
	RemindAt        timeutil.TimeStamp `xorm:"INDEX NOT NULL"`
	Kind            ReminderKind       `xorm:"VARCHAR(8) NOT NULL DEFAULT 'absolute'"`
	RelativeMinutes int64
	IsFired         bool `xorm:"NOT NULL DEFAULT false"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
	DeletedUnix timeutil.TimeStamp `xorm:"INDEX"`

	Task *Task `xorm:"-"`
}

func init() {
	db.RegisterModel(new(Reminder))
}

// ErrReminderNotExist represents a "ReminderNotExist" kind of error.
type ErrReminderNotExist struct {
	ID string
}

// IsErrReminderNotExist checks if an error is a ErrReminderNotExist
func IsErrReminderNotExist(err error) bool {
	_, ok := err.(ErrReminderNotExist)
	return ok
}

func (err ErrReminderNotExist) Error() string {
	return fmt.Sprintf("reminder does not exist [id: %s]", err.ID)
}

func (err ErrReminderNotExist) Unwrap() error {
	return util.ErrNotExist
}

func getLiveReminder(ctx context.Context, id string) (*Reminder, error) {
	r := new(Reminder)
	has, err := db.GetEngine(ctx).Where("id = ? AND deleted_unix = 0", id).Get(r)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrReminderNotExist{ID: id}
	}
	return r, nil
}

// CreateReminder attaches a reminder to a live task.
func CreateReminder(ctx context.Context, taskID string, remindAt timeutil.TimeStamp, kind ReminderKind, relativeMinutes int64) (*Reminder, error) {
	if kind == "" {
		kind = ReminderAbsolute
	}
	if !kind.IsValid() {
		return nil, util.NewInvalidArgumentErrorf("reminder kind must be %q or %q", ReminderAbsolute, ReminderRelative)
	}
	if remindAt.IsZero() {
		return nil, util.NewInvalidArgumentErrorf("reminder fire time must be set")
	}

	reminder := &Reminder{
		ID:              taskid.New(),
		TaskID:          taskID,
		RemindAt:        remindAt,
		Kind:            kind,
		RelativeMinutes: relativeMinutes,
	}
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := getLiveTask(ctx, taskID); err != nil {
			return err
		}
		return db.Insert(ctx, reminder)
	})
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// UpcomingReminders returns every live unfired reminder ordered by fire
// time, each with its task attached. Reminders whose task was deleted
// underneath are left out of the feed.
func UpcomingReminders(ctx context.Context) ([]*Reminder, error) {
	reminders := make([]*Reminder, 0, 10)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0 AND is_fired = ?", false).
		OrderBy("remind_at").
		Find(&reminders); err != nil {
		return nil, err
	}

	upcoming := make([]*Reminder, 0, len(reminders))
	for _, r := range reminders {
		task, err := getLiveTask(ctx, r.TaskID)
		if err != nil {
			if IsErrTaskNotExist(err) {
				continue
			}
			return nil, err
		}
		r.Task = task
		upcoming = append(upcoming, r)
	}
	return upcoming, nil
}

// FireReminder marks the reminder fired.
func FireReminder(ctx context.Context, id string) (*Reminder, error) {
	var reminder *Reminder
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if reminder, err = getLiveReminder(ctx, id); err != nil {
			return err
		}
		reminder.IsFired = true
		_, err = db.GetEngine(ctx).ID(reminder.ID).Cols("is_fired").Update(reminder)
		return db.MapSQLError(err)
	})
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// DeleteReminder soft-deletes the reminder; deleting again reports NotFound.
func DeleteReminder(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		reminder, err := getLiveReminder(ctx, id)
		if err != nil {
			return err
		}
		reminder.DeletedUnix = timeutil.TimeStampNow()
		_, err = db.GetEngine(ctx).ID(reminder.ID).Cols("deleted_unix").Update(reminder)
		return db.MapSQLError(err)
	})
}
