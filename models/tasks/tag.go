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

// Tag is a label attachable to any number of tasks. Names are unique among
// live tags, ignoring case; a soft-deleted tag frees its name.
type Tag struct {
	ID    string `xorm:"pk VARCHAR(26)"`
	Name  string `xorm:"INDEX NOT NULL"`
	Color string `xorm:"VARCHAR(7)"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
	DeletedUnix timeutil.TimeStamp `xorm:"INDEX"`
}

func init() {
	db.RegisterModel(new(Tag))
}

// ErrTagNotExist represents a "TagNotExist" kind of error.
type ErrTagNotExist struct {
	ID string
}

// IsErrTagNotExist checks if an error is a ErrTagNotExist
func IsErrTagNotExist(err error) bool {
	_, ok := err.(ErrTagNotExist)
	return ok
}

func (err ErrTagNotExist) Error() string {
	return fmt.Sprintf("tag does not exist [id: %s]", err.ID)
}

func (err ErrTagNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrTagAlreadyExist represents a "TagAlreadyExist" kind of error.
type ErrTagAlreadyExist struct {
	Name string
}

// IsErrTagAlreadyExist checks if an error is a ErrTagAlreadyExist
func IsErrTagAlreadyExist(err error) bool {
	_, ok := err.(ErrTagAlreadyExist)
	return ok
}

func (err ErrTagAlreadyExist) Error() string {
	return fmt.Sprintf("tag already exists [name: %s]", err.Name)
}

func (err ErrTagAlreadyExist) Unwrap() error {
	return util.ErrAlreadyExist
}

func getLiveTag(ctx context.Context, id string) (*Tag, error) {
	tag := new(Tag)
	has, err := db.GetEngine(ctx).Where("id = ? AND deleted_unix = 0", id).Get(tag)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrTagNotExist{ID: id}
	}
	return tag, nil
}

func liveTagNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	sess := db.GetEngine(ctx).
		Where(db.BuildCaseInsensitiveEq("name", name)).
		Where("deleted_unix = 0")
	if excludeID != "" {
		sess = sess.Where("id <> ?", excludeID)
	}
	return sess.Exist(new(Tag))
}

// CreateTag creates a tag; a live tag with the same name is a conflict.
func CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewInvalidArgumentErrorf("tag name must not be empty")
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	tag := &Tag{
		ID:    taskid.New(),
		Name:  name,
		Color: color,
	}
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if taken, err := liveTagNameTaken(ctx, name, ""); err != nil {
			return err
		} else if taken {
			return ErrTagAlreadyExist{Name: name}
		}
		return db.Insert(ctx, tag)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// GetTagByID returns the live tag.
func GetTagByID(ctx context.Context, id string) (*Tag, error) {
	return getLiveTag(ctx, id)
}

// FindTags lists live tags ordered by name.
func FindTags(ctx context.Context) ([]*Tag, error) {
	tags := make([]*Tag, 0, 10)
	if err := db.GetEngine(ctx).
		Where("deleted_unix = 0").
		OrderBy("name COLLATE NOCASE, id").
		Find(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// UpdateTagOptions is a partial update: only supplied fields are touched.
type UpdateTagOptions struct {
	Name  optional.Option[string]
	Color optional.Option[string]
}

// UpdateTag applies a partial update; renaming onto another live tag's name
// is a conflict.
func UpdateTag(ctx context.Context, id string, opts UpdateTagOptions) (*Tag, error) {
	if opts.Name.Has() && strings.TrimSpace(opts.Name.Value()) == "" {
		return nil, util.NewInvalidArgumentErrorf("tag name must not be empty")
	}
	if opts.Color.Has() {
		if err := validateColor(opts.Color.Value()); err != nil {
			return nil, err
		}
	}

	var tag *Tag
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if tag, err = getLiveTag(ctx, id); err != nil {
			return err
		}
		if opts.Name.Has() {
			name := strings.TrimSpace(opts.Name.Value())
			if taken, err := liveTagNameTaken(ctx, name, tag.ID); err != nil {
				return err
			} else if taken {
				return ErrTagAlreadyExist{Name: name}
			}
			tag.Name = name
		}
		if opts.Color.Has() {
			tag.Color = opts.Color.Value()
		}
		_, err = db.GetEngine(ctx).ID(tag.ID).Cols("name", "color").Update(tag)
		return db.MapSQLError(err)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag soft-deletes the tag and hard-deletes its task links in the same
// transaction.
func DeleteTag(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		tag, err := getLiveTag(ctx, id)
		if err != nil {
			return err
		}
		tag.DeletedUnix = timeutil.TimeStampNow()
		if _, err = db.GetEngine(ctx).ID(tag.ID).Cols("deleted_unix").Update(tag); err != nil {
			return db.MapSQLError(err)
		}
		_, err = db.GetEngine(ctx).Delete(&TaskTagLink{TagID: id})
		return db.MapSQLError(err)
	})
}
