// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tasknest/models/db"
	"tasknest/modules/optional"
	"tasknest/modules/taskid"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// ViewMode is how a project renders its tasks.
type ViewMode string

const (
	ViewModeList  ViewMode = "list"
	ViewModeBoard ViewMode = "board"
)

// IsValid checks if the view mode is known
func (m ViewMode) IsValid() bool {
	return m == ViewModeList || m == ViewModeBoard
}

// colorPattern matches #rgb and #rrggbb hex colors
var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Project groups tasks. Soft-deleting a project never touches its tasks
// beyond clearing their project reference.
type Project struct {
	ID          string `xorm:"pk VARCHAR(26)"`
	Name        string `xorm:"NOT NULL"`
	Description string `xorm:"TEXT"`
	Color       string `xorm:"VARCHAR(7)"`
	Icon        string
	ViewMode    ViewMode `xorm:"VARCHAR(5) NOT NULL DEFAULT 'list'"`
	IsArchived  bool     `xorm:"NOT NULL DEFAULT false"`
	SortOrder   float64  `xorm:"NOT NULL DEFAULT 0"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
	DeletedUnix timeutil.TimeStamp `xorm:"INDEX"`

	// number of live incomplete tasks, attached by the listing reads
	NumOpenTasks int64 `xorm:"-"`
}

func init() {
	db.RegisterModel(new(Project))
}

// ErrProjectNotExist represents a "ProjectNotExist" kind of error.
type ErrProjectNotExist struct {
	ID string
}

// IsErrProjectNotExist checks if an error is a ErrProjectNotExist
func IsErrProjectNotExist(err error) bool {
	_, ok := err.(ErrProjectNotExist)
	return ok
}

func (err ErrProjectNotExist) Error() string {
	return fmt.Sprintf("project does not exist [id: %s]", err.ID)
}

func (err ErrProjectNotExist) Unwrap() error {
	return util.ErrNotExist
}

// CreateProjectOptions are the fields of a new project.
type CreateProjectOptions struct {
	Name        string
	Description string
	Color       string
	Icon        string
	ViewMode    ViewMode
}

// UpdateProjectOptions is a partial update: only supplied fields are touched.
type UpdateProjectOptions struct {
	Name        optional.Option[string]
	Description optional.Option[string]
	Color       optional.Option[string]
	Icon        optional.Option[string]
	ViewMode    optional.Option[ViewMode]
	IsArchived  optional.Option[bool]
	SortOrder   optional.Option[float64]
}

func validateColor(s string) error {
	if s != "" && !colorPattern.MatchString(s) {
		return util.NewInvalidArgumentErrorf("color must be a hex color (#rgb or #rrggbb), got %q", s)
	}
	return nil
}

func getLiveProject(ctx context.Context, id string) (*Project, error) {
	p := new(Project)
	has, err := db.GetEngine(ctx).Where("id = ? AND deleted_unix = 0", id).Get(p)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrProjectNotExist{ID: id}
	}
	return p, nil
}

// CreateProject creates a project at the end of the project ordering.
func CreateProject(ctx context.Context, opts CreateProjectOptions) (*Project, error) {
	opts.Name = strings.TrimSpace(opts.Name)
	if opts.Name == "" {
		return nil, util.NewInvalidArgumentErrorf("project name must not be empty")
	}
	if err := validateColor(opts.Color); err != nil {
		return nil, err
	}
	if opts.ViewMode == "" {
		opts.ViewMode = ViewModeList
	}
	if !opts.ViewMode.IsValid() {
		return nil, util.NewInvalidArgumentErrorf("view mode must be %q or %q", ViewModeList, ViewModeBoard)
	}
	if opts.Color == "" {
		opts.Color = "#6366f1"
	}
	if opts.Icon == "" {
		opts.Icon = "folder"
	}

	project := &Project{
		ID:          taskid.New(),
		Name:        opts.Name,
		Description: opts.Description,
		Color:       opts.Color,
		Icon:        opts.Icon,
		ViewMode:    opts.ViewMode,
	}

	err := db.WithTx(ctx, func(ctx context.Context) error {
		var next float64
		if _, err := db.GetEngine(ctx).
			SQL("SELECT COALESCE(MAX(sort_order), -1) + 1 FROM project WHERE deleted_unix = 0").
			Get(&next); err != nil {
			return err
		}
		project.SortOrder = next
		return db.Insert(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetProjectByID returns the live project with its open task count attached.
func GetProjectByID(ctx context.Context, id string) (*Project, error) {
	project, err := getLiveProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := project.loadNumOpenTasks(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

func (p *Project) loadNumOpenTasks(ctx context.Context) (err error) {
	p.NumOpenTasks, err = db.GetEngine(ctx).
		Where("project_id = ? AND deleted_unix = 0 AND is_completed = ?", p.ID, false).
		Count(new(Task))
	return err
}

// FindProjectsOptions are the filters of a project listing.
type FindProjectsOptions struct {
	IncludeArchived bool
}

// FindProjects lists live projects ordered by sort position then name, each
// with its open task count attached.
func FindProjects(ctx context.Context, opts FindProjectsOptions) ([]*Project, error) {
	sess := db.GetEngine(ctx).Where("deleted_unix = 0")
	if !opts.IncludeArchived {
		sess = sess.Where("is_archived = ?", false)
	}

	projects := make([]*Project, 0, 10)
	if err := sess.OrderBy("sort_order, name").Find(&projects); err != nil {
		return nil, err
	}
	for _, p := range projects {
		if err := p.loadNumOpenTasks(ctx); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// UpdateProject applies a partial update to a live project.
func UpdateProject(ctx context.Context, id string, opts UpdateProjectOptions) (*Project, error) {
	if opts.Name.Has() && strings.TrimSpace(opts.Name.Value()) == "" {
		return nil, util.NewInvalidArgumentErrorf("project name must not be empty")
	}
	if opts.Color.Has() {
		if err := validateColor(opts.Color.Value()); err != nil {
			return nil, err
		}
	}
	if opts.ViewMode.Has() && !opts.ViewMode.Value().IsValid() {
		return nil, util.NewInvalidArgumentErrorf("view mode must be %q or %q", ViewModeList, ViewModeBoard)
	}

	var project *Project
	err := db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if project, err = getLiveProject(ctx, id); err != nil {
			return err
		}

		if opts.Name.Has() {
			project.Name = strings.TrimSpace(opts.Name.Value())
		}
		if opts.Description.Has() {
			project.Description = opts.Description.Value()
		}
		if opts.Color.Has() {
			project.Color = opts.Color.Value()
		}
		if opts.Icon.Has() {
			project.Icon = opts.Icon.Value()
		}
		if opts.ViewMode.Has() {
			project.ViewMode = opts.ViewMode.Value()
		}
		if opts.IsArchived.Has() {
			project.IsArchived = opts.IsArchived.Value()
		}
		if opts.SortOrder.Has() {
			project.SortOrder = opts.SortOrder.Value()
		}

		_, err = db.GetEngine(ctx).ID(project.ID).
			Cols("name", "description", "color", "icon", "view_mode", "is_archived", "sort_order").
			Update(project)
		return db.MapSQLError(err)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject soft-deletes the project. The store's set-null cascade only
// fires on physical deletes, so the same transaction first clears the
// project (and its columns) off every live task: no reader ever sees a task
// pointing at a project that is already gone.
func DeleteProject(ctx context.Context, id string) error {
	var affected []string
	err := db.WithTx(ctx, func(ctx context.Context) error {
		project, err := getLiveProject(ctx, id)
		if err != nil {
			return err
		}

		if err := db.GetEngine(ctx).Table("task").
			Where("project_id = ? AND deleted_unix = 0", id).
			Cols("id").Find(&affected); err != nil {
			return err
		}
		if len(affected) > 0 {
			if _, err := db.GetEngine(ctx).Table("task").
				In("id", affected).
				Update(map[string]any{
					"project_id":      "",
					"board_column_id": "",
					"updated_unix":    timeutil.TimeStampNow(),
				}); err != nil {
				return db.MapSQLError(err)
			}
		}

		project.DeletedUnix = timeutil.TimeStampNow()
		_, err = db.GetEngine(ctx).ID(project.ID).Cols("deleted_unix").Update(project)
		return db.MapSQLError(err)
	})
	if err != nil {
		return err
	}

	syncTaskIDsToIndexer(affected...)
	return nil
}
