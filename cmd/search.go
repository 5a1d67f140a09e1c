// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"tasknest/models/tasks"
	task_indexer "tasknest/modules/indexer/tasks"
	"tasknest/modules/optional"

	"github.com/urfave/cli/v2"
)

// CmdSearch searches tasks by keyword
var CmdSearch = &cli.Command{
	Name:      "search",
	Usage:     "Search tasks by keyword",
	ArgsUsage: "KEYWORD",
	Action:    runSearch,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "project",
			Usage: "restrict the search to one project id",
		},
		&cli.BoolFlag{
			Name:  "include-completed",
			Usage: "include completed tasks",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results",
		},
	},
}

func runSearch(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one keyword argument")
	}

	ctx, err := initWorkContext(c)
	if err != nil {
		return err
	}
	defer closeWorkContext()

	opts := &task_indexer.SearchOptions{
		Keyword:          c.Args().First(),
		IncludeCompleted: c.Bool("include-completed"),
		Limit:            c.Int("limit"),
	}
	if project := c.String("project"); project != "" {
		opts.ProjectID = optional.Some(project)
	}

	found, err := tasks.SearchTasks(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%d tasks found (%s search)\n", len(found), task_indexer.SearchMode())
	for _, task := range found {
		state := " "
		if task.IsCompleted {
			state = "x"
		}
		fmt.Fprintf(c.App.Writer, "[%s] %s  %s\n", state, task.ID, task.Title)
	}
	return nil
}
