// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd provides subcommands of the tasknest binary
package cmd

import (
	"context"
	"fmt"

	"tasknest/models/db"
	task_indexer "tasknest/modules/indexer/tasks"
	"tasknest/modules/log"
	"tasknest/modules/setting"

	// model packages register their tables at init time
	_ "tasknest/models/system"
	_ "tasknest/models/tasks"

	"github.com/urfave/cli/v2"
)

// NewMainApp creates the main tasknest cli app
func NewMainApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "tasknest"
	app.Usage = "A local-first task manager"
	app.Version = version
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "",
			Usage:   "custom configuration file path",
		},
	}
	app.Commands = []*cli.Command{
		CmdMigrate,
		CmdSearch,
		CmdReminders,
	}
	app.DefaultCommand = CmdSearch.Name
	return app
}

// RunMainApp runs the app and reports any failure on stderr
func RunMainApp(app *cli.App, args ...string) error {
	err := app.Run(args)
	if err != nil {
		_, _ = fmt.Fprintf(app.ErrWriter, "Command error: %v\n", err)
	}
	return err
}

// initWorkContext loads settings and opens the database and the task
// index. Every subcommand starts here.
func initWorkContext(c *cli.Context) (context.Context, error) {
	setting.Init(c.String("config"))

	ctx := c.Context
	if err := db.InitEngine(ctx); err != nil {
		return nil, fmt.Errorf("open database at %s: %w", setting.Database.Path, err)
	}
	if err := task_indexer.InitTaskIndexer(ctx); err != nil {
		return nil, fmt.Errorf("init task indexer: %w", err)
	}
	return ctx, nil
}

func closeWorkContext() {
	task_indexer.CloseTaskIndexer()
	if err := db.Close(); err != nil {
		log.Error("Failed to close database: %v", err)
	}
}
