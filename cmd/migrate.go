// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"tasknest/modules/setting"

	"github.com/urfave/cli/v2"
)

// CmdMigrate creates the database file and brings its schema up to date
var CmdMigrate = &cli.Command{
	Name:        "migrate",
	Usage:       "Migrate the database to the current schema",
	Description: "Creates the database file if missing and synchronizes all tables.",
	Action:      runMigrate,
}

func runMigrate(c *cli.Context) error {
	_, err := initWorkContext(c)
	if err != nil {
		return err
	}
	defer closeWorkContext()

	fmt.Fprintf(c.App.Writer, "Database at %s is up to date\n", setting.Database.Path)
	return nil
}
