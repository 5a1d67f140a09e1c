// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"tasknest/models/tasks"

	"github.com/urfave/cli/v2"
)

// CmdReminders lists or fires due reminders
var CmdReminders = &cli.Command{
	Name:   "reminders",
	Usage:  "List pending reminders, oldest first",
	Action: runReminders,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "fire",
			Usage: "mark the reminder with this id as fired",
		},
	},
}

func runReminders(c *cli.Context) error {
	ctx, err := initWorkContext(c)
	if err != nil {
		return err
	}
	defer closeWorkContext()

	if id := c.String("fire"); id != "" {
		reminder, err := tasks.FireReminder(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Reminder %s fired\n", reminder.ID)
		return nil
	}

	reminders, err := tasks.UpcomingReminders(ctx)
	if err != nil {
		return err
	}
	for _, reminder := range reminders {
		title := "(task gone)"
		if reminder.Task != nil {
			title = reminder.Task.Title
		}
		fmt.Fprintf(c.App.Writer, "%s  %s  %s\n", reminder.ID, reminder.RemindAt.Format("2006-01-02 15:04"), title)
	}
	return nil
}
