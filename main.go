// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Tasknest is a local-first task manager built on an embedded database.
package main

import (
	"os"

	"tasknest/cmd"
)

// Version is set at build time
var Version = "development"

func main() {
	app := cmd.NewMainApp(Version)
	if err := cmd.RunMainApp(app, os.Args...); err != nil {
		os.Exit(1)
	}
}
