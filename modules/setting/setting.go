// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package setting holds process configuration, loaded once at startup from an
// ini file. Every value has a default so a missing file is fine.
package setting

import (
	"os"
	"path/filepath"
	"time"

	"tasknest/modules/log"

	"gopkg.in/ini.v1"
)

// Cfg is the loaded configuration file
var Cfg *ini.File

// Database represents the embedded store settings
var Database = struct {
	Path        string
	BusyTimeout time.Duration `ini:"BUSY_TIMEOUT"`
}{
	Path:        "data/tasknest.db",
	BusyTimeout: 5 * time.Second,
}

// Indexer represents the task indexer settings
var Indexer = struct {
	TaskIndexerEnabled bool   `ini:"TASK_INDEXER_ENABLED"`
	TaskIndexerPath    string `ini:"TASK_INDEXER_PATH"`
}{
	TaskIndexerEnabled: true,
	TaskIndexerPath:    "data/indexers/tasks.bleve",
}

// Log represents logging settings
var Log = struct {
	Level string
}{
	Level: "info",
}

// Init loads configuration from the given file. An empty path or a missing
// file keeps the defaults.
func Init(customConf string) {
	loadCfg(customConf)

	if err := Cfg.Section("database").MapTo(&Database); err != nil {
		log.Fatal("Failed to map database settings: %v", err)
	}
	if err := Cfg.Section("indexer").MapTo(&Indexer); err != nil {
		log.Fatal("Failed to map indexer settings: %v", err)
	}
	if err := Cfg.Section("log").MapTo(&Log); err != nil {
		log.Fatal("Failed to map log settings: %v", err)
	}

	log.SetLevel(log.LevelFromString(Log.Level))

	for _, dir := range []string{filepath.Dir(Database.Path), filepath.Dir(Indexer.TaskIndexerPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("Failed to create directory %s: %v", dir, err)
		}
	}
}

func loadCfg(customConf string) {
	Cfg = ini.Empty()
	if customConf == "" {
		return
	}
	if _, err := os.Stat(customConf); os.IsNotExist(err) {
		log.Warn("Config file %s is missing, using defaults", customConf)
		return
	}
	var err error
	Cfg, err = ini.Load(customConf)
	if err != nil {
		log.Fatal("Failed to parse %s: %v", customConf, err)
	}
}
