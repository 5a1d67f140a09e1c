// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"tasknest/modules/log"
	"tasknest/modules/setting"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"xorm.io/xorm"
	xormlog "xorm.io/xorm/log"
	"xorm.io/xorm/names"
)

var (
	x      *xorm.Engine
	tables []any
)

// Engine represents a xorm engine or session
type Engine interface {
	Table(tableNameOrBean any) *xorm.Session
	Count(...any) (int64, error)
	Delete(...any) (int64, error)
	Exec(...any) (sql.Result, error)
	Exist(...any) (bool, error)
	Find(any, ...any) error
	Get(beans ...any) (bool, error)
	ID(any) *xorm.Session
	In(string, ...any) *xorm.Session
	Insert(...any) (int64, error)
	NoAutoTime() *xorm.Session
	OrderBy(order any, args ...any) *xorm.Session
	SQL(any, ...any) *xorm.Session
	Where(any, ...any) *xorm.Session
	Asc(colNames ...string) *xorm.Session
	Desc(colNames ...string) *xorm.Session
	Limit(limit int, start ...int) *xorm.Session
	Cols(...string) *xorm.Session
	Context(ctx context.Context) *xorm.Session
	Ping() error
}

// RegisterModel registers a model to be synced on init
func RegisterModel(bean any) {
	tables = append(tables, bean)
}

// sqliteDSN builds the connection string for the embedded store. The busy
// timeout bounds write transaction acquisition; WAL keeps readers unblocked
// by writers.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=%d&_txlock=immediate&_journal_mode=WAL",
		url.PathEscape(path), setting.Database.BusyTimeout.Milliseconds())
}

// InitEngine opens the database engine and syncs the registered models.
func InitEngine(ctx context.Context) error {
	engine, err := xorm.NewEngine("sqlite3", sqliteDSN(setting.Database.Path))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	// the raw SQL fragments in the models layer rely on gonic column names
	// (ID -> id, ProjectID -> project_id)
	engine.SetMapper(names.GonicMapper{})
	engine.SetLogLevel(xormlog.LOG_WARNING)
	engine.SetDefaultContext(ctx)

	if err = engine.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	SetDefaultEngine(ctx, engine)
	return SyncAllTables()
}

// SetDefaultEngine sets the default engine for db, exposed for test setup
func SetDefaultEngine(ctx context.Context, engine *xorm.Engine) {
	x = engine
	DefaultContext = &Context{Context: ctx, e: x}
}

// SyncAllTables sync the schemas of all registered models
func SyncAllTables() error {
	log.Trace("Syncing %d model tables", len(tables))
	return x.Sync(tables...)
}

// GetMasterEngine returns the raw xorm engine, for shutdown and doctor-type code only
func GetMasterEngine() *xorm.Engine {
	return x
}

// Close closes the engine
func Close() error {
	if x == nil {
		return nil
	}
	return x.Close()
}
