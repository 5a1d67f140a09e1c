// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package unittest provides database helpers for model tests. Each test gets
// a fresh in-memory sqlite engine with all registered models synced; rows are
// created through the public model operations, not fixtures.
package unittest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"tasknest/models/db"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/xorm"
	xormlog "xorm.io/xorm/log"
	"xorm.io/xorm/names"
)

var testDBCounter int64

// PrepareTestDatabase creates a fresh named in-memory database, installs it
// as the default engine and syncs every registered model.
func PrepareTestDatabase(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate",
		atomic.AddInt64(&testDBCounter, 1))
	engine, err := xorm.NewEngine("sqlite3", dsn)
	require.NoError(t, err)
	engine.SetMapper(names.GonicMapper{})
	engine.SetLogLevel(xormlog.LOG_WARNING)

	// keep at least one connection open for the lifetime of the test,
	// a shared-cache memory database vanishes with its last connection
	engine.SetMaxIdleConns(2)

	db.SetDefaultEngine(context.Background(), engine)
	require.NoError(t, db.SyncAllTables())

	t.Cleanup(func() {
		_ = engine.Close()
	})
}

// AssertExistsAndLoadBean assert that a bean exists and load it from the test database
func AssertExistsAndLoadBean[T any](t *testing.T, bean T) T {
	t.Helper()
	exists, err := db.GetEngine(db.DefaultContext).Get(bean)
	require.NoError(t, err)
	require.True(t, exists, "expected to find bean %+v", bean)
	return bean
}

// AssertNotExistsBean assert that a bean does not exist in the test database
func AssertNotExistsBean(t *testing.T, bean any) {
	t.Helper()
	exists, err := db.GetEngine(db.DefaultContext).Get(bean)
	require.NoError(t, err)
	assert.False(t, exists, "expected not to find bean %+v", bean)
}

// AssertCount assert the count of a bean
func AssertCount(t *testing.T, bean any, expected int64) {
	t.Helper()
	count, err := db.GetEngine(db.DefaultContext).Count(bean)
	require.NoError(t, err)
	assert.Equal(t, expected, count)
}
