// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"errors"

	"tasknest/modules/util"

	"github.com/mattn/go-sqlite3"
)

// ErrAlreadyInTransaction represents an attempt to open a nested transaction
var ErrAlreadyInTransaction = errors.New("database connection has already been in a transaction")

// MapSQLError translates driver errors into the error kinds callers test
// against. A busy/locked database means the write lock was not acquired
// within the configured busy timeout; the operation had no effect and the
// caller may retry.
func MapSQLError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return util.NewSilentWrapErrorf(util.ErrContention, "database is busy: %v", err)
		case sqlite3.ErrConstraint:
			return util.NewAlreadyExistErrorf("constraint violated: %v", err)
		}
	}
	return err
}
