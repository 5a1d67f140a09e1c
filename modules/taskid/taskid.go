// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package taskid issues the identifiers used as primary keys across the
// store. Ids are ULIDs: globally unique strings whose lexical order matches
// creation order, so "ORDER BY id" is a creation-time sort.
package taskid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh id. Ids generated within the same millisecond still
// order by generation thanks to the monotonic entropy source.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsValid reports whether s parses as one of our ids.
func IsValid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
