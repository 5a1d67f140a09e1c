// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"strings"

	"xorm.io/builder"
)

// DefaultMaxInSize represents the maximum number of elements of an IN clause
const DefaultMaxInSize = 50

// BuildCaseInsensitiveLike returns a condition to check if the given value is
// like the given key case-insensitively. On SQLite UPPER only transforms
// ASCII letters, so rely on NOCASE instead. The value must already contain
// the wildcards.
func BuildCaseInsensitiveLike(key, value string) builder.Cond {
	return builder.Expr(key+" LIKE ? COLLATE NOCASE", value)
}

// BuildCaseInsensitiveEq returns an equality condition that ignores case.
func BuildCaseInsensitiveEq(key, value string) builder.Cond {
	return builder.Expr("LOWER("+key+") = ?", strings.ToLower(value))
}
