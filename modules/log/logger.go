// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package log provides the leveled logger used across tasknest. Call sites
// use printf-style messages: log.Error("open index: %v", err).
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a leveled writer with a fixed output.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

var defaultLogger = &Logger{out: os.Stderr, level: INFO}

// SetLevel sets the minimum level emitted by the default logger.
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

// SetOutput redirects the default logger, mainly for tests.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out = w
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	fmt.Fprintf(l.out, "%s %s %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		level.String(),
		fmt.Sprintf(format, args...))
}

// Trace records trace log
func Trace(format string, args ...any) {
	defaultLogger.log(TRACE, format, args...)
}

// Debug records debug log
func Debug(format string, args ...any) {
	defaultLogger.log(DEBUG, format, args...)
}

// Info records info log
func Info(format string, args ...any) {
	defaultLogger.log(INFO, format, args...)
}

// Warn records warning log
func Warn(format string, args ...any) {
	defaultLogger.log(WARN, format, args...)
}

// Error records error log
func Error(format string, args ...any) {
	defaultLogger.log(ERROR, format, args...)
}

// Fatal records fatal log and exits the process
func Fatal(format string, args ...any) {
	defaultLogger.log(FATAL, format, args...)
	os.Exit(1)
}
