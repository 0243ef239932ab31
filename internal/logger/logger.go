// Package logger writes the lexsync run log to stderr.
//
// A run is logged one phase at a time (registry, corpus, reconcile, graph,
// apply); Section opens a phase. Debug, Info and Warn lines appear only with
// --verbose. Error lines always appear. Warnings are counted whether or not
// they are shown, so a quiet run can still report how many it raised.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var tags = map[level]string{
	levelDebug: "[DEBUG] ",
	levelInfo:  "[INFO] ",
	levelWarn:  "[WARN] ",
	levelError: "[ERROR] ",
}

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	warnings int
)

// SetVerbose turns the --verbose lines on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether --verbose lines are shown.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects the log. Tests pass a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Section opens a run phase.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug logs per-record and per-file detail.
func Debug(format string, args ...any) {
	logf(levelDebug, format, args...)
}

// Info logs phase totals.
func Info(format string, args ...any) {
	logf(levelInfo, format, args...)
}

// Warn logs a degraded but non-fatal condition, such as an unreadable corpus
// file or a cross reference that was skipped.
func Warn(format string, args ...any) {
	logf(levelWarn, format, args...)
}

// Error logs a failure the user must see, such as a rejected registry write.
func Error(format string, args ...any) {
	logf(levelError, format, args...)
}

// Warnings returns the number of Warn calls since the last ResetWarnings.
func Warnings() int {
	mu.RLock()
	defer mu.RUnlock()
	return warnings
}

// ResetWarnings zeroes the warning count at the start of a run.
func ResetWarnings() {
	mu.Lock()
	defer mu.Unlock()
	warnings = 0
}

func logf(l level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l == levelWarn {
		warnings++
	}
	if l < levelError && !verbose {
		return
	}
	fmt.Fprintf(output, tags[l]+format+"\n", args...)
}
