package domain

import "time"

// RunMode distinguishes report-only runs from runs that write to the registry.
type RunMode string

// Run modes.
const (
	RunModeDryRun RunMode = "dry-run"
	RunModeApply  RunMode = "apply"
)

// Run is one stored reconciliation.
type Run struct {
	ID         string
	Mode       RunMode
	StartedAt  time.Time
	FinishedAt time.Time
	Report     Report
	Applied    *ApplySummary
}

// ApplyFailure records one registry write that did not succeed.
type ApplyFailure struct {
	Path  string
	Error string
}

// ApplySummary counts registry writes made in apply mode.
type ApplySummary struct {
	// Created maps corpus path to the new registry record id.
	Created map[string]string

	// Skipped lists paths the operator declined or that could not be identified.
	Skipped []string

	// Failed lists writes that returned an error.
	Failed []ApplyFailure
}
