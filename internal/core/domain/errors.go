package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required setting is missing.
	ErrNotConfigured = errors.New("not configured")

	// Identity Errors.

	// ErrUnrecognizedFormat indicates an identifier matches no known grammar.
	// Recorded per record, never fatal.
	ErrUnrecognizedFormat = errors.New("unrecognized identifier format")

	// ErrInvalidRef indicates a DocumentRef carries neither a number nor a section.
	ErrInvalidRef = errors.New("document reference has neither number nor section")

	// Precondition Errors. These abort a run before reconciliation starts.

	// ErrRegistryFetch indicates the registry could not be read after retries.
	ErrRegistryFetch = errors.New("registry fetch failed")

	// ErrCorpusScan indicates the corpus could not be read.
	ErrCorpusScan = errors.New("corpus scan failed")

	// Registry Errors.

	// ErrRateLimited indicates the registry rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the registry requires a token but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRegistryWrite indicates a single registry record could not be created.
	ErrRegistryWrite = errors.New("registry write failed")
)

// ParseReason explains why an identifier could not be parsed.
type ParseReason string

const (
	// ReasonUnrecognizedFormat means no grammar matched at all.
	ReasonUnrecognizedFormat ParseReason = "UnrecognizedFormat"

	// ReasonMissingNumber means an ordinance or resolution keyword was found without "#N".
	ReasonMissingNumber ParseReason = "MissingNumber"

	// ReasonMissingSection means an interpretation keyword was found without a code section.
	ReasonMissingSection ParseReason = "MissingSection"
)

// ParseError is returned when an identifier string cannot be turned into a DocumentRef.
type ParseError struct {
	Input  string
	Reason ParseReason
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrUnrecognizedFormat).
func (e *ParseError) Unwrap() error {
	return ErrUnrecognizedFormat
}

// IsParseError reports whether err is a ParseError and returns it.
func IsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsFatal reports whether err is a precondition failure that aborts a run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRegistryFetch) || errors.Is(err, ErrCorpusScan) || errors.Is(err, ErrNotConfigured)
}
