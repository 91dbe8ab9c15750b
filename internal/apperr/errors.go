// Package apperr defines the error taxonomy shared across Rolodex:
// per-item failures that degrade gracefully versus conditions that must
// block a write.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing record or file.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks a create against an existing path.
	ErrAlreadyExists = errors.New("already exists")
	// ErrLedgerCorrupt marks an unparseable persisted ledger. Callers
	// fail closed to an empty ledger rather than crash; the cost of a
	// duplicate reminder is lower than losing the run.
	ErrLedgerCorrupt = errors.New("ledger corrupt")
)

// ParseFailure reports a malformed status block or time expression.
// Confined to a single record: callers degrade to "Unknown"/"No Date"
// and keep processing the batch.
type ParseFailure struct {
	Subject string   // what was being parsed, e.g. a path or expression
	Missing []string // required fields that were absent, if any
	Reason  string
}

func (e *ParseFailure) Error() string {
	var sb strings.Builder
	sb.WriteString("parse ")
	sb.WriteString(e.Subject)
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if len(e.Missing) > 0 {
		sb.WriteString(": missing fields ")
		sb.WriteString(strings.Join(e.Missing, ", "))
	}
	return sb.String()
}

// ScanWarning reports a malformed or incomplete tag invocation. Never
// fatal: the tag is skipped and the rest of the document is scanned.
type ScanWarning struct {
	Line   int
	Reason string
}

func (w ScanWarning) Error() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// ValidationError reports a status-block invariant violation. Blocking
// on write: persisting an inconsistent block would corrupt the record.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "status validation: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ExternalActionError reports a failed scheduling-backend call. No
// ledger entry is written for it; the next run retries through the
// normal idempotency path.
type ExternalActionError struct {
	Kind string // reminder, calendar, imessage
	Err  error
}

func (e *ExternalActionError) Error() string {
	return fmt.Sprintf("%s action failed: %v", e.Kind, e.Err)
}

func (e *ExternalActionError) Unwrap() error { return e.Err }
