// Package schedule turns scanned tags into external actions, gated by
// the idempotency ledger: scan → resolve → gate → backend → record.
package schedule

import (
	"context"
	"time"
)

// ReminderRequest is one reminder to create externally.
type ReminderRequest struct {
	Message  string
	At       time.Time
	List     string
	Note     string
	Priority string
	Flagged  bool
}

// EventRequest is one calendar event to create externally.
type EventRequest struct {
	Message  string
	At       time.Time
	Duration time.Duration
	Calendar string
	Location string
	Note     string
}

// MessageRequest is one message to send externally.
type MessageRequest struct {
	To      string
	Message string
}

// Backend is the external scheduling collaborator. Implementations
// return an opaque external reference on success; the runner records a
// ledger entry only after that, never before.
type Backend interface {
	CreateReminder(ctx context.Context, req ReminderRequest) (string, error)
	CreateEvent(ctx context.Context, req EventRequest) (string, error)
	SendMessage(ctx context.Context, req MessageRequest) (string, error)
}
