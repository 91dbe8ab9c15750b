package schedule

import (
	"context"
	"log/slog"
)

// DryRun is a Backend that only logs what it would do. It still returns
// external references, so a dry run exercises the full pipeline short
// of the side effect itself; the runner additionally skips ledger
// writes in dry-run mode.
type DryRun struct {
	Logger *slog.Logger
}

func (d *DryRun) CreateReminder(_ context.Context, req ReminderRequest) (string, error) {
	d.Logger.Info("dry-run: would create reminder",
		slog.String("message", req.Message),
		slog.Time("at", req.At),
		slog.String("list", req.List))
	return "dry-run:reminder", nil
}

func (d *DryRun) CreateEvent(_ context.Context, req EventRequest) (string, error) {
	d.Logger.Info("dry-run: would create event",
		slog.String("message", req.Message),
		slog.Time("at", req.At),
		slog.Duration("duration", req.Duration),
		slog.String("calendar", req.Calendar))
	return "dry-run:event", nil
}

func (d *DryRun) SendMessage(_ context.Context, req MessageRequest) (string, error) {
	d.Logger.Info("dry-run: would send message",
		slog.String("to", req.To),
		slog.String("message", req.Message))
	return "dry-run:imessage", nil
}
