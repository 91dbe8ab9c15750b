package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/ledger"
	"github.com/starford/rolodex/internal/models"
	"github.com/starford/rolodex/internal/tags"
	"github.com/starford/rolodex/internal/timeexpr"
)

// Options tune a schedule run.
type Options struct {
	// DryRun resolves and reports every action without touching the
	// backend or the ledger.
	DryRun bool
	// Force executes tags even when the ledger already has them. The
	// ledger is still updated on success.
	Force bool
}

// Result summarizes one action considered during a run.
type Result struct {
	Tag         models.ScheduleTag
	Executed    bool
	Skipped     bool   // ledger said the action already happened
	ExternalRef string
	Err         error
}

// Summary aggregates a document run.
type Summary struct {
	Results  []Result
	Warnings []apperr.ScanWarning
}

// Executed counts actions that reached the backend successfully.
func (s Summary) Executed() int {
	n := 0
	for _, r := range s.Results {
		if r.Executed {
			n++
		}
	}
	return n
}

// Failed returns the per-tag errors of the run.
func (s Summary) Failed() []error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Runner drives scan → resolve → gate → backend → record for one
// document at a time. A failed backend call never writes a ledger
// entry, so the next run retries it through the same gate.
type Runner struct {
	ledger  *ledger.Ledger
	backend Backend
	logger  *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(led *ledger.Ledger, backend Backend, logger *slog.Logger) *Runner {
	return &Runner{ledger: led, backend: backend, logger: logger}
}

// ProcessDocument scans text for schedule tags and executes each one
// that the ledger has not seen. Failures are confined per tag; the
// remaining tags still run.
func (r *Runner) ProcessDocument(ctx context.Context, text string, now time.Time, opts Options) Summary {
	found, warnings := tags.Scan(text)
	summary := Summary{Warnings: warnings}
	for _, w := range warnings {
		r.logger.Warn("schedule: skipped tag", slog.Int("line", w.Line), slog.String("reason", w.Reason))
	}

	for _, tag := range found {
		summary.Results = append(summary.Results, r.processTag(ctx, tag, now, opts))
	}
	return summary
}

func (r *Runner) processTag(ctx context.Context, tag models.ScheduleTag, now time.Time, opts Options) Result {
	res := Result{Tag: tag}

	if !opts.Force && !r.ledger.ShouldExecute(tag) {
		entry, _ := r.ledger.Lookup(tag)
		r.logger.Debug("schedule: already executed",
			slog.String("id", tag.Identity()),
			slog.String("external_ref", entry.ExternalRef))
		res.Skipped = true
		res.ExternalRef = entry.ExternalRef
		return res
	}

	ref, err := r.execute(ctx, tag, now, opts.DryRun)
	if err != nil {
		res.Err = err
		r.logger.Warn("schedule: action failed",
			slog.String("id", tag.Identity()),
			slog.String("error", err.Error()))
		return res
	}
	res.Executed = true
	res.ExternalRef = ref

	if opts.DryRun {
		return res
	}
	// Write-after-confirm: the entry exists only once the backend
	// reported success.
	if err := r.ledger.Record(tag, ref); err != nil {
		res.Err = err
		r.logger.Error("schedule: ledger write failed",
			slog.String("id", tag.Identity()),
			slog.String("error", err.Error()))
	}
	return res
}

func (r *Runner) execute(ctx context.Context, tag models.ScheduleTag, now time.Time, dryRun bool) (string, error) {
	backend := r.backend
	if dryRun {
		backend = &DryRun{Logger: r.logger}
	}

	switch tag.Kind {
	case models.TagIMessage:
		ref, err := backend.SendMessage(ctx, MessageRequest{
			To:      tag.Arg("to"),
			Message: tag.Arg("message"),
		})
		if err != nil {
			return "", &apperr.ExternalActionError{Kind: string(tag.Kind), Err: err}
		}
		return ref, nil
	}

	at, err := timeexpr.Resolve(tag.Arg("at"), now)
	if err != nil {
		// Unresolved expressions never schedule an action.
		return "", err
	}

	switch tag.Kind {
	case models.TagReminder:
		flagged, boolErr := tags.ParseBool(tag.Arg("flagged"))
		if boolErr != nil {
			r.logger.Warn("schedule: bad flagged value, ignoring", slog.String("value", tag.Arg("flagged")))
		}
		ref, err := backend.CreateReminder(ctx, ReminderRequest{
			Message:  tag.Arg("message"),
			At:       at,
			List:     tag.Arg("list"),
			Note:     tag.Arg("note"),
			Priority: tag.Arg("priority"),
			Flagged:  flagged,
		})
		if err != nil {
			return "", &apperr.ExternalActionError{Kind: string(tag.Kind), Err: err}
		}
		return ref, nil

	case models.TagCalendar:
		dur, durErr := timeexpr.ParseDuration(tag.Arg("duration"))
		if durErr != nil {
			return "", durErr
		}
		ref, err := backend.CreateEvent(ctx, EventRequest{
			Message:  tag.Arg("message"),
			At:       at,
			Duration: dur,
			Calendar: tag.Arg("calendar"),
			Location: tag.Arg("location"),
			Note:     tag.Arg("note"),
		})
		if err != nil {
			return "", &apperr.ExternalActionError{Kind: string(tag.Kind), Err: err}
		}
		return ref, nil
	}

	return "", fmt.Errorf("schedule: unknown tag kind %q", tag.Kind)
}
