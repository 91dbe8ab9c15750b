// Package internal wires configuration into the application commands.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/rolodex/internal/audit"
	"github.com/starford/rolodex/internal/ledger"
	"github.com/starford/rolodex/internal/mcpserver"
	"github.com/starford/rolodex/internal/models"
	"github.com/starford/rolodex/internal/report"
	"github.com/starford/rolodex/internal/schedule"
	"github.com/starford/rolodex/internal/storage"
	"github.com/starford/rolodex/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		out: os.Stdout,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

func (a *application) store() (*storage.FS, error) {
	store, err := storage.NewFS(a.config.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func (a *application) backend(logger *slog.Logger) schedule.Backend {
	if a.config.Schedule.Backend == BackendDryRun {
		return &schedule.DryRun{Logger: logger}
	}
	timeout := time.Duration(a.config.Schedule.TimeoutSeconds) * time.Second
	return schedule.NewOsaScript(timeout)
}

func (a *application) reporter(store storage.Provider, logger *slog.Logger) *report.Reporter {
	return report.New(store, logger, a.config.Report.StaleAfterDays)
}

// RunReport prints the staleness table for all active records.
func RunReport(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	store, err := app.store()
	if err != nil {
		return err
	}
	rows, err := app.reporter(store, logger).Build(app.now())
	if err != nil {
		return err
	}
	return report.RenderTable(app.out, rows, app.now())
}

// RunDump prints the full text of every active record in a category.
func RunDump(_ context.Context, category string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	kind, ok := kindFromCategory(category)
	if !ok {
		return fmt.Errorf("unknown category %q (want leads, projects, people, or outreach)", category)
	}
	logger := app.logger()
	store, err := app.store()
	if err != nil {
		return err
	}
	return app.reporter(store, logger).Dump(app.out, kind)
}

func kindFromCategory(category string) (models.Kind, bool) {
	switch category {
	case "leads", "lead":
		return models.KindLead, true
	case "projects", "project":
		return models.KindProject, true
	case "people", "person":
		return models.KindPerson, true
	case "outreach":
		return models.KindOutreach, true
	}
	return "", false
}

// ScheduleOptions carries the schedule command's flags.
type ScheduleOptions struct {
	File        string
	DryRun      bool
	Force       bool
	ResetLedger bool
}

// RunSchedule scans a document for schedule tags and executes the ones
// the ledger has not seen.
func RunSchedule(ctx context.Context, sopts ScheduleOptions, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	store, err := app.store()
	if err != nil {
		return err
	}

	led, err := ledger.Open(app.config.Ledger.Path, logger)
	if err != nil {
		return err
	}
	if app.config.Schedule.Backend != BackendDryRun && !sopts.DryRun {
		if corrErr := led.Corruption(); corrErr != nil {
			logger.Warn("schedule: continuing with empty ledger; duplicates possible",
				slog.String("error", corrErr.Error()))
		}
	}
	if sopts.ResetLedger {
		if err := led.Reset(); err != nil {
			return err
		}
		logger.Info("schedule: ledger reset")
	}

	data, err := store.Read(sopts.File)
	if err != nil {
		return err
	}

	runner := schedule.NewRunner(led, app.backend(logger), logger)
	summary := runner.ProcessDocument(ctx, string(data), app.now(), schedule.Options{
		DryRun: sopts.DryRun,
		Force:  sopts.Force,
	})

	skipped := 0
	for _, r := range summary.Results {
		if r.Skipped {
			skipped++
		}
	}
	fmt.Fprintf(app.out, "%d executed, %d skipped, %d warnings, %d errors\n",
		summary.Executed(), skipped, len(summary.Warnings), len(summary.Failed()))
	if errs := summary.Failed(); len(errs) > 0 {
		return fmt.Errorf("schedule: %d of %d actions failed", len(errs), len(summary.Results))
	}
	return nil
}

// RunAudit prints the task-movement audit over the weekly plan files.
func RunAudit(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	store, err := app.store()
	if err != nil {
		return err
	}
	files, err := store.ListWeekFiles()
	if err != nil {
		return err
	}
	docs := make([]audit.Document, 0, len(files))
	for _, f := range files {
		data, readErr := store.Read(f)
		if readErr != nil {
			logger.Warn("audit: read failed", slog.String("path", f), slog.String("error", readErr.Error()))
			continue
		}
		docs = append(docs, audit.Document{Name: f, Text: string(data)})
	}
	return audit.Render(app.out, audit.Run(docs))
}

// RunMCP serves the vault tools over MCP stdio until the client
// disconnects or a shutdown signal arrives. A vault watcher keeps the
// server's cached report snapshot honest.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	store, err := app.store()
	if err != nil {
		return err
	}
	led, err := ledger.Open(app.config.Ledger.Path, logger)
	if err != nil {
		return err
	}

	runner := schedule.NewRunner(led, app.backend(logger), logger)
	srv := mcpserver.New(store, app.reporter(store, logger), runner)

	logger.Info("MCP server starting",
		slog.String("vault_path", store.Root()),
		slog.String("ledger_path", app.config.Ledger.Path))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return srv.ServeStdio()
	})

	g.Go(func() error {
		return watch.Run(gCtx, store.Root(), logger, srv.Invalidate)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("MCP server error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("MCP server stopped")
	return nil
}
