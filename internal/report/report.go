// Package report computes the staleness report over active records and
// renders it as a table, plus the bulk content-dump mode consumed by a
// downstream summarizer.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/starford/rolodex/internal/models"
	"github.com/starford/rolodex/internal/status"
	"github.com/starford/rolodex/internal/storage"
)

// DefaultStaleAfter is the staleness threshold in days.
const DefaultStaleAfter = 7

// Reporter builds staleness reports from the vault.
type Reporter struct {
	store      storage.Provider
	logger     *slog.Logger
	staleAfter int // days
}

// New creates a Reporter. staleAfter <= 0 selects the default threshold.
func New(store storage.Provider, logger *slog.Logger, staleAfter int) *Reporter {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Reporter{store: store, logger: logger, staleAfter: staleAfter}
}

// Build returns one row per active record. A record that fails to read
// or parse degrades to an Unknown/No Date row; it never aborts the
// batch. Records under archive/ or done/ are already excluded by the
// store's listing.
func (r *Reporter) Build(now time.Time) ([]models.ReportRow, error) {
	metas, err := r.store.ListRecords()
	if err != nil {
		return nil, err
	}

	rows := make([]models.ReportRow, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, r.buildRow(m, now))
	}
	return rows, nil
}

func (r *Reporter) buildRow(m models.RecordMetadata, now time.Time) models.ReportRow {
	row := models.ReportRow{
		Path:      m.Path,
		Kind:      m.Kind,
		Status:    "-",
		Updated:   "N/A",
		Staleness: models.StalenessNoDate,
	}

	data, err := r.store.Read(m.Path)
	if err != nil {
		r.logger.Warn("report: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		return row
	}
	doc := string(data)
	row.Title = status.DeriveTitle(doc)
	if row.Title == "" {
		row.Title = m.Path
	}

	if !m.Kind.HasStatusBlock() {
		return row
	}

	block, parseErr := status.Parse(doc, m.Kind)
	if parseErr != nil {
		r.logger.Warn("report: status block degraded",
			slog.String("path", m.Path), slog.String("error", parseErr.Error()))
	}
	if block == nil {
		row.Status = "Unknown"
		return row
	}

	row.Status = block.DerivedStatus()
	if row.Status == "" {
		row.Status = "Unknown"
	}
	switch m.Kind {
	case models.KindLead:
		row.NextStep = block.NextStep
	case models.KindProject:
		row.NextStep = block.NextMilestone
	}
	if block.LastUpdated.Raw != "" {
		row.Updated = block.LastUpdated.Raw
	}
	row.Staleness = r.classify(block.LastUpdated, now)
	return row
}

func (r *Reporter) classify(updated models.DateField, now time.Time) models.Staleness {
	if !updated.Valid {
		return models.StalenessNoDate
	}
	age := now.Sub(updated.Time)
	if age > time.Duration(r.staleAfter)*24*time.Hour {
		return models.StalenessStale
	}
	return models.StalenessFresh
}

// RenderTable writes rows as an aligned table with the columns Title,
// Kind, Status, Next Step, Updated, Staleness.
func RenderTable(w io.Writer, rows []models.ReportRow, now time.Time) error {
	fmt.Fprintf(w, "Status Report - %s\n\n", now.Format(models.DateFormat))
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No active records found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tKIND\tSTATUS\tNEXT STEP\tUPDATED\tSTALENESS")
	for _, row := range rows {
		next := row.NextStep
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Title, row.Kind, row.Status, next, row.Updated, row.Staleness)
	}
	return tw.Flush()
}

// Dump writes the full text of every active record of the given kind,
// each delimited by explicit start/end markers naming the file.
func (r *Reporter) Dump(w io.Writer, kind models.Kind) error {
	metas, err := r.store.ListKind(kind)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		_, err := fmt.Fprintf(w, "No .md files found for %s.\n", kind)
		return err
	}
	for _, m := range metas {
		data, readErr := r.store.Read(m.Path)
		if readErr != nil {
			r.logger.Warn("dump: read failed", slog.String("path", m.Path), slog.String("error", readErr.Error()))
			continue
		}
		fmt.Fprintf(w, "\n--- START FILE: %s ---\n\n", m.Path)
		w.Write(data)
		fmt.Fprintf(w, "\n--- END FILE: %s ---\n", m.Path)
	}
	return nil
}
