package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/rolodex/internal/models"
	"github.com/starford/rolodex/internal/report"
	"github.com/starford/rolodex/internal/testutil"
)

func leadDoc(title, stage, next, updated string) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n## Status\n")
	sb.WriteString("- **Stage:** " + stage + "\n")
	sb.WriteString("- **Next Step:** " + next + "\n")
	sb.WriteString("- **Last Updated:** " + updated + "\n")
	return sb.String()
}

func TestBuild_Staleness(t *testing.T) {
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	_, store := testutil.TestVault(t)
	testutil.WriteRecord(t, store, "active_leads/fresh.md", leadDoc("Fresh Co", "Negotiation", "Call", "2025-08-12"))
	testutil.WriteRecord(t, store, "active_leads/stale.md", leadDoc("Stale Co", "Qualification", "Email", "2025-08-01"))
	testutil.WriteRecord(t, store, "active_leads/undated.md", leadDoc("Undated Co", "Qualification", "Email", "sometime in May"))

	r := report.New(store, testutil.Logger(), 7)
	rows, err := r.Build(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	byTitle := make(map[string]models.ReportRow)
	for _, row := range rows {
		byTitle[row.Title] = row
	}
	if got := byTitle["Fresh Co"].Staleness; got != models.StalenessFresh {
		t.Errorf("fresh: %v", got)
	}
	if got := byTitle["Stale Co"].Staleness; got != models.StalenessStale {
		t.Errorf("stale: %v", got)
	}
	undated := byTitle["Undated Co"]
	if undated.Staleness != models.StalenessNoDate {
		t.Errorf("undated: %v", undated.Staleness)
	}
	if undated.Updated != "sometime in May" {
		t.Errorf("undated raw date = %q, want original text", undated.Updated)
	}
}

func TestBuild_ExcludesTerminalDirs(t *testing.T) {
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	_, store := testutil.TestVault(t)
	testutil.WriteRecord(t, store, "active_leads/live.md", leadDoc("Live", "Negotiation", "Call", "2025-08-12"))
	testutil.WriteRecord(t, store, "active_leads/archive/dead.md", leadDoc("Dead", "Archived - No Conversion", "N/A", "2025-01-01"))
	testutil.WriteRecord(t, store, "projects/done/shipped.md", "# Shipped\n")

	r := report.New(store, testutil.Logger(), 7)
	rows, err := r.Build(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Live" {
		t.Errorf("rows = %+v, want only Live", rows)
	}
}

func TestBuild_DegradesOnBrokenRecord(t *testing.T) {
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	_, store := testutil.TestVault(t)
	testutil.WriteRecord(t, store, "active_leads/broken.md", "# Broken Co\n\nNo status block at all.\n")
	testutil.WriteRecord(t, store, "active_leads/ok.md", leadDoc("OK Co", "Negotiation", "Call", "2025-08-12"))

	r := report.New(store, testutil.Logger(), 7)
	rows, err := r.Build(now)
	if err != nil {
		t.Fatalf("a broken record must not abort the report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Title != "Broken Co" {
			continue
		}
		if row.Status != "Unknown" {
			t.Errorf("broken status = %q, want Unknown", row.Status)
		}
		if row.Staleness != models.StalenessNoDate {
			t.Errorf("broken staleness = %v", row.Staleness)
		}
	}
}

func TestBuild_PersonHasNoStatus(t *testing.T) {
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	_, store := testutil.TestVault(t)
	testutil.WriteRecord(t, store, "people/alex.md", "# Alex\nMet at the conference.\n")

	r := report.New(store, testutil.Logger(), 7)
	rows, err := r.Build(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Status != "-" || rows[0].Staleness != models.StalenessNoDate {
		t.Errorf("person row = %+v", rows[0])
	}
}

func TestRenderTable(t *testing.T) {
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	rows := []models.ReportRow{
		{Title: "Acme", Kind: models.KindLead, Status: "Negotiation", NextStep: "Call", Updated: "2025-08-12", Staleness: models.StalenessFresh},
	}
	var buf strings.Builder
	if err := report.RenderTable(&buf, rows, now); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Status Report - 2025-08-14", "TITLE", "STALENESS", "Acme", "Fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	var buf strings.Builder
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	if err := report.RenderTable(&buf, nil, now); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No active records found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDump(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.WriteRecord(t, store, "people/alex.md", "# Alex\nNotes.\n")
	testutil.WriteRecord(t, store, "people/blair.md", "# Blair\n")

	r := report.New(store, testutil.Logger(), 7)
	var buf strings.Builder
	if err := r.Dump(&buf, models.KindPerson); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"--- START FILE: people/alex.md ---",
		"# Alex\nNotes.",
		"--- END FILE: people/alex.md ---",
		"--- START FILE: people/blair.md ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "alex.md") > strings.Index(out, "blair.md") {
		t.Error("dump must follow listing order")
	}
}

func TestDump_Empty(t *testing.T) {
	_, store := testutil.TestVault(t)
	r := report.New(store, testutil.Logger(), 7)
	var buf strings.Builder
	if err := r.Dump(&buf, models.KindOutreach); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "No .md files found for outreach.") {
		t.Errorf("output = %q", buf.String())
	}
}
