package status

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/models"
)

const leadDoc = `# Acme Corp

Some intro notes.

## Status
- **Stage:** Negotiation
- **Next Step:** Send revised quote
- **Last Updated:** 2025-08-10

## Log
- 2025-08-10 call went well
`

func TestParse_Lead(t *testing.T) {
	b, err := Parse(leadDoc, models.KindLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Stage != models.StageNegotiation {
		t.Errorf("stage = %q, want %q", b.Stage, models.StageNegotiation)
	}
	if b.NextStep != "Send revised quote" {
		t.Errorf("next step = %q", b.NextStep)
	}
	if !b.LastUpdated.Valid || b.LastUpdated.Raw != "2025-08-10" {
		t.Errorf("last updated = %+v", b.LastUpdated)
	}
	if len(b.Extra) != 0 {
		t.Errorf("extra = %v, want none", b.Extra)
	}
}

func TestParse_Project(t *testing.T) {
	doc := `# Website Relaunch

## Status
- **Current Status:** In Progress
- **Next Milestone:** Content migration
- **Due Date:** 2025-09-01
- **Last Updated:** 2025-08-14
`
	b, err := Parse(doc, models.KindProject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.CurrentStatus != models.StateInProgress {
		t.Errorf("status = %q", b.CurrentStatus)
	}
	if !b.DueDate.Valid {
		t.Errorf("due date = %+v", b.DueDate)
	}
	if b.CompletionDate.IsSet() {
		t.Errorf("completion date should be unset, got %+v", b.CompletionDate)
	}
}

func TestParse_HeadingVariants(t *testing.T) {
	for _, heading := range []string{"## Status", "##   STATUS", "### status"} {
		doc := heading + "\n- **Stage:** Qualification\n- **Next Step:** Call\n- **Last Updated:** 2025-08-10\n"
		if _, err := Parse(doc, models.KindLead); err != nil {
			t.Errorf("heading %q: unexpected error: %v", heading, err)
		}
	}
}

func TestParse_MissingBlock(t *testing.T) {
	_, err := Parse("# Just notes\nNothing here.\n", models.KindLead)
	var pf *apperr.ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("want ParseFailure, got %v", err)
	}
}

func TestParse_MissingFieldsDegrade(t *testing.T) {
	doc := "## Status\n- **Stage:** Qualification\n"
	b, err := Parse(doc, models.KindLead)
	var pf *apperr.ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("want ParseFailure, got %v", err)
	}
	if len(pf.Missing) != 2 {
		t.Errorf("missing = %v, want next step and last updated", pf.Missing)
	}
	// The partial block is still usable for degraded reporting.
	if b == nil || b.Stage != models.StageQualification {
		t.Errorf("partial block = %+v", b)
	}
}

func TestParse_BadDateKeptRaw(t *testing.T) {
	doc := "## Status\n- **Stage:** Qualification\n- **Next Step:** Call\n- **Last Updated:** May 9, 2025\n"
	b, err := Parse(doc, models.KindLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.LastUpdated.Valid {
		t.Error("non-ISO date must not parse")
	}
	if b.LastUpdated.Raw != "May 9, 2025" {
		t.Errorf("raw = %q, want original text kept", b.LastUpdated.Raw)
	}
}

func TestParse_UnknownFieldsPreserved(t *testing.T) {
	doc := "## Status\n- **Stage:** Qualification\n- **Next Step:** Call\n- **Last Updated:** 2025-08-10\n- **Champion:** Dana\n"
	b, err := Parse(doc, models.KindLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Extra) != 1 || !strings.Contains(b.Extra[0], "Champion") {
		t.Errorf("extra = %v", b.Extra)
	}
	out := Serialize(b)
	if !strings.Contains(out, "- **Champion:** Dana") {
		t.Errorf("serialize dropped unknown line:\n%s", out)
	}
}

func TestRoundTrip(t *testing.T) {
	blocks := []*models.StatusBlock{
		{
			Kind:        models.KindLead,
			Stage:       models.StageProposalSent,
			NextStep:    "Wait for reply",
			LastUpdated: models.ParseDateField("2025-08-12"),
		},
		{
			Kind:        models.KindLead,
			Stage:       models.StageArchived,
			NextStep:    "N/A",
			Reason:      "Chose a competitor",
			LastUpdated: models.ParseDateField("2025-07-01"),
		},
		{
			Kind:          models.KindProject,
			CurrentStatus: models.StateBlocked,
			NextMilestone: "Unblock API access",
			DueDate:       models.ParseDateField("2025-10-01"),
			LastUpdated:   models.ParseDateField("2025-08-02"),
		},
		{
			Kind:           models.KindProject,
			CurrentStatus:  models.StateDone,
			NextMilestone:  "N/A",
			CompletionDate: models.ParseDateField("2025-08-15"),
			LastUpdated:    models.ParseDateField("2025-08-15"),
			Extra:          []string{"- **Retro:** scheduled"},
		},
	}
	for _, b := range blocks {
		got, err := Parse(Serialize(b), b.Kind)
		if err != nil {
			t.Fatalf("round-trip parse error for %+v: %v", b, err)
		}
		if !reflect.DeepEqual(got, b) {
			t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, b)
		}
	}
}

func TestValidate_LeadReasonInvariant(t *testing.T) {
	archived := &models.StatusBlock{
		Kind:        models.KindLead,
		Stage:       models.StageArchived,
		NextStep:    "N/A",
		LastUpdated: models.ParseDateField("2025-08-01"),
	}
	if err := Validate(archived); err == nil {
		t.Error("archived without reason must fail validation")
	}
	archived.Reason = "No budget"
	if err := Validate(archived); err != nil {
		t.Errorf("archived with reason: %v", err)
	}

	active := &models.StatusBlock{
		Kind:        models.KindLead,
		Stage:       models.StageQualification,
		NextStep:    "Intro call",
		Reason:      "should not be here",
		LastUpdated: models.ParseDateField("2025-08-01"),
	}
	err := Validate(active)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("reason outside archived: want ValidationError, got %v", err)
	}
}

func TestValidate_ProjectCompletionInvariant(t *testing.T) {
	notDone := &models.StatusBlock{
		Kind:           models.KindProject,
		CurrentStatus:  models.StateInProgress,
		NextMilestone:  "Ship beta",
		CompletionDate: models.ParseDateField("2025-08-15"),
		LastUpdated:    models.ParseDateField("2025-08-15"),
	}
	if err := Validate(notDone); err == nil {
		t.Error("completion date without Done must fail validation")
	}

	done := &models.StatusBlock{
		Kind:          models.KindProject,
		CurrentStatus: models.StateDone,
		NextMilestone: "N/A",
		LastUpdated:   models.ParseDateField("2025-08-15"),
	}
	if err := Validate(done); err == nil {
		t.Error("Done without completion date must fail validation")
	}
	done.CompletionDate = models.ParseDateField("2025-08-15")
	if err := Validate(done); err != nil {
		t.Errorf("valid Done block: %v", err)
	}

	doneWithMilestone := &models.StatusBlock{
		Kind:           models.KindProject,
		CurrentStatus:  models.StateDone,
		NextMilestone:  "One more thing",
		CompletionDate: models.ParseDateField("2025-08-15"),
		LastUpdated:    models.ParseDateField("2025-08-15"),
	}
	if err := Validate(doneWithMilestone); err == nil {
		t.Error("Done with a real milestone must fail validation")
	}
}

func TestValidate_UnknownStage(t *testing.T) {
	b := &models.StatusBlock{
		Kind:        models.KindLead,
		Stage:       "Daydreaming",
		NextStep:    "Call",
		LastUpdated: models.ParseDateField("2025-08-01"),
	}
	if err := Validate(b); err == nil {
		t.Error("unknown stage must fail validation")
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := DeriveTitle("# Acme Corp\nBody"); got != "Acme Corp" {
		t.Errorf("title = %q", got)
	}
	if got := DeriveTitle("no headings here"); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
}
