// Package models defines the domain types for Rolodex.
package models

import "time"

// Kind identifies which convention-based directory a record lives in.
// Ownership is location: moving a file between directories is the sole
// mechanism for lifecycle transitions.
type Kind string

// Record kinds, one per category root.
const (
	KindPerson   Kind = "person"
	KindLead     Kind = "lead"
	KindProject  Kind = "project"
	KindOutreach Kind = "outreach"
)

// HasStatusBlock reports whether records of this kind carry a ## Status
// block. People and outreach notes are free-form.
func (k Kind) HasStatusBlock() bool {
	return k == KindLead || k == KindProject
}

// Record is a Markdown file in the vault, identified by its relative path.
// All other attributes are derived by parsing, never stored separately.
type Record struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title,omitempty"`
	Content []byte `json:"-"`
}

// RecordMetadata is a lightweight representation returned by list operations.
type RecordMetadata struct {
	Path      string    `json:"path"`
	Kind      Kind      `json:"kind"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Staleness classifies how long it has been since a record's Last Updated
// field, relative to the report threshold.
type Staleness int

// Staleness classes.
const (
	StalenessNoDate Staleness = iota
	StalenessFresh
	StalenessStale
)

func (s Staleness) String() string {
	switch s {
	case StalenessFresh:
		return "Fresh"
	case StalenessStale:
		return "Stale (>7d old)"
	default:
		return "No Date"
	}
}

// ReportRow is one line of the staleness report.
type ReportRow struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"kind"`
	Status    string    `json:"status"`
	NextStep  string    `json:"next_step,omitempty"`
	Updated   string    `json:"last_updated"`
	Staleness Staleness `json:"staleness"`
}

// MovedTask is an incomplete task line from a weekly plan file, together
// with how many locations it has occupied. Recomputed on every audit run,
// never persisted.
type MovedTask struct {
	Text      string `json:"text"`
	MoveCount int    `json:"move_count"`
}

// Moved reports whether the task carries a "(moved from ...)" annotation.
func (t MovedTask) Moved() bool { return t.MoveCount > 0 }

// MovedMultiple reports whether the task has been relocated more than once.
func (t MovedTask) MovedMultiple() bool { return t.MoveCount > 2 }

// AuditSection groups the audited tasks of a single weekly plan file.
type AuditSection struct {
	File  string      `json:"file"`
	Tasks []MovedTask `json:"tasks"`
}
