package models

import "time"

// Stage is the lifecycle stage of a lead.
type Stage string

// Lead stages. ArchivedNoConversion is terminal; conversion to a project
// happens by moving the file, which is outside this model.
const (
	StageQualification Stage = "Qualification"
	StageProposalSent  Stage = "Proposal Sent"
	StageNegotiation   Stage = "Negotiation"
	StageNeedsFollowUp Stage = "Needs Follow-Up"
	StageArchived      Stage = "Archived - No Conversion"
)

// Stages lists every valid lead stage.
func Stages() []Stage {
	return []Stage{
		StageQualification,
		StageProposalSent,
		StageNegotiation,
		StageNeedsFollowUp,
		StageArchived,
	}
}

// ProjectState is the lifecycle state of a project.
type ProjectState string

// Project states. Done is terminal.
const (
	StatePlanning         ProjectState = "Planning"
	StateInProgress       ProjectState = "In Progress"
	StateOnHold           ProjectState = "On Hold"
	StateAwaitingFeedback ProjectState = "Awaiting Feedback"
	StateBlocked          ProjectState = "Blocked"
	StateDone             ProjectState = "Done"
)

// ProjectStates lists every valid project state.
func ProjectStates() []ProjectState {
	return []ProjectState{
		StatePlanning,
		StateInProgress,
		StateOnHold,
		StateAwaitingFeedback,
		StateBlocked,
		StateDone,
	}
}

// DateFormat is the only date layout a status block accepts. Anything
// else is kept as the raw string and treated as unparseable.
const DateFormat = "2006-01-02"

// DateField is a status-block date that may have failed to parse. Raw
// always holds the text as written; Time is meaningful only when Valid.
type DateField struct {
	Raw   string    `json:"raw"`
	Time  time.Time `json:"time,omitempty"`
	Valid bool      `json:"valid"`
}

// ParseDateField parses raw as YYYY-MM-DD, degrading to an invalid field
// (raw preserved) on any other format. "N/A" and empty are simply unset.
func ParseDateField(raw string) DateField {
	if raw == "" || raw == "N/A" || raw == "n/a" {
		return DateField{Raw: raw}
	}
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return DateField{Raw: raw}
	}
	return DateField{Raw: raw, Time: t, Valid: true}
}

// DateFieldOf builds a valid DateField from a time value.
func DateFieldOf(t time.Time) DateField {
	return DateField{Raw: t.Format(DateFormat), Time: t, Valid: true}
}

// IsSet reports whether the field holds any value at all, parseable or not.
func (d DateField) IsSet() bool {
	return d.Raw != "" && d.Raw != "N/A" && d.Raw != "n/a"
}

// String returns the field as written, or "N/A" when unset.
func (d DateField) String() string {
	if d.Raw == "" {
		return "N/A"
	}
	return d.Raw
}

// StatusBlock is the parsed ## Status block of a lead or project record.
// Exactly one variant's fields are populated, selected by Kind.
type StatusBlock struct {
	Kind Kind `json:"kind"`

	// Lead fields.
	Stage    Stage  `json:"stage,omitempty"`
	NextStep string `json:"next_step,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Project fields.
	CurrentStatus  ProjectState `json:"current_status,omitempty"`
	NextMilestone  string       `json:"next_milestone,omitempty"`
	DueDate        DateField    `json:"due_date,omitempty"`
	CompletionDate DateField    `json:"completion_date,omitempty"`

	// Common.
	LastUpdated DateField `json:"last_updated"`

	// Extra preserves unrecognized bullet lines verbatim, in order of
	// appearance, so serialization never drops them.
	Extra []string `json:"extra,omitempty"`
}

// DerivedStatus returns the human-readable lifecycle value for reports.
func (b *StatusBlock) DerivedStatus() string {
	if b == nil {
		return "Unknown"
	}
	switch b.Kind {
	case KindLead:
		return string(b.Stage)
	case KindProject:
		return string(b.CurrentStatus)
	}
	return "Unknown"
}
