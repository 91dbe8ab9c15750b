// Package status parses, serializes, and validates the ## Status block
// embedded in lead and project records.
package status

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/models"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	statusRe  = regexp.MustCompile(`(?i)^status$`)
	fieldRe   = regexp.MustCompile(`^-\s+\*\*(.+?):\*\*\s*(.*)$`)
	// parenRe strips qualifier suffixes like "Reason (if Archived)".
	parenRe = regexp.MustCompile(`\s*\(.*\)\s*$`)
)

// Parse extracts the ## Status block from a record document. Missing
// required fields produce a *apperr.ParseFailure alongside the partially
// populated block, so callers can degrade to "Unknown"/"No Date" instead
// of dropping the record. Unknown bullet lines are preserved verbatim.
func Parse(doc string, kind models.Kind) (*models.StatusBlock, error) {
	body, ok := statusSection(doc)
	if !ok {
		return nil, &apperr.ParseFailure{Subject: "status block", Reason: "no ## Status heading"}
	}

	b := &models.StatusBlock{Kind: kind}
	seen := make(map[string]bool)

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		m := fieldRe.FindStringSubmatch(trimmed)
		if m == nil {
			b.Extra = append(b.Extra, trimmed)
			continue
		}
		label := canonicalLabel(m[1])
		value := strings.TrimSpace(m[2])
		if !assignField(b, kind, label, value) {
			b.Extra = append(b.Extra, trimmed)
			continue
		}
		seen[label] = true
	}

	if missing := missingFields(kind, seen); len(missing) > 0 {
		return b, &apperr.ParseFailure{Subject: "status block", Missing: missing}
	}
	return b, nil
}

// statusSection returns the text between the Status heading and the next
// heading (or end of document). The heading match is case-insensitive
// and tolerant of surrounding whitespace.
func statusSection(doc string) (string, bool) {
	lines := strings.Split(doc, "\n")
	start := -1
	for i, line := range lines {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if start >= 0 {
			return strings.Join(lines[start:i], "\n"), true
		}
		if statusRe.MatchString(m[2]) {
			start = i + 1
		}
	}
	if start < 0 {
		return "", false
	}
	return strings.Join(lines[start:], "\n"), true
}

// canonicalLabel lowercases a field label and drops qualifier suffixes,
// so "Reason (if Archived)" and "Reason" are the same field.
func canonicalLabel(label string) string {
	label = parenRe.ReplaceAllString(label, "")
	return strings.ToLower(strings.TrimSpace(label))
}

func assignField(b *models.StatusBlock, kind models.Kind, label, value string) bool {
	switch label {
	case "last updated":
		b.LastUpdated = models.ParseDateField(value)
		return true
	}
	switch kind {
	case models.KindLead:
		switch label {
		case "stage":
			b.Stage = models.Stage(value)
			return true
		case "next step":
			b.NextStep = value
			return true
		case "reason":
			if value != "N/A" && value != "n/a" {
				b.Reason = value
			}
			return true
		}
	case models.KindProject:
		switch label {
		case "current status":
			b.CurrentStatus = models.ProjectState(value)
			return true
		case "next milestone":
			b.NextMilestone = value
			return true
		case "due date":
			b.DueDate = models.ParseDateField(value)
			return true
		case "completion date":
			b.CompletionDate = models.ParseDateField(value)
			return true
		}
	}
	return false
}

func missingFields(kind models.Kind, seen map[string]bool) []string {
	var required []string
	switch kind {
	case models.KindLead:
		required = []string{"stage", "next step", "last updated"}
	case models.KindProject:
		required = []string{"current status", "next milestone", "last updated"}
	}
	var missing []string
	for _, f := range required {
		if !seen[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// Serialize re-emits the canonical block. Field order is fixed; fields
// not applicable to the current state are omitted; preserved unknown
// lines follow the known fields. Parse(Serialize(b)) == b for valid b.
func Serialize(b *models.StatusBlock) string {
	var sb strings.Builder
	sb.WriteString("## Status\n")
	switch b.Kind {
	case models.KindLead:
		writeField(&sb, "Stage", string(b.Stage))
		writeField(&sb, "Next Step", orNA(b.NextStep))
		writeField(&sb, "Last Updated", b.LastUpdated.String())
		if b.Reason != "" {
			writeField(&sb, "Reason", b.Reason)
		}
	case models.KindProject:
		writeField(&sb, "Current Status", string(b.CurrentStatus))
		writeField(&sb, "Next Milestone", orNA(b.NextMilestone))
		if b.DueDate.IsSet() {
			writeField(&sb, "Due Date", b.DueDate.String())
		}
		if b.CompletionDate.IsSet() {
			writeField(&sb, "Completion Date", b.CompletionDate.String())
		}
		writeField(&sb, "Last Updated", b.LastUpdated.String())
	}
	for _, line := range b.Extra {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "- **%s:** %s\n", label, value)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Validate checks the state invariants before a block may be written:
// a lead's reason is present iff it is archived; a project's completion
// date is present iff it is Done, and Done forces the milestone to N/A.
// Transition validity between states is deliberately not enforced.
func Validate(b *models.StatusBlock) error {
	var err error
	switch b.Kind {
	case models.KindLead:
		err = validation.ValidateStruct(b,
			validation.Field(&b.Stage, validation.Required, validation.In(asAny(models.Stages())...)),
			validation.Field(&b.Reason,
				validation.When(b.Stage == models.StageArchived, validation.Required.Error("required when archived")).
					Else(validation.Empty.Error("only allowed when archived"))),
		)
	case models.KindProject:
		err = validation.ValidateStruct(b,
			validation.Field(&b.CurrentStatus, validation.Required, validation.In(asAny(models.ProjectStates())...)),
			validation.Field(&b.CompletionDate, validation.By(func(any) error {
				done := b.CurrentStatus == models.StateDone
				if done && !b.CompletionDate.IsSet() {
					return errors.New("required when status is Done")
				}
				if !done && b.CompletionDate.IsSet() {
					return errors.New("only allowed when status is Done")
				}
				return nil
			})),
			validation.Field(&b.NextMilestone, validation.By(func(any) error {
				done := b.CurrentStatus == models.StateDone
				na := b.NextMilestone == "" || b.NextMilestone == "N/A"
				if done && !na {
					return errors.New("must be N/A when status is Done")
				}
				if !done && na {
					return errors.New("required while status is not Done")
				}
				return nil
			})),
		)
	default:
		err = fmt.Errorf("kind %q has no status block", b.Kind)
	}
	if err != nil {
		return &apperr.ValidationError{Err: err}
	}
	return nil
}

func asAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// DeriveTitle returns the text of the first heading in the document, or
// the empty string when there is none.
func DeriveTitle(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			return m[2]
		}
	}
	return ""
}
