// Package audit scans weekly plan files for incomplete tasks and
// classifies them by how often they have been moved between weeks,
// using the "(moved from ...)" provenance annotation.
package audit

import (
	"fmt"
	"io"
	"strings"

	"github.com/starford/rolodex/internal/models"
)

const movedMarker = "(moved from"

// Document is one weekly plan file to audit.
type Document struct {
	Name string
	Text string
}

// Run audits the given documents, producing one section per file in the
// order supplied (callers pass files in filename sort order).
func Run(docs []Document) []models.AuditSection {
	sections := make([]models.AuditSection, 0, len(docs))
	for _, d := range docs {
		sections = append(sections, models.AuditSection{
			File:  d.Name,
			Tasks: auditText(d.Text),
		})
	}
	return sections
}

func auditText(text string) []models.MovedTask {
	var out []models.MovedTask
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !isTaskLine(trimmed) {
			continue
		}
		out = append(out, models.MovedTask{
			Text:      trimmed,
			MoveCount: moveCount(trimmed),
		})
	}
	return out
}

// isTaskLine keeps lines with an incomplete-task marker and drops
// completed tasks, headings, and horizontal separators (structural
// lines, not tasks).
func isTaskLine(trimmed string) bool {
	if !strings.Contains(trimmed, "[ ]") || strings.Contains(trimmed, "[x]") {
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		return false
	}
	if isSeparator(trimmed) {
		return false
	}
	return true
}

// isSeparator matches horizontal rules: runs of -, * or _ of length 3+.
func isSeparator(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	first := trimmed[0]
	if first != '-' && first != '*' && first != '_' {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != first && trimmed[i] != ' ' {
			return false
		}
	}
	return true
}

// moveCount counts the comma-separated provenance entries after the
// "(moved from" marker, plus one for the current file. A line without
// the marker has count zero. Counting commas is an accepted
// approximation: a comma inside a source label overcounts.
func moveCount(line string) int {
	idx := strings.Index(line, movedMarker)
	if idx < 0 {
		return 0
	}
	rest := line[idx+len(movedMarker):]
	if end := strings.IndexByte(rest, ')'); end >= 0 {
		rest = rest[:end]
	}
	return strings.Count(rest, ",") + 2
}

// Classify renders a task's move classification.
func Classify(t models.MovedTask) string {
	switch {
	case !t.Moved():
		return "not yet moved"
	case t.MovedMultiple():
		return "moved multiple times"
	default:
		return "moved once"
	}
}

// Render writes a human-readable audit report grouped per file.
func Render(w io.Writer, sections []models.AuditSection) error {
	if len(sections) == 0 {
		_, err := fmt.Fprintln(w, "No weekly plan files found.")
		return err
	}
	for _, s := range sections {
		fmt.Fprintf(w, "%s\n", s.File)
		if len(s.Tasks) == 0 {
			fmt.Fprintln(w, "  no open tasks")
			continue
		}
		for _, t := range s.Tasks {
			label := Classify(t)
			if t.Moved() {
				label = fmt.Sprintf("%s (%d locations)", label, t.MoveCount)
			}
			fmt.Fprintf(w, "  [%s] %s\n", label, t.Text)
		}
	}
	return nil
}
