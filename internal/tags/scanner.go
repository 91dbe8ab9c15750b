// Package tags extracts @reminder(...), @calendar(...), and
// @imessage(...) invocations from document bodies. Malformed tags are
// reported as warnings and skipped; one bad tag never stops the scan.
package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/models"
)

var markers = []struct {
	prefix string
	kind   models.TagKind
}{
	{"@reminder(", models.TagReminder},
	{"@calendar(", models.TagCalendar},
	{"@imessage(", models.TagIMessage},
}

// invocation is one raw tag occurrence before argument parsing.
type invocation struct {
	kind     models.TagKind
	raw      string
	col      int
	balanced bool
}

// Scan returns every well-formed schedule tag in text, in order of first
// appearance. Re-scanning the same text always yields the same sequence.
// Tags with unbalanced parentheses or quotes, bad key=value syntax, or
// missing required keys are returned as warnings instead.
func Scan(text string) ([]models.ScheduleTag, []apperr.ScanWarning) {
	var (
		out      []models.ScheduleTag
		warnings []apperr.ScanWarning
	)
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		var found []invocation
		for _, m := range markers {
			found = append(found, extract(line, m.prefix, m.kind)...)
		}
		sort.SliceStable(found, func(a, b int) bool { return found[a].col < found[b].col })

		for _, inv := range found {
			tag, warn := buildTag(inv, lineNo)
			if warn != nil {
				warnings = append(warnings, *warn)
				continue
			}
			out = append(out, tag)
		}
	}
	return out, warnings
}

// extract returns the raw argument text of each prefix occurrence on a
// line. The walk is quote- and escape-aware, so parentheses inside
// quoted values do not close the invocation.
func extract(line, prefix string, kind models.TagKind) []invocation {
	var results []invocation
	i := 0
	for {
		rel := strings.Index(line[i:], prefix)
		if rel < 0 {
			return results
		}
		start := i + rel
		j := start + len(prefix)
		depth := 1
		inQuotes := false
		escape := false
		closed := false
		var buf strings.Builder
		for ; j < len(line); j++ {
			ch := line[j]
			if escape {
				buf.WriteByte(ch)
				escape = false
				continue
			}
			switch {
			case ch == '\\':
				escape = true
				buf.WriteByte(ch)
			case ch == '"':
				inQuotes = !inQuotes
				buf.WriteByte(ch)
			case ch == '(' && !inQuotes:
				depth++
				buf.WriteByte(ch)
			case ch == ')' && !inQuotes:
				depth--
				if depth == 0 {
					closed = true
				} else {
					buf.WriteByte(ch)
				}
			default:
				buf.WriteByte(ch)
			}
			if closed {
				break
			}
		}
		if !closed {
			// No closing paren on this line: report and stop.
			return append(results, invocation{kind: kind, col: start})
		}
		results = append(results, invocation{kind: kind, raw: buf.String(), col: start, balanced: true})
		i = j + 1
	}
}

func buildTag(inv invocation, line int) (models.ScheduleTag, *apperr.ScanWarning) {
	if !inv.balanced {
		return models.ScheduleTag{}, &apperr.ScanWarning{
			Line:   line,
			Reason: fmt.Sprintf("@%s: unbalanced invocation", inv.kind),
		}
	}
	args, err := parseArgs(inv.raw)
	if err != nil {
		return models.ScheduleTag{}, &apperr.ScanWarning{
			Line:   line,
			Reason: fmt.Sprintf("@%s: %v", inv.kind, err),
		}
	}
	for _, key := range inv.kind.RequiredKeys() {
		if args[key] == "" {
			return models.ScheduleTag{}, &apperr.ScanWarning{
				Line:   line,
				Reason: fmt.Sprintf("@%s: missing required key %q", inv.kind, key),
			}
		}
	}
	return models.ScheduleTag{Kind: inv.kind, Args: args, Line: line}, nil
}

// parseArgs parses a comma-separated key="value" list. As a shorthand
// the first segment may be a bare quoted string, taken as the message.
func parseArgs(raw string) (map[string]string, error) {
	args := make(map[string]string)
	for i, segment := range splitArgs(raw) {
		if i == 0 && !strings.Contains(segment, "=") && isQuoted(segment) {
			args["message"] = unquote(segment)
			continue
		}
		key, val, ok := strings.Cut(segment, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", segment)
		}
		args[strings.TrimSpace(key)] = unquote(strings.TrimSpace(val))
	}
	return args, nil
}

// splitArgs splits on commas outside quoted strings, honoring escapes.
func splitArgs(s string) []string {
	var (
		parts    []string
		buf      strings.Builder
		inQuotes bool
		escape   bool
	)
	flush := func() {
		if p := strings.TrimSpace(buf.String()); p != "" {
			parts = append(parts, p)
		}
		buf.Reset()
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escape:
			buf.WriteByte(ch)
			escape = false
		case ch == '\\':
			buf.WriteByte(ch)
			escape = true
		case ch == '"':
			inQuotes = !inQuotes
			buf.WriteByte(ch)
		case ch == ',' && !inQuotes:
			flush()
		default:
			buf.WriteByte(ch)
		}
	}
	flush()
	return parts
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// unquote strips surrounding double quotes and resolves the escape
// sequences \", \\, \n, and \t. Unquoted input is returned as-is.
func unquote(s string) string {
	if !isQuoted(s) {
		return s
	}
	inner := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\\' || i+1 == len(inner) {
			sb.WriteByte(inner[i])
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(inner[i])
		}
	}
	return sb.String()
}

// ParseBool reads the loose boolean syntax tag arguments use.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %q", s)
}
