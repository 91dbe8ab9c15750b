// Package timeexpr resolves the time expressions used by scheduling
// tags into absolute timestamps. All arithmetic is in the host's local
// time; no timezone conversion is performed.
package timeexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/rolodex/internal/apperr"
)

var (
	offsetRe   = regexp.MustCompile(`^\+(\d+)([mhd])$`)
	todayRe    = regexp.MustCompile(`(?i)^today\s+(\d{1,2}):(\d{2})$`)
	tomorrowRe = regexp.MustCompile(`(?i)^tomorrow\s+(\d{1,2}):(\d{2})$`)
	durationRe = regexp.MustCompile(`^(\d+)([mh])$`)
)

// Absolute time layouts, tried in order.
var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Resolve parses a scheduling "at" expression against now. The grammar,
// tried in order: absolute "YYYY-MM-DD HH:MM", "today HH:MM" /
// "tomorrow HH:MM", and relative "+Nm" / "+Nh" / "+Nd" offsets. Any
// other form is a *apperr.ParseFailure; callers must not schedule an
// action for an unresolved expression.
func Resolve(expr string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)

	if m := offsetRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "m":
			return now.Add(time.Duration(n) * time.Minute), nil
		case "h":
			return now.Add(time.Duration(n) * time.Hour), nil
		default:
			return now.AddDate(0, 0, n), nil
		}
	}

	if m := todayRe.FindStringSubmatch(trimmed); m != nil {
		return atClock(now, m[1], m[2])
	}
	if m := tomorrowRe.FindStringSubmatch(trimmed); m != nil {
		return atClock(now.AddDate(0, 0, 1), m[1], m[2])
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &apperr.ParseFailure{Subject: "time expression", Reason: "unrecognized: " + expr}
}

// ParseDuration parses an event duration of the form "<N>m" or "<N>h".
// An empty expression yields the 30 minute default.
func ParseDuration(expr string) (time.Duration, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 30 * time.Minute, nil
	}
	m := durationRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, &apperr.ParseFailure{Subject: "duration", Reason: "unrecognized: " + expr}
	}
	n, _ := strconv.Atoi(m[1])
	if m[2] == "h" {
		return time.Duration(n) * time.Hour, nil
	}
	return time.Duration(n) * time.Minute, nil
}

func atClock(day time.Time, hh, mm string) (time.Time, error) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return time.Time{}, &apperr.ParseFailure{Subject: "time expression", Reason: "invalid clock time"}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
