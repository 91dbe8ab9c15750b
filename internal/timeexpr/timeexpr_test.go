package timeexpr

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/rolodex/internal/apperr"
)

func TestResolve(t *testing.T) {
	now := time.Date(2025, 8, 14, 9, 15, 0, 0, time.Local)
	tests := []struct {
		expr string
		want time.Time
	}{
		{"+30m", now.Add(30 * time.Minute)},
		{"+2h", now.Add(2 * time.Hour)},
		{"+1d", now.AddDate(0, 0, 1)},
		{"today 17:30", time.Date(2025, 8, 14, 17, 30, 0, 0, time.Local)},
		{"Today 9:05", time.Date(2025, 8, 14, 9, 5, 0, 0, time.Local)},
		{"tomorrow 08:00", time.Date(2025, 8, 15, 8, 0, 0, 0, time.Local)},
		{"2025-12-24 18:00", time.Date(2025, 12, 24, 18, 0, 0, 0, time.Local)},
		{"2025-12-24 18:00:30", time.Date(2025, 12, 24, 18, 0, 30, 0, time.Local)},
		{"  +30m  ", now.Add(30 * time.Minute)},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.expr, now)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.expr, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestResolve_Rejects(t *testing.T) {
	now := time.Date(2025, 8, 14, 9, 15, 0, 0, time.Local)
	for _, expr := range []string{
		"",
		"soon",
		"+5w",
		"today 25:00",
		"tomorrow 12:75",
		"yesterday 12:00",
		"2025-13-01 12:00",
	} {
		_, err := Resolve(expr, now)
		var pf *apperr.ParseFailure
		if !errors.As(err, &pf) {
			t.Errorf("Resolve(%q): want ParseFailure, got %v", expr, err)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		expr string
		want time.Duration
	}{
		{"", 30 * time.Minute},
		{"45m", 45 * time.Minute},
		{"2h", 2 * time.Hour},
		{" 90m ", 90 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.expr)
		if err != nil {
			t.Errorf("ParseDuration(%q): %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
	if _, err := ParseDuration("2d"); err == nil {
		t.Error("days are not a valid event duration")
	}
}
