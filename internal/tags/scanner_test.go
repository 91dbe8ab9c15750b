package tags

import (
	"reflect"
	"testing"

	"github.com/starford/rolodex/internal/models"
)

func TestScan_Reminder(t *testing.T) {
	text := `# Outreach

- [ ] Ping Alex @reminder(message="Follow up with Alex", at="+2h", id="alex-fu")
`
	got, warnings := Scan(text)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if len(got) != 1 {
		t.Fatalf("tags = %d, want 1", len(got))
	}
	tag := got[0]
	if tag.Kind != models.TagReminder {
		t.Errorf("kind = %q", tag.Kind)
	}
	if tag.Line != 3 {
		t.Errorf("line = %d, want 3", tag.Line)
	}
	want := map[string]string{"message": "Follow up with Alex", "at": "+2h", "id": "alex-fu"}
	if !reflect.DeepEqual(tag.Args, want) {
		t.Errorf("args = %v, want %v", tag.Args, want)
	}
}

func TestScan_MessageShorthand(t *testing.T) {
	got, warnings := Scan(`@reminder("Send the deck", at="tomorrow 09:00")`)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if len(got) != 1 || got[0].Arg("message") != "Send the deck" {
		t.Fatalf("tags = %+v", got)
	}
}

func TestScan_QuotedCommasAndParens(t *testing.T) {
	got, warnings := Scan(`@calendar(message="Demo (v2), with Q&A", at="2025-09-01 14:00", duration="45m")`)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if len(got) != 1 {
		t.Fatalf("tags = %d, want 1", len(got))
	}
	if got[0].Arg("message") != "Demo (v2), with Q&A" {
		t.Errorf("message = %q", got[0].Arg("message"))
	}
}

func TestScan_EscapedQuotes(t *testing.T) {
	got, warnings := Scan(`@imessage(to="+15551234567", message="Say \"hi\" from me")`)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if got[0].Arg("message") != `Say "hi" from me` {
		t.Errorf("message = %q", got[0].Arg("message"))
	}
}

func TestScan_DocumentOrder(t *testing.T) {
	text := `@calendar(message="B", at="+1h") then @reminder(message="A", at="+1h")
@imessage(to="dana", message="C")`
	got, warnings := Scan(text)
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	var kinds []models.TagKind
	for _, tag := range got {
		kinds = append(kinds, tag.Kind)
	}
	want := []models.TagKind{models.TagCalendar, models.TagReminder, models.TagIMessage}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("order = %v, want %v", kinds, want)
	}

	// The scan is deterministic across runs.
	again, _ := Scan(text)
	if !reflect.DeepEqual(again, got) {
		t.Error("re-scan produced a different sequence")
	}
}

func TestScan_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unbalanced", `@reminder(message="open`},
		{"bare value", `@reminder(message)`},
		{"missing at", `@reminder(message="no time")`},
		{"missing to", `@imessage(message="who?")`},
	}
	for _, tt := range tests {
		got, warnings := Scan(tt.text)
		if len(got) != 0 {
			t.Errorf("%s: tags = %+v, want none", tt.name, got)
		}
		if len(warnings) != 1 {
			t.Errorf("%s: warnings = %v, want exactly one", tt.name, warnings)
		}
	}
}

func TestScan_BadTagDoesNotStopScan(t *testing.T) {
	text := `@reminder(message)
@reminder(message="still here", at="+1h")`
	got, warnings := Scan(text)
	if len(got) != 1 || len(warnings) != 1 {
		t.Fatalf("tags = %d warnings = %d, want 1 and 1", len(got), len(warnings))
	}
	if warnings[0].Line != 1 {
		t.Errorf("warning line = %d, want 1", warnings[0].Line)
	}
}

func TestTagIdentity(t *testing.T) {
	withID, _ := Scan(`@reminder(message="x", at="+1h", id="draft-li-post")`)
	if got := withID[0].Identity(); got != "id:draft-li-post" {
		t.Errorf("identity = %q", got)
	}

	a, _ := Scan(`@reminder(message="x", at="+1h")`)
	b, _ := Scan(`@reminder(at="+1h", message="x")`)
	if a[0].Identity() != b[0].Identity() {
		t.Error("argument order must not change the content identity")
	}
	c, _ := Scan(`@reminder(message="y", at="+1h")`)
	if a[0].Identity() == c[0].Identity() {
		t.Error("different content must hash differently")
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "Yes", "1"} {
		if v, err := ParseBool(s); err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"false", "no", "0", ""} {
		if v, err := ParseBool(s); err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Error("want error for unknown boolean")
	}
}
