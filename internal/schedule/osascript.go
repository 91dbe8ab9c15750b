package schedule

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// appleScriptDate is the date layout the Reminders and Calendar apps
// accept in property records.
const appleScriptDate = "Monday, January 2, 2006 at 3:04:05 PM"

// OsaScript is the macOS Backend: it builds AppleScript and runs it
// through osascript. The external reference is the script target plus
// the scheduled time, which is all the automation interface exposes.
type OsaScript struct {
	Timeout time.Duration
}

// NewOsaScript creates the osascript backend. timeout <= 0 selects 12s,
// matching the automation prompts' worst observed latency.
func NewOsaScript(timeout time.Duration) *OsaScript {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &OsaScript{Timeout: timeout}
}

// CreateReminder makes a reminder, creating the target list on demand.
func (o *OsaScript) CreateReminder(ctx context.Context, req ReminderRequest) (string, error) {
	props := []string{
		fmt.Sprintf(`name:"%s"`, escape(req.Message)),
		fmt.Sprintf(`remind me date:date "%s"`, req.At.Format(appleScriptDate)),
	}
	if req.Note != "" {
		props = append(props, fmt.Sprintf(`body:"%s"`, escape(req.Note)))
	}
	if req.Priority != "" {
		props = append(props, "priority:"+req.Priority)
	}
	if req.Flagged {
		props = append(props, "flagged:true")
	}
	record := strings.Join(props, ", ")

	var script string
	if req.List != "" {
		list := escape(req.List)
		script = fmt.Sprintf(`tell application "Reminders"
	try
		tell list "%[1]s"
			make new reminder with properties {%[2]s}
		end tell
	on error
		make new list with properties {name:"%[1]s"}
		tell list "%[1]s"
			make new reminder with properties {%[2]s}
		end tell
	end try
end tell`, list, record)
	} else {
		script = fmt.Sprintf(`tell application "Reminders"
	make new reminder with properties {%s}
end tell`, record)
	}

	if err := o.run(ctx, script); err != nil {
		return "", err
	}
	return "reminders:" + req.At.Format("2006-01-02 15:04"), nil
}

// CreateEvent makes a calendar event spanning req.Duration.
func (o *OsaScript) CreateEvent(ctx context.Context, req EventRequest) (string, error) {
	end := req.At.Add(req.Duration)
	props := []string{
		fmt.Sprintf(`summary:"%s"`, escape(req.Message)),
		fmt.Sprintf(`start date:date "%s"`, req.At.Format(appleScriptDate)),
		fmt.Sprintf(`end date:date "%s"`, end.Format(appleScriptDate)),
	}
	if req.Note != "" {
		props = append(props, fmt.Sprintf(`description:"%s"`, escape(req.Note)))
	}
	if req.Location != "" {
		props = append(props, fmt.Sprintf(`location:"%s"`, escape(req.Location)))
	}
	record := strings.Join(props, ", ")

	var script string
	if req.Calendar != "" {
		script = fmt.Sprintf(`tell application "Calendar"
	tell calendar "%s"
		make new event at end with properties {%s}
	end tell
end tell`, escape(req.Calendar), record)
	} else {
		script = fmt.Sprintf(`tell application "Calendar"
	make new event at end with properties {%s}
end tell`, record)
	}

	if err := o.run(ctx, script); err != nil {
		return "", err
	}
	return "calendar:" + req.At.Format("2006-01-02 15:04"), nil
}

// SendMessage sends through the iMessage service, falling back to a new
// text chat when the handle has no existing buddy entry.
func (o *OsaScript) SendMessage(ctx context.Context, req MessageRequest) (string, error) {
	script := fmt.Sprintf(`set theText to "%s"
set theHandle to "%s"
tell application "Messages"
	set theService to 1st service whose service type = iMessage
	try
		set theBuddy to buddy theHandle of theService
		send theText to theBuddy
	on error
		set theChat to make new text chat with properties {service:theService, participants:{theHandle}}
		send theText to theChat
	end try
end tell`, escape(req.Message), escape(req.To))

	if err := o.run(ctx, script); err != nil {
		return "", err
	}
	return "imessage:" + req.To, nil
}

// run writes the script to a temp file and executes it with osascript.
// A temp file avoids -e quoting pitfalls with multiline scripts.
func (o *OsaScript) run(ctx context.Context, script string) error {
	tmp, err := os.CreateTemp("", "rolodex-*.applescript")
	if err != nil {
		return fmt.Errorf("schedule: create script file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return fmt.Errorf("schedule: write script file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("schedule: close script file: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	out, err := exec.CommandContext(runCtx, "osascript", tmp.Name()).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("schedule: osascript: %s", msg)
	}
	return nil
}

// escape prepares a string for embedding in an AppleScript literal.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
