package mcpserver

// RecordFormatContract describes the canonical record layout the
// conversational agent must follow when creating or updating records.
const RecordFormatContract = `# Rolodex Record Format Contract

Every record is a Markdown file owned by its category directory. The
directory is the lifecycle state: moving a file is the only way a record
changes category.

## Directory layout

` + "```" + `
people/          free-form person notes (no status block)
active_leads/    leads being worked; archive/ holds lost ones
projects/        committed work; done/ holds finished ones
outreach/        campaign and content notes (no status block)
weeks/           weekly plans, named "week of YYYY-MM-DD.md"
` + "```" + `

## Status block (leads and projects only)

Place a ` + "`" + `## Status` + "`" + ` heading followed by a bullet list of
` + "`" + `- **Field:** value` + "`" + ` lines. Dates are ` + "`" + `YYYY-MM-DD` + "`" + ` exactly.

Lead fields:

` + "```" + `markdown
## Status
- **Stage:** Qualification | Proposal Sent | Negotiation | Needs Follow-Up | Archived - No Conversion
- **Next Step:** concrete next action, or N/A
- **Last Updated:** 2025-08-16
- **Reason:** required when, and only when, the stage is Archived - No Conversion
` + "```" + `

Project fields:

` + "```" + `markdown
## Status
- **Current Status:** Planning | In Progress | On Hold | Awaiting Feedback | Blocked | Done
- **Next Milestone:** concrete milestone, or N/A (exactly when Done)
- **Due Date:** optional, 2025-09-01
- **Completion Date:** required when, and only when, the status is Done
- **Last Updated:** 2025-08-16
` + "```" + `

Unknown bullet lines are preserved, never dropped. Update
**Last Updated** on every meaningful edit; the staleness report flags
records older than the configured threshold.

## Schedule tags

Anywhere in a record body:

` + "```" + `
@reminder(message="Follow up with Dana", at="tomorrow 09:30", list="Work")
@calendar(message="Kickoff call", at="2025-08-20 14:00", duration="45m")
@imessage(to="+15551234567", message="Running 5 min late")
` + "```" + `

The ` + "`" + `at` + "`" + ` expression is one of ` + "`" + `YYYY-MM-DD HH:MM` + "`" + `,
` + "`" + `today HH:MM` + "`" + `, ` + "`" + `tomorrow HH:MM` + "`" + `, or ` + "`" + `+Nm/+Nh/+Nd` + "`" + `.
Add ` + "`" + `id="..."` + "`" + ` to give a tag a stable identity so rewording it
later does not create a duplicate. Each tag fires at most once across
repeated schedule runs.

## Weekly plans

Open tasks are ` + "`" + `- [ ]` + "`" + ` lines. When carrying a task into a new week,
append its provenance: ` + "`" + `(moved from week of 2025-08-04)` + "`" + `, adding
earlier sources comma-separated. The audit counts those entries.
`
