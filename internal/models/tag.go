package models

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// TagKind identifies which external action a schedule tag requests.
type TagKind string

// Tag kinds.
const (
	TagReminder TagKind = "reminder"
	TagCalendar TagKind = "calendar"
	TagIMessage TagKind = "imessage"
)

// RequiredKeys returns the argument keys a tag of this kind must carry.
func (k TagKind) RequiredKeys() []string {
	switch k {
	case TagIMessage:
		return []string{"to", "message"}
	default:
		return []string{"message", "at"}
	}
}

// ScheduleTag is one parsed @reminder/@calendar/@imessage invocation.
// Created fresh on every scan; only its derived ledger entry persists.
type ScheduleTag struct {
	Kind TagKind           `json:"kind"`
	Args map[string]string `json:"args"`
	Line int               `json:"line"`
}

// Arg returns the named argument, or "" when absent.
func (t ScheduleTag) Arg(key string) string { return t.Args[key] }

// Identity returns the tag's stable identity used by the idempotency
// ledger: the explicit id argument when given, otherwise a deterministic
// hash of the normalized arguments. Line position is deliberately not
// part of the identity, so edits elsewhere in the document do not create
// a new one.
func (t ScheduleTag) Identity() string {
	if id := t.Args["id"]; id != "" {
		return "id:" + id
	}
	return "sha:" + t.ContentHash()[:16]
}

// ContentHash is a SHA-256 digest over the kind and the sorted key=value
// argument pairs, excluding id.
func (t ScheduleTag) ContentHash() string {
	keys := make([]string, 0, len(t.Args))
	for k := range t.Args {
		if k == "id" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(string(t.Kind))
	for _, k := range keys {
		sb.WriteByte('\n')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(t.Args[k])
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
