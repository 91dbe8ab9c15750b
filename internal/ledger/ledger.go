// Package ledger persists which schedule tags have already produced an
// external side effect, so repeated scans never duplicate reminders,
// events, or messages.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/models"
)

// Entry records one executed tag. Entries are never auto-deleted;
// removal is a manual action.
type Entry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ContentHash string    `json:"content_hash"`
	ExternalRef string    `json:"external_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ledger is a file-backed map from tag identity to external reference.
// Identity is solely the tag id: editing a tag's message after its
// first execution does not create a new entry here; update detection is
// the caller's concern.
type Ledger struct {
	path    string
	entries map[string]Entry
	order   []string // insertion order, preserved on save
	logger  *slog.Logger
	corrupt error // non-nil when the persisted state was unparseable
}

// Open loads the ledger at path. A missing file is an empty ledger. A
// corrupt file also degrades to an empty ledger (fail closed, logged
// loudly): a duplicate external reminder is recoverable, a crash that
// blocks every schedule run is not.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		entries: make(map[string]Entry),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", path, err)
	}

	var persisted []Entry
	if jsonErr := json.Unmarshal(data, &persisted); jsonErr != nil {
		logger.Error("ledger: persisted state unparseable, starting empty",
			slog.String("path", path),
			slog.String("error", jsonErr.Error()))
		l.corrupt = fmt.Errorf("%w: %v", apperr.ErrLedgerCorrupt, jsonErr)
		return l, nil
	}
	for _, e := range persisted {
		if _, dup := l.entries[e.ID]; dup {
			continue
		}
		l.entries[e.ID] = e
		l.order = append(l.order, e.ID)
	}
	return l, nil
}

// ShouldExecute reports whether the tag has not yet produced its side
// effect. False iff an entry with the same identity exists, regardless
// of any other field of the tag.
func (l *Ledger) ShouldExecute(tag models.ScheduleTag) bool {
	_, done := l.entries[tag.Identity()]
	return !done
}

// Lookup returns the persisted entry for a tag, if any.
func (l *Ledger) Lookup(tag models.ScheduleTag) (Entry, bool) {
	e, ok := l.entries[tag.Identity()]
	return e, ok
}

// Record persists that the tag's external action succeeded. Called only
// after the backend reported success, never before.
func (l *Ledger) Record(tag models.ScheduleTag, externalRef string) error {
	id := tag.Identity()
	if _, dup := l.entries[id]; !dup {
		l.order = append(l.order, id)
	}
	l.entries[id] = Entry{
		ID:          id,
		Kind:        string(tag.Kind),
		ContentHash: tag.ContentHash(),
		ExternalRef: externalRef,
		CreatedAt:   time.Now(),
	}
	return l.save()
}

// Reset truncates the ledger on disk and in memory.
func (l *Ledger) Reset() error {
	l.entries = make(map[string]Entry)
	l.order = nil
	return l.save()
}

// Len returns the number of persisted entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Corruption returns the apperr.ErrLedgerCorrupt-wrapped error seen at
// open time, or nil when the persisted state loaded cleanly.
func (l *Ledger) Corruption() error { return l.corrupt }

// save writes the whole ledger via temp file + rename, so an
// interrupted write never leaves a partial file behind.
func (l *Ledger) save() error {
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id])
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ledger: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".rolodex-ledger-*")
	if err != nil {
		return fmt.Errorf("ledger: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("ledger: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("ledger: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ledger: close temp: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		return fmt.Errorf("ledger: rename: %w", err)
	}
	success = true
	return nil
}
