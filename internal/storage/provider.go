// Package storage defines the vault file-system abstraction. The vault
// is a directory of Markdown records owned by convention-named category
// roots; a record's location is its lifecycle state.
package storage

import "github.com/starford/rolodex/internal/models"

// Directory layout contract consumed by the reporter and the audit.
const (
	PeopleDir   = "people"
	LeadsDir    = "active_leads"
	ProjectsDir = "projects"
	OutreachDir = "outreach"
	WeeksDir    = "weeks"

	// Terminal subdirectories, excluded from active listings.
	ArchiveSubdir = "archive"
	DoneSubdir    = "done"
)

// Provider is the interface for vault file operations.
type Provider interface {
	// ListRecords returns metadata for every active record in every
	// category root, skipping terminal archive/done subdirectories.
	ListRecords() ([]models.RecordMetadata, error)
	// ListKind returns active records of a single kind.
	ListKind(kind models.Kind) ([]models.RecordMetadata, error)
	// ListWeekFiles returns the weekly plan files under weeks/ in
	// filename sort order.
	ListWeekFiles() ([]string, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Move renames oldPath to newPath; the sole state-transition
	// mechanism for records.
	Move(oldPath, newPath string) error
	// KindOf infers a record's kind from its containing directory.
	KindOf(path string) (models.Kind, bool)
}
