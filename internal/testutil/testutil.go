// Package testutil provides shared test helpers for building vault
// fixtures and ledgers.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/rolodex/internal/ledger"
	"github.com/starford/rolodex/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestVault creates a temporary vault with all category roots and
// returns its path with a storage provider.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{
		storage.PeopleDir,
		storage.LeadsDir,
		filepath.Join(storage.LeadsDir, storage.ArchiveSubdir),
		storage.ProjectsDir,
		filepath.Join(storage.ProjectsDir, storage.DoneSubdir),
		storage.OutreachDir,
		storage.WeeksDir,
	} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteRecord writes a record file into the vault, failing the test on
// error.
func WriteRecord(t *testing.T, store *storage.FS, path, content string) {
	t.Helper()
	if err := store.Write(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestLedger opens a ledger in a temporary directory.
func TestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := ledger.Open(path, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return l
}
