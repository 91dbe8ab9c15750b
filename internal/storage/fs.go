package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/rolodex/internal/apperr"
	"github.com/starford/rolodex/internal/models"
)

// category wires a kind to its directory root and the terminal
// subdirectory its records retire into, if any.
type category struct {
	kind    models.Kind
	dir     string
	exclude string
}

var categories = []category{
	{models.KindPerson, PeopleDir, ""},
	{models.KindLead, LeadsDir, ArchiveSubdir},
	{models.KindProject, ProjectsDir, DoneSubdir},
	{models.KindOutreach, OutreachDir, ""},
}

var weekFileRe = regexp.MustCompile(`(?i)^week[ _-]of[ _-].+\.md$`)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to vault directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist; category roots may not.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute vault root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// ListRecords walks every category root and returns active records,
// skipping terminal archive/done subdirectories entirely. Exclusion is
// by location, not by status value: a stale-looking record outside
// archive/ is still listed.
func (f *FS) ListRecords() ([]models.RecordMetadata, error) {
	var out []models.RecordMetadata
	for _, c := range categories {
		metas, err := f.listCategory(c)
		if err != nil {
			return nil, err
		}
		out = append(out, metas...)
	}
	return out, nil
}

// ListKind returns active records of a single kind.
func (f *FS) ListKind(kind models.Kind) ([]models.RecordMetadata, error) {
	for _, c := range categories {
		if c.kind == kind {
			return f.listCategory(c)
		}
	}
	return nil, fmt.Errorf("storage: unknown record kind: %s", kind)
}

func (f *FS) listCategory(c category) ([]models.RecordMetadata, error) {
	base := filepath.Join(f.root, c.dir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		// A missing category root is an empty category, not an error.
		return nil, nil
	}

	var out []models.RecordMetadata
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if c.exclude != "" && d.Name() == c.exclude {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.RecordMetadata{
			Path:      filepath.ToSlash(rel),
			Kind:      c.kind,
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", c.dir, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ListWeekFiles returns the weekly plan files under weeks/ whose names
// match the "week of <date>" convention, in filename sort order.
func (f *FS) ListWeekFiles() ([]string, error) {
	base := filepath.Join(f.root, WeeksDir)
	entries, err := os.ReadDir(base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: list weeks: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !weekFileRe.MatchString(e.Name()) {
			continue
		}
		out = append(out, WeeksDir+"/"+e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// KindOf infers a record's kind from its top-level directory.
func (f *FS) KindOf(path string) (models.Kind, bool) {
	top, _, _ := strings.Cut(filepath.ToSlash(path), "/")
	for _, c := range categories {
		if c.dir == top {
			return c.kind, true
		}
	}
	return "", false
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rolodex-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Move renames a file within the vault. Moving a record between
// directories is how its lifecycle state changes: archiving a lead
// moves it under active_leads/archive/, completing a project under
// projects/done/.
func (f *FS) Move(oldPath, newPath string) error {
	absOld, err := f.safePath(oldPath)
	if err != nil {
		return err
	}
	absNew, err := f.safePath(newPath)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(absNew); statErr == nil {
		// Refuse to clobber: a lifecycle move must never overwrite an
		// existing record.
		return fmt.Errorf("storage: %s: %w", newPath, apperr.ErrAlreadyExists)
	}
	dir := filepath.Dir(absNew)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for move: %w", err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("storage: move: %w", err)
	}
	return nil
}
