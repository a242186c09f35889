// Package vault is the document store collaborator: file-by-path access to
// the note vault, daily-note path derivation, and the vault config. Core
// transforms never touch it directly; they consume and produce whole
// document text and the callers here persist it.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")

	timeNow = func() time.Time { return time.Now().UTC() }
)

// Store is what the scheduler and synchronizers need from the host document
// store. Paths are vault-relative with forward slashes.
type Store interface {
	Read(p string) (string, error)
	Write(p string, text string) error
	Exists(p string) bool
	Create(p string, text string) error
	CreateFolder(p string) error
	ListFiles(folderPrefix string) ([]string, error)
}

// FS is the filesystem-backed Store rooted at a vault directory.
type FS struct {
	Root string
	cfg  Config
}

// Open opens a vault rooted at root. Missing config is fine until Init; a
// config that exists but cannot be parsed is reported, and defaults apply
// either way.
func Open(root string) (*FS, error) {
	v := &FS{Root: expandHome(root)}
	if err := v.loadOrDefaultConfig(); err != nil && errors.Is(err, ErrInvalid) {
		slog.Warn("ignoring unreadable config, running on defaults", "root", v.Root, "err", err)
	}
	return v, nil
}

// Init creates the vault skeleton: root, daily and notes folders, config.
func (v *FS) Init() error {
	if err := os.MkdirAll(v.Root, 0o755); err != nil {
		return err
	}
	if err := v.ensureConfig(); err != nil {
		return err
	}
	for _, dir := range []string{v.cfg.DailyDir, v.cfg.NotesDir} {
		if err := os.MkdirAll(filepath.Join(v.Root, filepath.FromSlash(dir)), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (v *FS) abs(p string) string {
	return filepath.Join(v.Root, filepath.FromSlash(p))
}

func (v *FS) Read(p string) (string, error) {
	b, err := os.ReadFile(v.abs(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return "", err
	}
	return string(b), nil
}

func (v *FS) Write(p string, text string) error {
	return atomicWriteFile(v.abs(p), []byte(text), 0o644)
}

func (v *FS) Exists(p string) bool {
	_, err := os.Stat(v.abs(p))
	return err == nil
}

func (v *FS) Create(p string, text string) error {
	return atomicWriteFile(v.abs(p), []byte(text), 0o644)
}

func (v *FS) CreateFolder(p string) error {
	return os.MkdirAll(v.abs(p), 0o755)
}

// ListFiles returns vault-relative paths of markdown files under the given
// folder prefix, sorted.
func (v *FS) ListFiles(folderPrefix string) ([]string, error) {
	root := v.abs(folderPrefix)
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		rel, rerr := filepath.Rel(v.Root, p)
		if rerr != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	sort.Strings(out)
	return out, err
}

// DailyPath is the deterministic location of the daily note for a date.
func DailyPath(cfg Config, date string) string {
	return path.Join(cfg.DailyDir, date+".md")
}

// DateOf extracts a document's own date identity from its filename. A task
// scheduled out of an already-future note must carry that note's date, not
// wall-clock today.
func DateOf(p string) (string, bool) {
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if _, err := time.Parse("2006-01-02", base); err != nil {
		return "", false
	}
	return base, true
}

// Today is the wall-clock fallback when a document has no date identity.
func Today() string {
	return timeNow().Format("2006-01-02")
}

func Now() time.Time { return timeNow() }

func expandHome(p string) string {
	if strings.HasPrefix(p, "~"+string(os.PathSeparator)) || p == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func atomicWriteFile(p string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
