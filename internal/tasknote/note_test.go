package tasknote

import (
	"errors"
	"strings"
	"testing"

	"github.com/amirbrooks/dayledger/internal/ledger"
	"github.com/amirbrooks/dayledger/internal/vault"
)

func newTestStore(t *testing.T) (*vault.FS, vault.Config) {
	t.Helper()
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := v.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return v, v.Config()
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Call dentist", "Call dentist"},
		{"Fix: the /thing/!", "Fix the thing"},
		{"   ", "untitled"},
		{"a__b--c", "a__b--c"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCreateSaveLoadRoundTrip(t *testing.T) {
	store, cfg := newTestStore(t)
	line := ledger.Parse("- [ ] Call dentist [id::t-ab12cd34]")
	n := Create(cfg, line, "daily/2025-01-10.md")

	if n.Task != "Call dentist" || n.TaskID != "t-ab12cd34" {
		t.Fatalf("meta = %#v", n.Meta)
	}
	if !strings.HasPrefix(n.NoteID, "note_") {
		t.Fatalf("noteId = %q", n.NoteID)
	}
	if n.Status != "incomplete" {
		t.Fatalf("status = %q", n.Status)
	}
	if !strings.Contains(n.Body, "Source: [[2025-01-10]]") {
		t.Fatalf("body missing backlink:\n%q", n.Body)
	}
	if !strings.Contains(n.Body, "## Subtasks") {
		t.Fatalf("body missing subtask section:\n%q", n.Body)
	}

	if err := n.Save(store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(store, n.Path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Meta != n.Meta {
		t.Fatalf("round trip meta = %#v, want %#v", got.Meta, n.Meta)
	}
	if got.Body != n.Body {
		t.Fatalf("round trip body = %q, want %q", got.Body, n.Body)
	}
}

func TestLoadRejectsMissingFrontmatter(t *testing.T) {
	store, cfg := newTestStore(t)
	p := cfg.NotesDir + "/plain.md"
	if err := store.Write(p, "# just a heading\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Load(store, p); !errors.Is(err, vault.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
}

func TestRepointMovesBacklink(t *testing.T) {
	store, cfg := newTestStore(t)
	line := ledger.Parse("- [ ] Call dentist [id::t-ab12cd34]")
	n := Create(cfg, line, "daily/2025-01-10.md")

	n.Repoint("daily/2025-01-12.md", "2025-01-12")
	if n.SourceFile != "daily/2025-01-12.md" || n.Scheduled != "2025-01-12" {
		t.Fatalf("meta after repoint = %#v", n.Meta)
	}
	if !strings.Contains(n.Body, "Source: [[2025-01-12]]") {
		t.Fatalf("backlink not repointed:\n%q", n.Body)
	}
	if strings.Contains(n.Body, "[[2025-01-10]]") {
		t.Fatalf("stale backlink survived:\n%q", n.Body)
	}
	_ = store
}

func TestFindByTaskID(t *testing.T) {
	store, cfg := newTestStore(t)
	for _, txt := range []string{"Call dentist", "Plan sprint"} {
		line := ledger.Parse("- [ ] " + txt + " [id::t-" + txt[:4] + "0000]")
		if err := Create(cfg, line, "daily/2025-01-10.md").Save(store); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	n, err := FindByTaskID(store, cfg, "t-Plan0000")
	if err != nil {
		t.Fatalf("FindByTaskID: %v", err)
	}
	if n.Task != "Plan sprint" {
		t.Fatalf("found %q", n.Task)
	}
	if _, err := FindByTaskID(store, cfg, "t-missing0"); !errors.Is(err, vault.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := FindByTaskID(store, cfg, ""); !errors.Is(err, vault.ErrInvalid) {
		t.Fatalf("want ErrInvalid for empty id, got %v", err)
	}
}
