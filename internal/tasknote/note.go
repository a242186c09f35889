// Package tasknote manages the satellite note documents that hold expanded
// notes for single tasks, joined to their source line by task id.
package tasknote

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/dayledger/internal/ledger"
	"github.com/amirbrooks/dayledger/internal/vault"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// Meta is the note's front matter.
type Meta struct {
	Task       string `yaml:"task"`
	TaskID     string `yaml:"taskId"`
	NoteID     string `yaml:"noteId"`
	Status     string `yaml:"status"`
	Created    string `yaml:"created"`
	SourceFile string `yaml:"sourceFile"`
	Scheduled  string `yaml:"scheduled,omitempty"`
}

type Note struct {
	Meta
	Path string
	Body string
}

var sourceLinkRe = regexp.MustCompile(`(?m)^Source: \[\[[^\]]*\]\]`)

// PathFor derives the deterministic note location from the task's text,
// sanitized for use as a filename.
func PathFor(cfg vault.Config, taskText string) string {
	return path.Join(cfg.NotesDir, sanitizeFilename(taskText)+".md")
}

func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "untitled"
	}
	return out
}

func newNoteID() string {
	t := ulid.Timestamp(vault.Now())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		return fmt.Sprintf("%d", vault.Now().UnixNano())
	}
	return "note_" + strings.ToUpper(id.String())
}

// Create builds a fresh note for a task line. The body carries the task
// heading, a backlink to the source daily note and an empty subtask section.
func Create(cfg vault.Config, line ledger.Line, sourceFile string) *Note {
	text := line.PlainText()
	n := &Note{
		Meta: Meta{
			Task:       text,
			TaskID:     line.ID,
			NoteID:     newNoteID(),
			Status:     cfg.StatusMap().Status(line.Marker),
			Created:    vault.Today(),
			SourceFile: sourceFile,
		},
		Path: PathFor(cfg, text),
	}
	var b strings.Builder
	b.WriteString("# " + text + "\n\n")
	b.WriteString("Source: " + backlink(sourceFile) + "\n\n")
	b.WriteString("## Subtasks\n")
	n.Body = b.String()
	return n
}

func backlink(sourceFile string) string {
	base := strings.TrimSuffix(path.Base(sourceFile), path.Ext(sourceFile))
	return "[[" + base + "]]"
}

// Repoint moves the note's source pointer: front matter fields and the
// embedded backlink both track where the live copy of the task resides.
func (n *Note) Repoint(sourceFile, scheduled string) {
	n.SourceFile = sourceFile
	n.Scheduled = scheduled
	n.Body = sourceLinkRe.ReplaceAllString(n.Body, "Source: "+backlink(sourceFile))
}

func Load(store vault.Store, p string) (*Note, error) {
	text, err := store.Read(p)
	if err != nil {
		return nil, err
	}
	meta, body, err := parseFrontmatter(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return &Note{Meta: *meta, Path: p, Body: body}, nil
}

func (n *Note) Save(store vault.Store) error {
	yamlBytes, err := yaml.Marshal(&n.Meta)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	if strings.TrimSpace(n.Body) != "" {
		buf.WriteString(n.Body)
		if !strings.HasSuffix(n.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return store.Write(n.Path, buf.String())
}

// Find locates a note by sanitized-task-text filename match.
func Find(store vault.Store, cfg vault.Config, taskText string) (*Note, error) {
	p := PathFor(cfg, taskText)
	if !store.Exists(p) {
		return nil, fmt.Errorf("%w: %s", vault.ErrNotFound, p)
	}
	return Load(store, p)
}

// FindByTaskID scans the notes folder for the note whose taskId field
// matches. Broken notes are skipped.
func FindByTaskID(store vault.Store, cfg vault.Config, taskID string) (*Note, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, vault.ErrInvalid
	}
	paths, err := store.ListFiles(cfg.NotesDir)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		n, err := Load(store, p)
		if err != nil {
			continue
		}
		if n.TaskID == taskID {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: no note for %s", vault.ErrNotFound, taskID)
}

func parseFrontmatter(text string) (*Meta, string, error) {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !strings.HasPrefix(s, "---\n") {
		return nil, "", fmt.Errorf("%w: missing frontmatter", vault.ErrInvalid)
	}
	parts := strings.SplitN(s, "\n---\n", 2)
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("%w: invalid frontmatter delimiters", vault.ErrInvalid)
	}
	yamlPart := strings.TrimPrefix(parts[0], "---\n")
	body := strings.TrimPrefix(parts[1], "\n")
	var meta Meta
	if err := yaml.Unmarshal([]byte(yamlPart), &meta); err != nil {
		return nil, "", err
	}
	return &meta, body, nil
}
