package tasknote

import (
	"fmt"
	"strings"

	"github.com/amirbrooks/dayledger/internal/ledger"
	"github.com/amirbrooks/dayledger/internal/vault"
)

const subtasksHeading = "## Subtasks"

// SyncStatusToNote pushes a source line's marker to the matching note's
// status field. Writing is skipped when the stored status already matches,
// so repeated syncs cause no spurious modification timestamps.
func SyncStatusToNote(store vault.Store, cfg vault.Config, taskID string, marker byte) error {
	status := cfg.StatusMap().Status(marker)
	if status == "" {
		return fmt.Errorf("%w: unmapped marker %q", vault.ErrInvalid, string(marker))
	}
	n, err := FindByTaskID(store, cfg, taskID)
	if err != nil {
		return err
	}
	if n.Status == status {
		return nil
	}
	n.Status = status
	return n.Save(store)
}

// SyncStatusToSource pushes a note's declared status back to the live line
// in its source document. Only the marker character is rewritten; the rest
// of the line, scrambled tags included, is left exactly as the user had it.
func SyncStatusToSource(store vault.Store, cfg vault.Config, notePath string) error {
	n, err := Load(store, notePath)
	if err != nil {
		return err
	}
	statuses := cfg.StatusMap()
	marker, ok := statuses.Marker(n.Status)
	if !ok {
		return fmt.Errorf("%w: unknown status %q", vault.ErrInvalid, n.Status)
	}
	doc, err := store.Read(n.SourceFile)
	if err != nil {
		return err
	}
	lines := ledger.SplitDoc(doc)
	for i, raw := range lines {
		l := ledger.Parse(raw)
		if l.Kind != ledger.KindTask || l.ID != n.TaskID {
			continue
		}
		if statuses.Status(l.Marker) == n.Status {
			return nil
		}
		lines[i] = rewriteMarker(raw, l.Depth, marker)
		return store.Write(n.SourceFile, ledger.JoinDoc(lines))
	}
	return fmt.Errorf("%w: task %s not in %s", vault.ErrNotFound, n.TaskID, n.SourceFile)
}

// rewriteMarker swaps the single character inside the brackets in place.
func rewriteMarker(raw string, depth int, marker byte) string {
	pos := depth + len("- [")
	if pos >= len(raw) {
		return raw
	}
	return raw[:pos] + string(marker) + raw[pos+1:]
}

// Subtasks lists the checklist texts in the note's "## Subtasks" section.
func (n *Note) Subtasks() []string {
	var out []string
	inSection := false
	for _, raw := range ledger.SplitDoc(n.Body) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == subtasksHeading {
			inSection = true
			continue
		}
		if inSection && ledger.IsHeading(raw) {
			break
		}
		if !inSection {
			continue
		}
		if l := ledger.Parse(raw); l.Kind == ledger.KindTask {
			out = append(out, l.PlainText())
		}
	}
	return out
}

// MergeSubtasks unions the source's subtask texts into the note's checklist
// by case-insensitive match. It never deletes: note-only entries survive and
// are returned so the caller can mirror them back to the source. The second
// return reports whether the note body changed.
func (n *Note) MergeSubtasks(source []string) (noteOnly []string, changed bool) {
	existing := n.Subtasks()
	seen := map[string]bool{}
	for _, s := range existing {
		seen[strings.ToLower(s)] = true
	}
	var missing []string
	for _, s := range source {
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		missing = append(missing, s)
	}

	inSource := map[string]bool{}
	for _, s := range source {
		inSource[strings.ToLower(s)] = true
	}
	for _, s := range existing {
		if !inSource[strings.ToLower(s)] {
			noteOnly = append(noteOnly, s)
		}
	}
	if len(missing) == 0 {
		return noteOnly, false
	}

	lines := ledger.SplitDoc(n.Body)
	insert := -1
	for i, raw := range lines {
		if strings.TrimSpace(raw) == subtasksHeading {
			insert = i + 1
			for insert < len(lines) && !ledger.IsHeading(lines[insert]) {
				insert++
			}
			for insert > i+1 && strings.TrimSpace(lines[insert-1]) == "" {
				insert--
			}
			break
		}
	}
	var added []string
	for _, s := range missing {
		added = append(added, "- [ ] "+s)
	}
	if insert == -1 {
		lines = append(lines, "", subtasksHeading)
		lines = append(lines, added...)
	} else {
		lines = append(lines[:insert], append(added, lines[insert:]...)...)
	}
	n.Body = ledger.JoinDoc(lines)
	return noteOnly, true
}

// SyncSubtasks merges the subtask checklists of a task run in a daily note
// and its satellite note, both directions, without ever deleting an entry
// from either side.
func SyncSubtasks(store vault.Store, cfg vault.Config, sourcePath string, lineIdx int) error {
	doc, err := store.Read(sourcePath)
	if err != nil {
		return err
	}
	lines := ledger.SplitDoc(doc)
	if lineIdx < 0 || lineIdx >= len(lines) {
		return fmt.Errorf("%w: line %d out of range", vault.ErrInvalid, lineIdx)
	}
	parent := ledger.Parse(lines[lineIdx])
	if parent.Kind != ledger.KindTask || parent.Depth != 0 {
		return fmt.Errorf("%w: not a parent task line", vault.ErrInvalid)
	}

	var texts []string
	end := lineIdx + 1
	for end < len(lines) {
		sub := ledger.Parse(lines[end])
		if sub.Kind != ledger.KindTask || sub.Depth == 0 {
			break
		}
		texts = append(texts, sub.PlainText())
		end++
	}

	n, err := Find(store, cfg, parent.PlainText())
	if err != nil {
		return err
	}
	noteOnly, changed := n.MergeSubtasks(texts)
	if changed {
		if err := n.Save(store); err != nil {
			return err
		}
	}
	if len(noteOnly) == 0 {
		return nil
	}
	var extra []string
	for _, s := range noteOnly {
		sub := ledger.Line{
			Kind:   ledger.KindTask,
			Depth:  parent.Depth + 1,
			Marker: ledger.MarkerIncomplete,
			Text:   s,
			Parent: parent.ID,
		}
		extra = append(extra, sub.Render())
	}
	lines = append(lines[:end], append(extra, lines[end:]...)...)
	return store.Write(sourcePath, ledger.JoinDoc(lines))
}
