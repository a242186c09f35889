// Package schedule implements the task movement protocol: relocating a
// task's live copy between two daily notes while leaving a breadcrumb in the
// source and keeping the two-sided pointer tags, subtask run and satellite
// note consistent. The task id is the join key between documents; the live
// copy is wherever the line does not carry the '>' marker.
package schedule

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/amirbrooks/dayledger/internal/ledger"
	"github.com/amirbrooks/dayledger/internal/tasknote"
	"github.com/amirbrooks/dayledger/internal/vault"
)

type Scheduler struct {
	Store vault.Store
	Cfg   vault.Config

	// Notices receives user-facing messages for operations that degraded
	// rather than failed, such as an unschedule whose forward copy was
	// already gone. Nil means log-only.
	Notices io.Writer
}

func New(store vault.Store, cfg vault.Config) *Scheduler {
	return &Scheduler{Store: store, Cfg: cfg}
}

func (s *Scheduler) notice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg)
	if s.Notices != nil {
		fmt.Fprintln(s.Notices, "notice: "+msg)
	}
}

// Schedule moves the task at lineIdx of sourcePath to the daily note for
// targetDate. Re-scheduling to the same date is a no-op; bouncing a task
// through a previously-visited date revives the existing line there rather
// than appending a copy, so at most one live copy exists across all visited
// documents.
func (s *Scheduler) Schedule(sourcePath string, lineIdx int, targetDate string) error {
	if _, err := time.Parse("2006-01-02", targetDate); err != nil {
		return fmt.Errorf("%w: bad target date %q", vault.ErrInvalid, targetDate)
	}
	doc, err := s.Store.Read(sourcePath)
	if err != nil {
		return err
	}
	lines := ledger.SplitDoc(doc)
	if lineIdx < 0 || lineIdx >= len(lines) {
		return fmt.Errorf("%w: line %d out of range", vault.ErrInvalid, lineIdx)
	}
	src := ledger.Parse(lines[lineIdx])
	if src.Kind != ledger.KindTask {
		return fmt.Errorf("%w: not a task line", vault.ErrInvalid)
	}
	if src.ScheduleTo == targetDate {
		return nil
	}
	if src.ID == "" {
		// The id is the join key; a task cannot move without one.
		src.ID = ledger.NewID(s.Cfg.IDPrefix, s.Cfg.IDLength)
	}

	fromDate, ok := vault.DateOf(sourcePath)
	if !ok {
		fromDate = vault.Today()
	}

	targetPath := vault.DailyPath(s.Cfg, targetDate)
	// Moving a task onto its own document would clobber the fresh live copy
	// with the stale source buffer, leaving only a breadcrumb behind.
	if targetPath == sourcePath {
		return fmt.Errorf("%w: task already lives on %s", vault.ErrInvalid, targetDate)
	}
	targetDoc, err := s.ensureTarget(targetPath, targetDate)
	if err != nil {
		return err
	}
	targetDoc = upsertTarget(targetDoc, src, fromDate)
	if err := s.Store.Write(targetPath, targetDoc); err != nil {
		return err
	}

	// Source line becomes the breadcrumb: marker '>', no time slot held
	// here anymore, one forward pointer.
	crumb := src.StripTimeBlock()
	crumb.Marker = ledger.MarkerScheduled
	crumb.ScheduleFrom = ""
	crumb.ScheduleTo = targetDate
	lines[lineIdx] = crumb.Render()
	markSubtaskRun(lines, lineIdx, ledger.MarkerScheduled)
	if err := s.Store.Write(sourcePath, ledger.JoinDoc(lines)); err != nil {
		return err
	}

	s.repointNote(src, targetPath, targetDate)
	return nil
}

func (s *Scheduler) ensureTarget(targetPath, targetDate string) (string, error) {
	if s.Store.Exists(targetPath) {
		return s.Store.Read(targetPath)
	}
	if err := s.Store.CreateFolder(s.Cfg.DailyDir); err != nil {
		return "", err
	}
	doc := "# " + targetDate + "\n"
	if err := s.Store.Create(targetPath, doc); err != nil {
		return "", err
	}
	return doc, nil
}

// upsertTarget revives an existing line with the same id, or appends a fresh
// copy. Either way the target holds exactly one line for the task: marker
// reset to incomplete, stale pointers stripped, provenance recorded.
func upsertTarget(doc string, src ledger.Line, fromDate string) string {
	lines := ledger.SplitDoc(doc)
	for i, raw := range lines {
		l := ledger.Parse(raw)
		if l.Kind != ledger.KindTask || l.ID != src.ID {
			continue
		}
		l.Marker = ledger.MarkerIncomplete
		l.ScheduleTo = ""
		l.ScheduleFrom = fromDate
		lines[i] = l.Render()
		return ledger.JoinDoc(lines)
	}
	copyLine := src
	copyLine.Marker = ledger.MarkerIncomplete
	copyLine.ScheduleTo = ""
	copyLine.ScheduleFrom = fromDate
	copyLine.Parent = "" // relinked independently at the target
	return appendLine(lines, copyLine.Render())
}

func appendLine(lines []string, line string) string {
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = append(lines[:n-1], line, "")
	} else {
		lines = append(lines, line)
	}
	return ledger.JoinDoc(lines)
}

// markSubtaskRun drags the contiguous subtask run after lineIdx into the
// given marker state, so a scheduled parent leaves no dangling actionable
// subtasks behind.
func markSubtaskRun(lines []string, lineIdx int, marker byte) {
	for j := lineIdx + 1; j < len(lines); j++ {
		sub := ledger.Parse(lines[j])
		if sub.Kind != ledger.KindTask || sub.Depth == 0 {
			return
		}
		sub.Marker = marker
		if marker == ledger.MarkerIncomplete {
			sub.ScheduleTo = ""
			sub.ScheduleFrom = ""
		}
		lines[j] = sub.Render()
	}
}

// Unschedule reverses a schedule: the breadcrumb at lineIdx becomes live
// again and the forward copy in the target document is deleted together
// with its subtask run. A missing target or copy degrades to a notice, not
// an error; the local reset still applies.
func (s *Scheduler) Unschedule(sourcePath string, lineIdx int) error {
	doc, err := s.Store.Read(sourcePath)
	if err != nil {
		return err
	}
	lines := ledger.SplitDoc(doc)
	if lineIdx < 0 || lineIdx >= len(lines) {
		return fmt.Errorf("%w: line %d out of range", vault.ErrInvalid, lineIdx)
	}
	src := ledger.Parse(lines[lineIdx])
	if src.Kind != ledger.KindTask || !src.Scheduled() {
		return fmt.Errorf("%w: line is not scheduled away", vault.ErrInvalid)
	}

	toDate := src.ScheduleTo
	live := src
	live.Marker = ledger.MarkerIncomplete
	live.ScheduleTo = ""
	live.ScheduleFrom = ""
	lines[lineIdx] = live.Render()
	markSubtaskRun(lines, lineIdx, ledger.MarkerIncomplete)

	if toDate != "" && src.ID != "" {
		if err := s.removeForwardCopy(toDate, src.ID); err != nil {
			s.notice("could not remove the copy of %s from %s: %v", src.ID, toDate, err)
		}
	}
	if err := s.Store.Write(sourcePath, ledger.JoinDoc(lines)); err != nil {
		return err
	}

	fromDate, ok := vault.DateOf(sourcePath)
	if !ok {
		fromDate = vault.Today()
	}
	s.repointNote(src, sourcePath, fromDate)
	return nil
}

func (s *Scheduler) removeForwardCopy(toDate, id string) error {
	targetPath := vault.DailyPath(s.Cfg, toDate)
	if !s.Store.Exists(targetPath) {
		return fmt.Errorf("%w: %s", vault.ErrNotFound, targetPath)
	}
	doc, err := s.Store.Read(targetPath)
	if err != nil {
		return err
	}
	lines := ledger.SplitDoc(doc)
	idx := -1
	for i, raw := range lines {
		if l := ledger.Parse(raw); l.Kind == ledger.KindTask && l.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: task %s not in %s", vault.ErrNotFound, id, targetPath)
	}
	end := idx + 1
	for end < len(lines) {
		sub := ledger.Parse(lines[end])
		if sub.Kind != ledger.KindTask || sub.Depth == 0 {
			break
		}
		end++
	}
	out := append(append([]string{}, lines[:idx]...), lines[end:]...)
	return s.Store.Write(targetPath, collapseBlankRuns(out))
}

// collapseBlankRuns squeezes runs of blank lines left behind by a deletion
// down to at most one.
func collapseBlankRuns(lines []string) string {
	var out []string
	blank := false
	for _, raw := range lines {
		isBlank := strings.TrimSpace(raw) == ""
		if isBlank && blank {
			continue
		}
		blank = isBlank
		out = append(out, raw)
	}
	return ledger.JoinDoc(out)
}

// repointNote keeps the satellite note tracking the live copy. No note is
// fine; tasks are not required to have one.
func (s *Scheduler) repointNote(src ledger.Line, sourceFile, date string) {
	n, err := tasknote.Find(s.Store, s.Cfg, src.PlainText())
	if err != nil {
		return
	}
	n.Repoint(sourceFile, date)
	if err := n.Save(s.Store); err != nil {
		slog.Warn("could not update task note", "note", n.Path, "err", err)
	}
}
