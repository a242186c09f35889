// Package ledger implements the pure text transforms over daily-note
// documents: the task line grammar, ID assignment, parent linking,
// chronological sorting and archival. Nothing in this package does I/O;
// every transform is text in, text out, and idempotent.
package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a parsed line.
type Kind int

const (
	KindPlain Kind = iota
	KindTask
	KindEvent
)

// Checkbox markers. Marker 'c' denotes a calendar event line, which shares
// the checkbox syntax but is excluded from task workflows.
const (
	MarkerIncomplete = ' '
	MarkerComplete   = 'x'
	MarkerCancelled  = '-'
	MarkerScheduled  = '>'
	MarkerInProgress = '/'
	MarkerEvent      = 'c'
)

var (
	taskRe     = regexp.MustCompile(`^(\t*)- \[(.)\] ?(.*)$`)
	headingRe  = regexp.MustCompile(`^#`)
	idTagRe    = regexp.MustCompile(` ?\[id::([^\]\s]+)\]`)
	parentRe   = regexp.MustCompile(` ?\[parent::([^\]\s]+)\]`)
	uidTagRe   = regexp.MustCompile(` ?\[uid::([^\]\s]+)\]`)
	calTagRe   = regexp.MustCompile(` ?\[calendar::([^\]]+)\]`)
	schedToRe  = regexp.MustCompile(` ?\[> (\d{4}-\d{2}-\d{2})\]`)
	schedFromRe = regexp.MustCompile(` ?\[< (\d{4}-\d{2}-\d{2})\]`)
	timeBlockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}) - (\d{1,2}):(\d{2})\s*`)
)

// Historical tag spellings accepted on read and rewritten canonically.
var legacyDialects = []struct {
	re    *regexp.Regexp
	apply func(l *Line, v string)
}{
	{regexp.MustCompile(` ?\[sch_to::(\d{4}-\d{2}-\d{2})\]`), func(l *Line, v string) {
		if l.ScheduleTo == "" {
			l.ScheduleTo = v
		}
	}},
	{regexp.MustCompile(` ?\[sch_from::(\d{4}-\d{2}-\d{2})\]`), func(l *Line, v string) {
		if l.ScheduleFrom == "" {
			l.ScheduleFrom = v
		}
	}},
}

// Line is the parsed form of one document line. For KindPlain only Raw is
// meaningful; Render returns Raw unchanged so untouched lines survive
// byte-for-byte.
type Line struct {
	Kind Kind
	Raw  string

	Depth  int
	Marker byte
	Text   string // free text with all tags stripped; may start with a time block

	ID           string
	Parent       string
	UID          string
	Calendar     string
	ScheduleFrom string // YYYY-MM-DD
	ScheduleTo   string // YYYY-MM-DD
}

// Parse classifies a raw line. Lines that do not match the checkbox grammar
// come back as KindPlain and are never modified by any transform.
func Parse(raw string) Line {
	m := taskRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{Kind: KindPlain, Raw: raw}
	}
	l := Line{Kind: KindTask, Raw: raw, Depth: len(m[1]), Marker: m[2][0]}
	if l.Marker == MarkerEvent {
		l.Kind = KindEvent
	}
	rest := m[3]
	rest = extractTag(rest, idTagRe, &l.ID)
	rest = extractTag(rest, parentRe, &l.Parent)
	rest = extractTag(rest, uidTagRe, &l.UID)
	rest = extractTag(rest, calTagRe, &l.Calendar)
	rest = extractTag(rest, schedToRe, &l.ScheduleTo)
	rest = extractTag(rest, schedFromRe, &l.ScheduleFrom)
	for _, d := range legacyDialects {
		if dm := d.re.FindStringSubmatch(rest); dm != nil {
			d.apply(&l, dm[1])
			rest = d.re.ReplaceAllString(rest, "")
		}
	}
	l.Text = strings.TrimRight(rest, " \t")
	return l
}

// extractTag records the first captured value and strips every occurrence,
// so duplicate tags collapse to one on the next render.
func extractTag(s string, re *regexp.Regexp, dst *string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	if *dst == "" {
		*dst = m[1]
	}
	return re.ReplaceAllString(s, "")
}

// Render serializes the line with tags in the canonical order: text, id,
// parent, uid, calendar, schedule-from, schedule-to. The fixed order keeps
// diffs reproducible no matter how a user scrambled the tags by hand.
func (l Line) Render() string {
	if l.Kind == KindPlain {
		return l.Raw
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("\t", l.Depth))
	b.WriteString("- [")
	b.WriteByte(l.Marker)
	b.WriteString("]")
	if text := strings.TrimRight(l.Text, " \t"); text != "" {
		b.WriteString(" ")
		b.WriteString(text)
	}
	if l.ID != "" {
		fmt.Fprintf(&b, " [id::%s]", l.ID)
	}
	if l.Parent != "" {
		fmt.Fprintf(&b, " [parent::%s]", l.Parent)
	}
	if l.UID != "" {
		fmt.Fprintf(&b, " [uid::%s]", l.UID)
	}
	if l.Calendar != "" {
		fmt.Fprintf(&b, " [calendar::%s]", l.Calendar)
	}
	if l.ScheduleFrom != "" {
		fmt.Fprintf(&b, " [< %s]", l.ScheduleFrom)
	}
	if l.ScheduleTo != "" {
		fmt.Fprintf(&b, " [> %s]", l.ScheduleTo)
	}
	return b.String()
}

// IsTask reports whether the raw line matches the checkbox grammar. Note
// this also matches calendar-event lines; callers needing task-only
// semantics check the kind after Parse.
func IsTask(raw string) bool { return taskRe.MatchString(raw) }

func IsHeading(raw string) bool { return headingRe.MatchString(raw) }

func (l Line) IsSubtask() bool { return l.Kind == KindTask && l.Depth >= 1 }

func (l Line) IsParentTask() bool { return l.Kind == KindTask && l.Depth == 0 }

// Completed reports whether the marker is terminal for sorting and archival
// purposes. Marker '>' (scheduled away) counts as completed here even though
// the task is not done; scheduled-away tasks should not clutter the active
// chronological list.
func (l Line) Completed() bool {
	switch l.Marker {
	case MarkerComplete, 'X', MarkerCancelled, MarkerScheduled:
		return true
	}
	return false
}

// Scheduled reports whether the line has been moved to another document.
// Either signal suffices: the marker and the pointer tag are kept in step by
// the scheduler, but manual edits can drop one of them.
func (l Line) Scheduled() bool {
	return l.Marker == MarkerScheduled || l.ScheduleTo != ""
}

// Normalize repairs a single line: known tags are stripped from wherever a
// manual edit left them and re-appended in the canonical order. Non-task
// lines pass through untouched.
func Normalize(raw string) string {
	return Parse(raw).Render()
}

// untimed sorts after every real clock value.
const untimed = 1 << 30

// TimeKey is the sort key derived from an optional leading HH:MM - HH:MM
// block. Untimed lines share one key and rely on stable sorting to keep
// their original relative order.
type TimeKey struct {
	HasTime bool
	Start   int // minutes since midnight
	End     int
}

func (l Line) TimeKey() TimeKey {
	m := timeBlockRe.FindStringSubmatch(l.Text)
	if m == nil {
		return TimeKey{Start: untimed, End: untimed}
	}
	sh, _ := strconv.Atoi(m[1])
	sm, _ := strconv.Atoi(m[2])
	eh, _ := strconv.Atoi(m[3])
	em, _ := strconv.Atoi(m[4])
	return TimeKey{HasTime: true, Start: sh*60 + sm, End: eh*60 + em}
}

func (k TimeKey) Less(o TimeKey) bool {
	if k.HasTime != o.HasTime {
		return k.HasTime
	}
	if k.Start != o.Start {
		return k.Start < o.Start
	}
	return k.End < o.End
}

// StripTimeBlock removes a leading time block from the text, if present.
func (l Line) StripTimeBlock() Line {
	l.Text = timeBlockRe.ReplaceAllString(l.Text, "")
	return l
}

// PlainText is the task text without any leading time block, used when a
// stable human-readable identity is needed (satellite note filenames).
func (l Line) PlainText() string {
	return strings.TrimSpace(timeBlockRe.ReplaceAllString(l.Text, ""))
}

// SplitDoc normalizes line endings and splits a whole document. JoinDoc is
// its inverse; together they guarantee transforms never invent or lose
// newlines.
func SplitDoc(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")
	return strings.Split(doc, "\n")
}

func JoinDoc(lines []string) string {
	return strings.Join(lines, "\n")
}
