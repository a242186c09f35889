// Package calfeed ingests external calendar events and renders them as
// read-only event lines in daily notes. The feed is a data source only:
// event lines are never written back to the calendar.
package calfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirbrooks/dayledger/internal/ledger"
)

// Event is one calendar entry for a given day. Times are "HH:MM"; all-day
// events have empty Start/End and render without a time block.
type Event struct {
	UID      string
	Calendar string
	Start    string
	End      string
	Summary  string
	Location string
	CallURL  string
}

// Source produces the events for one date.
type Source interface {
	EventsForDate(ctx context.Context, date string) ([]Event, error)
}

// Line renders the event in the checkbox grammar:
//
//	- [c] HH:MM - HH:MM Summary Location URL [uid::...] [calendar::...]
func (e Event) Line() string {
	var text strings.Builder
	if e.Start != "" && e.End != "" {
		fmt.Fprintf(&text, "%s - %s ", e.Start, e.End)
	}
	text.WriteString(strings.TrimSpace(e.Summary))
	if loc := strings.TrimSpace(e.Location); loc != "" {
		text.WriteString(" " + loc)
	}
	if u := strings.TrimSpace(e.CallURL); u != "" {
		text.WriteString(" " + u)
	}
	l := ledger.Line{
		Kind:     ledger.KindEvent,
		Marker:   ledger.MarkerEvent,
		Text:     text.String(),
		UID:      e.UID,
		Calendar: e.Calendar,
	}
	return l.Render()
}

// ensureUID backfills a feed entry that arrived without a stable identifier.
func ensureUID(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.NewString()
}

// SyncEvents upserts event lines into a daily note, keyed by uid: a line
// that already carries the uid is rewritten in place, new events are
// inserted above the first task line. Existing event lines whose uid is no
// longer in the feed are left alone; the feed never deletes.
func SyncEvents(doc string, events []Event) string {
	lines := ledger.SplitDoc(doc)
	pending := make(map[string]Event, len(events))
	var order []string
	for _, e := range events {
		if e.UID == "" {
			continue
		}
		if _, dup := pending[e.UID]; !dup {
			order = append(order, e.UID)
		}
		pending[e.UID] = e
	}

	firstTask := -1
	for i, raw := range lines {
		l := ledger.Parse(raw)
		if l.Kind == ledger.KindEvent && l.UID != "" {
			if e, ok := pending[l.UID]; ok {
				lines[i] = e.Line()
				delete(pending, l.UID)
			}
			continue
		}
		if l.Kind == ledger.KindTask && firstTask == -1 {
			firstTask = i
		}
	}

	var fresh []string
	for _, uid := range order {
		if e, ok := pending[uid]; ok {
			fresh = append(fresh, e.Line())
		}
	}
	if len(fresh) == 0 {
		return ledger.JoinDoc(lines)
	}
	if firstTask == -1 {
		out := trimTrailing(lines)
		out = append(out, fresh...)
		out = append(out, "")
		return ledger.JoinDoc(out)
	}
	out := append(append([]string{}, lines[:firstTask]...), append(fresh, lines[firstTask:]...)...)
	return ledger.JoinDoc(out)
}

func trimTrailing(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// clockOf formats an RFC3339 event timestamp as HH:MM in its own zone.
// All-day dates come back empty.
func clockOf(dateTime string) string {
	if dateTime == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, dateTime)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}
