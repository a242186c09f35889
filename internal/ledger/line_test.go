package ledger

import "testing"

func TestParseTaskLine(t *testing.T) {
	l := Parse("\t- [x] 09:00 - 10:00 Review notes [id::t-ab12cd34] [parent::t-ef56gh78]")
	if l.Kind != KindTask {
		t.Fatalf("expected task, got kind %d", l.Kind)
	}
	if l.Depth != 1 || l.Marker != 'x' {
		t.Fatalf("unexpected depth/marker: %d %q", l.Depth, string(l.Marker))
	}
	if l.Text != "09:00 - 10:00 Review notes" {
		t.Fatalf("unexpected text %q", l.Text)
	}
	if l.ID != "t-ab12cd34" || l.Parent != "t-ef56gh78" {
		t.Fatalf("unexpected tags: id=%q parent=%q", l.ID, l.Parent)
	}
}

func TestParsePlainLinePassesThrough(t *testing.T) {
	for _, raw := range []string{"# Heading", "just text", "", "- not a checkbox"} {
		l := Parse(raw)
		if l.Kind != KindPlain {
			t.Fatalf("expected %q to be plain", raw)
		}
		if got := l.Render(); got != raw {
			t.Fatalf("plain line changed: %q -> %q", raw, got)
		}
	}
}

func TestParseCalendarEvent(t *testing.T) {
	l := Parse("- [c] 09:00 - 09:30 Standup Room 4 [uid::ev-1] [calendar::work]")
	if l.Kind != KindEvent {
		t.Fatalf("expected event, got kind %d", l.Kind)
	}
	if l.UID != "ev-1" || l.Calendar != "work" {
		t.Fatalf("unexpected uid/calendar: %q %q", l.UID, l.Calendar)
	}
}

func TestNormalizeCanonicalOrder(t *testing.T) {
	in := "- [ ] Buy [> 2025-02-01] milk [id::t-aa11bb22]"
	want := "- [ ] Buy milk [id::t-aa11bb22] [> 2025-02-01]"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
	if got := Normalize(want); got != want {
		t.Fatalf("Normalize not idempotent: %q", got)
	}
}

func TestNormalizeLegacyDialects(t *testing.T) {
	in := "- [>] Call bank [sch_to::2025-02-01] [id::t-aa11bb22] [sch_from::2025-01-20]"
	want := "- [>] Call bank [id::t-aa11bb22] [< 2025-01-20] [> 2025-02-01]"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestDuplicateTagsCollapse(t *testing.T) {
	in := "- [ ] Pay rent [> 2025-02-01] [> 2025-03-01] [id::t-aa11bb22]"
	l := Parse(in)
	if l.ScheduleTo != "2025-02-01" {
		t.Fatalf("expected first tag to win, got %q", l.ScheduleTo)
	}
	want := "- [ ] Pay rent [id::t-aa11bb22] [> 2025-02-01]"
	if got := l.Render(); got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestCompletedMarkers(t *testing.T) {
	cases := map[string]bool{
		"- [ ] a": false,
		"- [/] a": false,
		"- [x] a": true,
		"- [X] a": true,
		"- [-] a": true,
		"- [>] a": true,
	}
	for raw, want := range cases {
		if got := Parse(raw).Completed(); got != want {
			t.Fatalf("Completed(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestTimeKey(t *testing.T) {
	timed := Parse("- [ ] 09:30 - 10:15 Sync").TimeKey()
	if !timed.HasTime || timed.Start != 9*60+30 || timed.End != 10*60+15 {
		t.Fatalf("unexpected key %#v", timed)
	}
	untimed := Parse("- [ ] Sync at some point").TimeKey()
	if untimed.HasTime {
		t.Fatalf("expected untimed, got %#v", untimed)
	}
	if !timed.Less(untimed) {
		t.Fatalf("timed lines must sort before untimed lines")
	}
}

func TestStripTimeBlock(t *testing.T) {
	l := Parse("- [ ] 09:00 - 10:00 Plan week [id::t-aa11bb22]").StripTimeBlock()
	if got := l.Render(); got != "- [ ] Plan week [id::t-aa11bb22]" {
		t.Fatalf("StripTimeBlock render = %q", got)
	}
}

func TestScheduledEitherSignal(t *testing.T) {
	if !Parse("- [>] moved").Scheduled() {
		t.Fatalf("marker '>' should count as scheduled")
	}
	if !Parse("- [ ] moved [> 2025-02-01]").Scheduled() {
		t.Fatalf("a schedule-to tag should count as scheduled")
	}
	if Parse("- [ ] here").Scheduled() {
		t.Fatalf("plain incomplete task is not scheduled")
	}
}
