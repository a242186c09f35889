package ledger

import (
	"strings"
	"testing"
)

const sortInput = "# 2025-03-01\n" +
	"\n" +
	"- [ ] 10:00 - 11:00 Plan [id::t-aaaaaa01]\n" +
	"- [x] 08:00 - 08:30 Gym [id::t-aaaaaa02]\n" +
	"- [ ] Untimed one [id::t-aaaaaa03]\n" +
	"- [ ] 09:00 - 09:30 Mail [id::t-aaaaaa04]\n" +
	"\t- [ ] Reply to Dana [parent::t-aaaaaa04]\n" +
	"- [ ] Untimed two [id::t-aaaaaa05]\n"

func TestSortByTimeOrdering(t *testing.T) {
	got := SortByTime(sortInput)
	want := "# 2025-03-01\n" +
		"\n" +
		"- [ ] 09:00 - 09:30 Mail [id::t-aaaaaa04]\n" +
		"\t- [ ] Reply to Dana [parent::t-aaaaaa04]\n" +
		"- [ ] 10:00 - 11:00 Plan [id::t-aaaaaa01]\n" +
		"- [ ] Untimed one [id::t-aaaaaa03]\n" +
		"- [ ] Untimed two [id::t-aaaaaa05]\n" +
		"\n" +
		"## Completed\n" +
		"- [x] 08:00 - 08:30 Gym [id::t-aaaaaa02]\n"
	if got != want {
		t.Fatalf("SortByTime =\n%q\nwant\n%q", got, want)
	}
}

func TestSortByTimeIdempotent(t *testing.T) {
	once := SortByTime(sortInput)
	if twice := SortByTime(once); twice != once {
		t.Fatalf("SortByTime not idempotent:\n%q\n%q", once, twice)
	}
}

func TestSortByTimeRecollectsCompletedSection(t *testing.T) {
	doc := "- [ ] 10:00 - 10:30 A [id::t-aaaaaa01]\n" +
		"\n" +
		"## Completed\n" +
		"- [x] 09:00 - 09:15 B [id::t-aaaaaa02]\n" +
		"- [x] 08:00 - 08:15 C [id::t-aaaaaa03]\n"
	got := SortByTime(doc)
	bi := strings.Index(got, "B [id")
	ci := strings.Index(got, "C [id")
	if bi == -1 || ci == -1 || ci > bi {
		t.Fatalf("completed groups not re-sorted by time:\n%q", got)
	}
	if !strings.Contains(got, "\n## Completed\n") {
		t.Fatalf("missing completed heading:\n%q", got)
	}
}

func TestSortByTimeScheduledCountsAsCompleted(t *testing.T) {
	doc := "- [>] Moved away [id::t-aaaaaa01] [> 2025-03-02]\n- [ ] Here [id::t-aaaaaa02]\n"
	got := SortByTime(doc)
	hi := strings.Index(got, "Here")
	ci := strings.Index(got, "## Completed")
	mi := strings.Index(got, "Moved away")
	if !(hi < ci && ci < mi) {
		t.Fatalf("scheduled-away task must land under Completed:\n%q", got)
	}
}

func TestSortByTimeBlockFlatView(t *testing.T) {
	doc := "- [ ] Untimed [id::t-aaaaaa01]\n" +
		"- [ ] 11:00 - 11:30 Late [id::t-aaaaaa02]\n" +
		"- [c] 09:00 - 09:30 Standup [uid::ev-1] [calendar::work]\n"
	got := SortByTimeBlock(doc)
	want := "- [c] 09:00 - 09:30 Standup [uid::ev-1] [calendar::work]\n" +
		"- [ ] 11:00 - 11:30 Late [id::t-aaaaaa02]\n" +
		"\n" +
		"- [ ] Untimed [id::t-aaaaaa01]\n"
	if got != want {
		t.Fatalf("SortByTimeBlock =\n%q\nwant\n%q", got, want)
	}
	if twice := SortByTimeBlock(got); twice != got {
		t.Fatalf("SortByTimeBlock not idempotent:\n%q\n%q", got, twice)
	}
}

func TestSortByTimeBlockKeepsArchiveSection(t *testing.T) {
	tail := "\n\n\n\n\n\n\n> [!archived]- Archived\n> - [x] Old [id::t-aaaaaa09]\n"
	doc := "- [ ] 11:00 - 11:30 Late [id::t-aaaaaa02]\n- [ ] 09:00 - 09:30 Early [id::t-aaaaaa01]\n" + tail
	got := SortByTimeBlock(doc)
	if !strings.HasSuffix(got, tail) {
		t.Fatalf("archive section must be re-appended unchanged:\n%q", got)
	}
	if !strings.Contains(got, "Early [id::t-aaaaaa01]\n- [ ] 11:00 - 11:30 Late") {
		t.Fatalf("working region not sorted:\n%q", got)
	}
}
