package ledger

import (
	"regexp"
	"strings"
	"testing"
)

var idShapeRe = regexp.MustCompile(`\[id::t-[a-z0-9]{8}\]`)

func TestAssignIDsShapeAndStability(t *testing.T) {
	doc := "# 2025-03-01\n\n- [ ] Alpha\n- [ ] Beta [id::t-keepme00]\n\t- [ ] Gamma\n"
	out := AssignIDs(doc, DefaultIDPrefix, DefaultIDLength)

	if !strings.Contains(out, "[id::t-keepme00]") {
		t.Fatalf("existing id must survive: %q", out)
	}
	lines := SplitDoc(out)
	for _, raw := range lines {
		l := Parse(raw)
		if l.Kind != KindTask {
			continue
		}
		if l.ID == "" {
			t.Fatalf("task left without id: %q", raw)
		}
		if l.ID != "t-keepme00" && !idShapeRe.MatchString(raw) {
			t.Fatalf("generated id has wrong shape: %q", raw)
		}
	}

	// Second pass assigns nothing new.
	if again := AssignIDs(out, DefaultIDPrefix, DefaultIDLength); again != out {
		t.Fatalf("AssignIDs not idempotent:\n%q\n%q", out, again)
	}
}

func TestAssignIDsSkipsCalendarEvents(t *testing.T) {
	doc := "- [c] 09:00 - 09:30 Standup [uid::ev-1] [calendar::work]\n"
	out := AssignIDs(doc, DefaultIDPrefix, DefaultIDLength)
	if out != doc {
		t.Fatalf("calendar lines must not get ids: %q", out)
	}
}

func TestAssignIDsUniqueWithinDocument(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("- [ ] task\n")
	}
	out := AssignIDs(b.String(), DefaultIDPrefix, DefaultIDLength)
	seen := map[string]bool{}
	for _, raw := range SplitDoc(out) {
		l := Parse(raw)
		if l.Kind != KindTask {
			continue
		}
		if seen[l.ID] {
			t.Fatalf("duplicate id %q", l.ID)
		}
		seen[l.ID] = true
	}
}
