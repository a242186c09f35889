package ledger

import (
	"strings"
	"testing"
)

func TestLinkParentsFillsEmptyField(t *testing.T) {
	doc := "- [ ] Groceries [id::t-ab12cd34]\n\t- [ ] Buy milk\n"
	want := "- [ ] Groceries [id::t-ab12cd34]\n\t- [ ] Buy milk [parent::t-ab12cd34]\n"
	if got := LinkParents(doc); got != want {
		t.Fatalf("LinkParents = %q, want %q", got, want)
	}
}

func TestLinkParentsNeverOverwrites(t *testing.T) {
	doc := "- [ ] A [id::t-aaaaaaaa]\n\t- [ ] sub [parent::t-bbbbbbbb]\n"
	if got := LinkParents(doc); got != doc {
		t.Fatalf("existing parent overwritten: %q", got)
	}
}

func TestLinkParentsStripsStrayTopLevelParent(t *testing.T) {
	doc := "- [ ] A [id::t-aaaaaaaa] [parent::t-bbbbbbbb]\n"
	got := LinkParents(doc)
	if strings.Contains(got, "parent::") {
		t.Fatalf("top-level parent tag must be stripped: %q", got)
	}
}

func TestLinkParentsHeadingResetsScope(t *testing.T) {
	doc := "- [ ] A [id::t-aaaaaaaa]\n## Later\n\t- [ ] orphan\n"
	got := LinkParents(doc)
	if strings.Contains(got, "parent::") {
		t.Fatalf("subtask must not attach across a heading: %q", got)
	}
}

func TestLinkParentsOrphanLeftAlone(t *testing.T) {
	doc := "\t- [ ] floating subtask\n- [ ] A [id::t-aaaaaaaa]\n"
	got := LinkParents(doc)
	if strings.Contains(got, "parent::") {
		t.Fatalf("orphan with no preceding parent must stay unlinked: %q", got)
	}
}

func TestLinkParentsIdempotent(t *testing.T) {
	doc := "- [ ] A [id::t-aaaaaaaa]\n\t- [ ] one\n\t- [/] two\n- [ ] B [id::t-bbbbbbbb]\n\t- [ ] three\n"
	once := LinkParents(doc)
	if twice := LinkParents(once); twice != once {
		t.Fatalf("LinkParents not idempotent:\n%q\n%q", once, twice)
	}
}
