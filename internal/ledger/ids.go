package ledger

import (
	"crypto/rand"
	"strings"
)

const (
	DefaultIDPrefix = "t-"
	DefaultIDLength = 8
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns prefix followed by n random lowercase-alphanumeric
// characters, e.g. "t-ab12cd34".
func NewID(prefix string, n int) string {
	if n <= 0 {
		n = DefaultIDLength
	}
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return prefix + string(out)
}

// AssignIDs attaches a fresh id to every task line that lacks one. Calendar
// event lines are skipped. Existing ids are never reassigned. Generation
// re-rolls on collision with any id already present in the document; the
// residual cross-document collision risk (36^n space) is accepted.
func AssignIDs(doc, prefix string, n int) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultIDPrefix
	}
	lines := SplitDoc(doc)
	seen := map[string]bool{}
	for _, raw := range lines {
		if l := Parse(raw); l.ID != "" {
			seen[l.ID] = true
		}
	}
	for i, raw := range lines {
		l := Parse(raw)
		if l.Kind != KindTask || l.ID != "" {
			continue
		}
		id := NewID(prefix, n)
		for seen[id] {
			id = NewID(prefix, n)
		}
		seen[id] = true
		l.ID = id
		lines[i] = l.Render()
	}
	return JoinDoc(lines)
}
