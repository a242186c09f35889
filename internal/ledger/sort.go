package ledger

import (
	"sort"
	"strings"
)

const completedHeading = "## Completed"

// group is a parent task or event line plus the subtask lines attributed to
// it. Groups move as a unit when the document is reordered.
type group struct {
	head  Line
	lines []string
}

// collectGroups walks raw lines and separates task/event groups from the
// surrounding plain text. Plain lines before the first group land in pre;
// plain lines between groups land in mid (they get hoisted, a documented
// limitation of the sorter); everything after the last group lands in post.
//
// Attribution is primary by [parent::] match, with plain adjacency as the
// legacy fallback for subtasks carrying no parent tag at all. A subtask
// whose parent tag points at an earlier group is reattached there.
func collectGroups(lines []string) (pre, mid, post []string, groups []group) {
	byID := map[string]int{}
	var pending []string
	i := 0
	for i < len(lines) {
		l := Parse(lines[i])
		starts := l.Depth == 0 && (l.Kind == KindTask || l.Kind == KindEvent)
		if !starts {
			pending = append(pending, lines[i])
			i++
			continue
		}
		if len(groups) == 0 {
			pre = pending
		} else {
			mid = append(mid, pending...)
		}
		pending = nil
		g := group{head: l, lines: []string{lines[i]}}
		groups = append(groups, g)
		gi := len(groups) - 1
		if l.ID != "" {
			byID[l.ID] = gi
		}
		i++
		for i < len(lines) {
			sub := Parse(lines[i])
			if sub.Kind == KindPlain || sub.Depth == 0 {
				break
			}
			if sub.Parent != "" && sub.Parent != l.ID {
				if oi, ok := byID[sub.Parent]; ok {
					groups[oi].lines = append(groups[oi].lines, lines[i])
					i++
					continue
				}
			}
			groups[gi].lines = append(groups[gi].lines, lines[i])
			i++
		}
	}
	post = pending
	return pre, mid, post, groups
}

func sortGroupsByTime(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].head.TimeKey().Less(groups[j].head.TimeKey())
	})
}

func appendGroups(out []string, groups []group) []string {
	for _, g := range groups {
		out = append(out, g.lines...)
	}
	return out
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func trimTrailingBlanks(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitCompleted carves out an existing "## Completed" section: the lines
// after the marker heading up to the next heading are previously-collected
// groups, parsed like any others. Whatever follows that next heading is
// trailing content.
func splitCompleted(lines []string) (main, region, rest []string) {
	for i, raw := range lines {
		if strings.TrimSpace(raw) != completedHeading {
			continue
		}
		j := i + 1
		for j < len(lines) && !IsHeading(lines[j]) {
			j++
		}
		return lines[:i], lines[i+1 : j], lines[j:]
	}
	return lines, nil, nil
}

// SortByTime reorders a document's task groups chronologically: timed groups
// first by (start, end), untimed groups after in their original order, with
// completed groups re-collected under a trailing "## Completed" heading no
// matter where they appeared. Plain lines interleaved between groups are
// hoisted after the task block rather than kept in place.
func SortByTime(doc string) string {
	lines := SplitDoc(doc)
	endsBlank := len(lines) > 0 && lines[len(lines)-1] == ""

	main, region, rest := splitCompleted(lines)
	pre, mid, post, groups := collectGroups(main)
	rPre, rMid, rPost, rGroups := collectGroups(region)
	groups = append(groups, rGroups...)

	var incomplete, completed []group
	for _, g := range groups {
		if g.head.Completed() {
			completed = append(completed, g)
		} else {
			incomplete = append(incomplete, g)
		}
	}
	sortGroupsByTime(incomplete)
	sortGroupsByTime(completed)

	out := append([]string{}, pre...)
	out = appendGroups(out, incomplete)
	out = append(out, nonBlank(mid)...)
	out = append(out, post...)
	out = append(out, nonBlank(rPre)...)
	out = append(out, nonBlank(rMid)...)
	out = append(out, rPost...)
	out = append(out, rest...)
	out = trimTrailingBlanks(out)

	if len(completed) > 0 {
		out = append(out, "", completedHeading)
		out = appendGroups(out, completed)
	}
	out = trimTrailingBlanks(out)
	if endsBlank {
		out = append(out, "")
	}
	return JoinDoc(out)
}

// SortByTimeBlock produces the flatter view: every group with a recognized
// time block sorted purely by (start, end), a blank separator, then every
// untimed group in original order. A trailing archive callout is excluded
// from sorting and re-appended unchanged.
func SortByTimeBlock(doc string) string {
	lines := SplitDoc(doc)
	endsBlank := len(lines) > 0 && lines[len(lines)-1] == ""

	work, tail := splitArchiveSection(lines)
	pre, mid, post, groups := collectGroups(work)

	var timed, rest []group
	for _, g := range groups {
		if g.head.TimeKey().HasTime {
			timed = append(timed, g)
		} else {
			rest = append(rest, g)
		}
	}
	sortGroupsByTime(timed)

	out := append([]string{}, pre...)
	out = appendGroups(out, timed)
	if len(timed) > 0 && len(rest) > 0 {
		out = append(out, "")
	}
	out = appendGroups(out, rest)
	out = append(out, nonBlank(mid)...)
	out = append(out, post...)

	if len(tail) > 0 {
		out = trimTrailingBlanks(out)
		out = append(out, tail...)
		return JoinDoc(out)
	}
	out = trimTrailingBlanks(out)
	if endsBlank {
		out = append(out, "")
	}
	return JoinDoc(out)
}
