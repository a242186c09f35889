package ledger

import "strings"

const (
	archiveCallout = "> [!archived]- Archived"
	archivePrefix  = "> "

	// Blank lines between the active area and the archive callout.
	archiveSeparator = 7
)

// splitArchiveSection finds a trailing archive callout and returns the
// working region plus the section, including the blank run that separates
// them.
func splitArchiveSection(lines []string) (work, tail []string) {
	for i, raw := range lines {
		if !strings.HasPrefix(strings.TrimSpace(raw), "> [!archived]") {
			continue
		}
		start := i
		for start > 0 && strings.TrimSpace(lines[start-1]) == "" {
			start--
		}
		return lines[:start], lines[start:]
	}
	return lines, nil
}

// unwrapArchive strips the blockquote prefix from a previously-archived
// section, recovering the original task lines. Blank quote lines are
// dropped; entries are not de-duplicated against anything. Lines without
// the quote prefix were appended below the callout by hand and are not part
// of the archive: they come back separately so the caller can classify them
// like any other working line.
func unwrapArchive(tail []string) (pool, loose []string) {
	for _, raw := range tail {
		t := strings.TrimSpace(raw)
		if t == "" || t == ">" || strings.HasPrefix(t, "> [!archived]") {
			continue
		}
		if strings.HasPrefix(raw, archivePrefix) {
			pool = append(pool, strings.TrimPrefix(raw, archivePrefix))
			continue
		}
		loose = append(loose, raw)
	}
	return pool, loose
}

// Archive relocates terminal-state task runs into a trailing collapsed
// callout. Calendar events are pinned at the top in original order; tasks
// with marker ' ' or '/' stay in the active area along with the plain lines
// interleaved with them; runs with marker x/X/-/> move (with their
// contiguous subtasks) below the separator. An existing archive section is
// unwrapped first and its contents keep their place at the head of the pool,
// which makes re-running the transform a no-op when nothing new qualified.
func Archive(doc string) string {
	lines := SplitDoc(doc)
	endsBlank := len(lines) > 0 && lines[len(lines)-1] == ""

	work, tail := splitArchiveSection(lines)
	pool, loose := unwrapArchive(tail)
	work = append(work, loose...)

	var events, active, candidates []string
	i := 0
	for i < len(work) {
		l := Parse(work[i])
		if l.Kind == KindEvent && l.Depth == 0 {
			events = append(events, work[i])
			i++
			continue
		}
		if l.Kind == KindTask && l.Depth == 0 {
			run := []string{work[i]}
			j := i + 1
			for j < len(work) {
				s := Parse(work[j])
				if s.Kind == KindPlain || s.Depth == 0 {
					break
				}
				run = append(run, work[j])
				j++
			}
			if l.Marker == MarkerIncomplete || l.Marker == MarkerInProgress {
				active = append(active, run...)
			} else {
				candidates = append(candidates, run...)
			}
			i = j
			continue
		}
		active = append(active, work[i])
		i++
	}
	pool = append(pool, candidates...)

	out := append([]string{}, events...)
	out = append(out, active...)
	out = trimTrailingBlanks(out)
	if len(pool) > 0 {
		for k := 0; k < archiveSeparator; k++ {
			out = append(out, "")
		}
		out = append(out, archiveCallout)
		for _, a := range pool {
			out = append(out, archivePrefix+a)
		}
	}
	if endsBlank {
		out = append(out, "")
	}
	return JoinDoc(out)
}
