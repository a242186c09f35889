package ledger

// LinkParents materializes parent→child links as [parent::] tags in a single
// forward pass. Headings reset the scope so subtasks never attach across a
// section break. The pass only fills empty parent fields: a link a user
// cleared on purpose stays cleared, and an orphan subtask with no preceding
// parent is left alone rather than guessed at.
func LinkParents(doc string) string {
	lines := SplitDoc(doc)
	current := ""
	for i, raw := range lines {
		if IsHeading(raw) {
			current = ""
			continue
		}
		l := Parse(raw)
		if l.Kind != KindTask {
			continue
		}
		if l.Depth == 0 {
			// Top-level tasks cannot have parents; strip strays.
			if l.Parent != "" {
				l.Parent = ""
				lines[i] = l.Render()
			}
			current = l.ID
			continue
		}
		if l.Parent == "" && current != "" {
			l.Parent = current
			lines[i] = l.Render()
		}
	}
	return JoinDoc(lines)
}
