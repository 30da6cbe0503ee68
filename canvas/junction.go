package canvas

// CharacterMerger combines a rune drawn over an existing one so crossing
// lines become junctions instead of overwriting each other.
type CharacterMerger struct {
	rules map[[2]rune]rune
}

// NewCharacterMerger creates a merger with the box-drawing rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{rules: make(map[[2]rune]rune)}
	m.init()
	return m
}

// Merge returns the rune to show when next is drawn over existing.
func (m *CharacterMerger) Merge(existing, next rune) rune {
	if existing == ' ' || existing == continuation || existing == 0 {
		return next
	}
	if existing == next {
		return existing
	}
	// Arrowheads are never overwritten by lines.
	if isArrow(existing) && isLine(next) {
		return existing
	}
	if merged, ok := m.rules[[2]rune{existing, next}]; ok {
		return merged
	}
	if merged, ok := m.rules[[2]rune{next, existing}]; ok {
		return merged
	}
	return next
}

func (m *CharacterMerger) add(a, b, out rune) {
	m.rules[[2]rune{a, b}] = out
}

func (m *CharacterMerger) init() {
	m.add('─', '│', '┼')
	m.add('┄', '┆', '┼')
	m.add('─', '┆', '┼')
	m.add('┄', '│', '┼')

	for _, set := range [][3]rune{
		{'┌', '─', '┬'}, {'┌', '│', '├'},
		{'┐', '─', '┬'}, {'┐', '│', '┤'},
		{'└', '─', '┴'}, {'└', '│', '├'},
		{'┘', '─', '┴'}, {'┘', '│', '┤'},
		{'╭', '─', '┬'}, {'╭', '│', '├'},
		{'╮', '─', '┬'}, {'╮', '│', '┤'},
		{'╰', '─', '┴'}, {'╰', '│', '├'},
		{'╯', '─', '┴'}, {'╯', '│', '┤'},
		{'┬', '│', '┼'}, {'┴', '│', '┼'},
		{'├', '─', '┼'}, {'┤', '─', '┼'},
		{'┌', '┘', '┼'}, {'┐', '└', '┼'},
		{'┌', '┐', '┬'}, {'└', '┘', '┴'},
		{'┌', '└', '├'}, {'┐', '┘', '┤'},
		{'-', '|', '+'}, {'+', '-', '+'}, {'+', '|', '+'},
	} {
		m.add(set[0], set[1], set[2])
	}
}

func isArrow(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼', '>', '<', '^', 'v':
		return true
	}
	return false
}

func isLine(r rune) bool {
	switch r {
	case '─', '│', '┄', '┆', '╱', '╲', '·', '-', '|':
		return true
	}
	return false
}
