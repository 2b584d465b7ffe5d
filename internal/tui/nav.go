package tui

// pageJump is how many entries PageUp/PageDown move the focus.
const pageJump = 10

// ListNav holds the renderer-local navigation state: a single focused index
// into the currently loaded entry array, and the set of expanded entries
// keyed by line number. Both are pure UI state and reset whenever the entry
// array is replaced wholesale.
type ListNav struct {
	focused  int
	expanded map[int]struct{}
}

// NewListNav returns navigation state with nothing focused or expanded.
func NewListNav() *ListNav {
	return &ListNav{
		focused:  -1,
		expanded: make(map[int]struct{}),
	}
}

// Focused is the focused index, or -1 when nothing is focused.
func (n *ListNav) Focused() int {
	return n.focused
}

// IsExpanded reports whether the entry with the given line number is expanded.
func (n *ListNav) IsExpanded(line int) bool {
	_, ok := n.expanded[line]
	return ok
}

// ToggleExpand flips the expansion state of the given line number and
// reports the state after the toggle. Callers must re-measure row heights
// afterwards so downstream offsets recompute.
func (n *ListNav) ToggleExpand(line int) bool {
	if _, ok := n.expanded[line]; ok {
		delete(n.expanded, line)
		return false
	}
	n.expanded[line] = struct{}{}
	return true
}

// Down moves focus to the next index, clamped to the last. With nothing
// focused it focuses the first entry.
func (n *ListNav) Down(count int) {
	if count == 0 {
		return
	}
	if n.focused < 0 {
		n.focused = 0
		return
	}
	n.focused = clamp(n.focused+1, count)
}

// Up moves focus to the previous index, clamped to the first. With nothing
// focused it focuses the last entry.
func (n *ListNav) Up(count int) {
	if count == 0 {
		return
	}
	if n.focused < 0 {
		n.focused = count - 1
		return
	}
	n.focused = clamp(n.focused-1, count)
}

// Home focuses index 0.
func (n *ListNav) Home(count int) {
	if count == 0 {
		return
	}
	n.focused = 0
}

// End focuses the last index.
func (n *ListNav) End(count int) {
	if count == 0 {
		return
	}
	n.focused = count - 1
}

// PageDown moves focus forward by a page, clamped.
func (n *ListNav) PageDown(count int) {
	if count == 0 {
		return
	}
	if n.focused < 0 {
		n.focused = 0
	}
	n.focused = clamp(n.focused+pageJump, count)
}

// PageUp moves focus backward by a page, clamped.
func (n *ListNav) PageUp(count int) {
	if count == 0 {
		return
	}
	if n.focused < 0 {
		n.focused = count - 1
	}
	n.focused = clamp(n.focused-pageJump, count)
}

// Reset clears focus and expansion state. A fresh query has no implied
// focus, so the focused index becomes unset rather than 0.
func (n *ListNav) Reset() {
	n.focused = -1
	n.expanded = make(map[int]struct{})
}

func clamp(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
