package tui

import "testing"

func TestListNavFocus(t *testing.T) {
	t.Run("Keyboard Walk", func(t *testing.T) {
		// 20 loaded entries, nothing focused.
		nav := NewListNav()
		if nav.Focused() != -1 {
			t.Fatalf("expected no initial focus, got %d", nav.Focused())
		}

		nav.Down(20)
		if nav.Focused() != 0 {
			t.Errorf("ArrowDown with no focus: got %d, want 0", nav.Focused())
		}

		nav.End(20)
		if nav.Focused() != 19 {
			t.Errorf("End: got %d, want 19", nav.Focused())
		}

		nav.PageUp(20)
		if nav.Focused() != 9 {
			t.Errorf("PageUp: got %d, want 9", nav.Focused())
		}

		nav.PageDown(20)
		if nav.Focused() != 19 {
			t.Errorf("PageDown: got %d, want 19 (clamped)", nav.Focused())
		}

		nav.Home(20)
		if nav.Focused() != 0 {
			t.Errorf("Home: got %d, want 0", nav.Focused())
		}

		nav.Up(20)
		if nav.Focused() != 0 {
			t.Errorf("ArrowUp at first: got %d, want 0 (clamped)", nav.Focused())
		}
	})

	t.Run("Up With No Focus Focuses Last", func(t *testing.T) {
		nav := NewListNav()
		nav.Up(7)
		if nav.Focused() != 6 {
			t.Errorf("got %d, want 6", nav.Focused())
		}
	})

	t.Run("Down Clamps To Last", func(t *testing.T) {
		nav := NewListNav()
		nav.End(3)
		nav.Down(3)
		if nav.Focused() != 2 {
			t.Errorf("got %d, want 2", nav.Focused())
		}
	})

	t.Run("Empty List Keeps Focus Unset", func(t *testing.T) {
		nav := NewListNav()
		nav.Down(0)
		nav.Up(0)
		nav.End(0)
		if nav.Focused() != -1 {
			t.Errorf("got %d, want -1", nav.Focused())
		}
	})
}

func TestListNavExpansion(t *testing.T) {
	nav := NewListNav()

	if nav.IsExpanded(42) {
		t.Fatal("expected line 42 collapsed initially")
	}

	if expanded := nav.ToggleExpand(42); !expanded {
		t.Error("expected toggle to expand")
	}
	if !nav.IsExpanded(42) {
		t.Error("expected line 42 expanded after toggle")
	}

	// Expansion drives row height, which is what forces the re-measure.
	size := func(i int) int {
		if nav.IsExpanded(42) && i == 0 {
			return expandedRows
		}
		return collapsedRows
	}
	if size(0) != expandedRows {
		t.Errorf("expected expanded height %d, got %d", expandedRows, size(0))
	}

	if expanded := nav.ToggleExpand(42); expanded {
		t.Error("expected second toggle to collapse")
	}
	if nav.IsExpanded(42) {
		t.Error("expected line 42 collapsed after second toggle")
	}
	if size(0) != collapsedRows {
		t.Errorf("expected collapsed height %d, got %d", collapsedRows, size(0))
	}
}

func TestListNavReset(t *testing.T) {
	nav := NewListNav()
	nav.End(10)
	nav.ToggleExpand(3)
	nav.ToggleExpand(7)

	nav.Reset()

	if nav.Focused() != -1 {
		t.Errorf("expected focus unset after reset, got %d", nav.Focused())
	}
	if nav.IsExpanded(3) || nav.IsExpanded(7) {
		t.Error("expected expansion state cleared after reset")
	}
}
