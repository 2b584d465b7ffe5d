package tui

// SizeFunc reports the rendered height, in terminal rows, of the item at
// index i. Heights vary with expansion state, so window math is recomputed
// on demand rather than cached.
type SizeFunc func(i int) int

// Visible returns the inclusive index range [start, end] of items
// intersecting the viewport [scroll, scroll+height), widened by overscan
// items on both sides. It returns (0, -1) when nothing is visible.
func Visible(scroll, height, count, overscan int, size SizeFunc) (start, end int) {
	if count == 0 || height <= 0 {
		return 0, -1
	}

	start = -1
	end = -1
	top := 0
	for i := 0; i < count; i++ {
		bottom := top + size(i)
		if bottom > scroll && top < scroll+height {
			if start == -1 {
				start = i
			}
			end = i
		}
		if top >= scroll+height {
			break
		}
		top = bottom
	}
	if start == -1 {
		// Scrolled past the end; clamp to the last item.
		return count - 1, count - 1
	}

	start -= overscan
	if start < 0 {
		start = 0
	}
	end += overscan
	if end > count-1 {
		end = count - 1
	}
	return start, end
}

// TotalHeight is the summed height of all items.
func TotalHeight(count int, size SizeFunc) int {
	total := 0
	for i := 0; i < count; i++ {
		total += size(i)
	}
	return total
}

// OffsetOf is the distance in rows from the top of the list to item i.
func OffsetOf(i int, size SizeFunc) int {
	top := 0
	for j := 0; j < i; j++ {
		top += size(j)
	}
	return top
}

// ScrollIntoView returns the minimal scroll adjustment that brings item i
// fully into a viewport of the given height. A fully visible item leaves the
// scroll offset unchanged; there is no forced centering.
func ScrollIntoView(scroll, height, i int, size SizeFunc) int {
	top := OffsetOf(i, size)
	bottom := top + size(i)

	if top < scroll {
		return top
	}
	if bottom > scroll+height {
		adjusted := bottom - height
		if adjusted > top {
			// Item is taller than the viewport; pin its top.
			return top
		}
		return adjusted
	}
	return scroll
}

// ClampScroll keeps the scroll offset within [0, total-height].
func ClampScroll(scroll, height, total int) int {
	max := total - height
	if max < 0 {
		max = 0
	}
	if scroll > max {
		scroll = max
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
