// Package pagination computes the page-number buttons shown under tables.
package pagination

// DefaultSize is the number of page buttons shown when no size is given.
const DefaultSize = 5

// Window returns the contiguous run of page numbers to show for the current
// page out of total pages.
//
// When total <= size every page is shown. Otherwise the window is centred on
// current, clamped to start at 1 and shifted left when it would run past
// total, so it always holds exactly size pages.
//
//	Window(1, 20, 5)  → [1 2 3 4 5]
//	Window(10, 20, 5) → [8 9 10 11 12]
//	Window(18, 20, 5) → [16 17 18 19 20]
func Window(current, total, size int) []int {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= size {
		return seq(1, total)
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > total {
		end = total
		start = end - size + 1
	}
	return seq(start, end)
}

func seq(from, to int) []int {
	pages := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Pager is what templates need to draw a pagination bar.
type Pager struct {
	Current int
	Total   int
	Pages   []int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

// NewPager builds a Pager with a DefaultSize window.
func NewPager(current, total int) Pager {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	return Pager{
		Current: current,
		Total:   total,
		Pages:   Window(current, total, DefaultSize),
		HasPrev: current > 1,
		HasNext: current < total,
		Prev:    current - 1,
		Next:    current + 1,
	}
}
