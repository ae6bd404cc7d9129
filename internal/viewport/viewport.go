// Package viewport renders only the visible slice of a long list of fixed
// height rows. The full list keeps its true scrollable height through a spacer
// of total*rowHeight, and the visible block is positioned at start*rowHeight
// inside it.
//
// All index math assumes every row has the same height.
package viewport

import "math"

// Window is the inclusive index range [Start, End] currently rendered.
// Empty is set when there is nothing to render, in which case End < Start.
type Window struct {
	Start int
	End   int
	Empty bool
}

// Len is the number of rows in the window.
func (w Window) Len() int {
	if w.Empty {
		return 0
	}
	return w.End - w.Start + 1
}

// Row is a visible item together with its index in the full list.
type Row[T any] struct {
	Index int
	Item  T
}

// Virtualizer owns the scroll state for a list of T. It never copies or
// modifies the items it is given.
type Virtualizer[T any] struct {
	rowHeight   float64
	visibleRows int

	items  []T
	offset float64
	start  int
}

// New returns a virtualizer for rows of rowHeight units showing visibleRows
// rows at once. Non-positive arguments are raised to 1.
func New[T any](rowHeight float64, visibleRows int) *Virtualizer[T] {
	if rowHeight <= 0 || math.IsNaN(rowHeight) || math.IsInf(rowHeight, 0) {
		rowHeight = 1
	}
	if visibleRows < 1 {
		visibleRows = 1
	}
	return &Virtualizer[T]{rowHeight: rowHeight, visibleRows: visibleRows}
}

func (v *Virtualizer[T]) RowHeight() float64 { return v.rowHeight }
func (v *Virtualizer[T]) VisibleRows() int   { return v.visibleRows }
func (v *Virtualizer[T]) Len() int           { return len(v.items) }
func (v *Virtualizer[T]) Offset() float64    { return v.offset }

// SetItems replaces the list and clamps the scroll offset back into range.
// It reports whether the start index moved.
func (v *Virtualizer[T]) SetItems(items []T) bool {
	v.items = items
	return v.ScrollTo(v.offset)
}

// SetVisibleRows changes the container height in rows.
func (v *Virtualizer[T]) SetVisibleRows(n int) {
	if n < 1 {
		n = 1
	}
	v.visibleRows = n
}

// ScrollTo moves the scroll offset to offset, clamped to
// [0, (total-1)*rowHeight]. The window is recomputed only when the start
// index changes; the return value says whether it did.
func (v *Virtualizer[T]) ScrollTo(offset float64) bool {
	v.offset = v.clamp(offset)

	start := int(math.Floor(v.offset / v.rowHeight))
	if start == v.start {
		return false
	}
	v.start = start
	return true
}

func (v *Virtualizer[T]) ScrollBy(delta float64) bool {
	return v.ScrollTo(v.offset + delta)
}

// ScrollToRow aligns row i with the top of the container.
func (v *Virtualizer[T]) ScrollToRow(i int) bool {
	return v.ScrollTo(float64(i) * v.rowHeight)
}

func (v *Virtualizer[T]) LineUp() bool   { return v.ScrollBy(-v.rowHeight) }
func (v *Virtualizer[T]) LineDown() bool { return v.ScrollBy(v.rowHeight) }
func (v *Virtualizer[T]) PageUp() bool   { return v.ScrollBy(-v.ViewportHeight()) }
func (v *Virtualizer[T]) PageDown() bool { return v.ScrollBy(v.ViewportHeight()) }
func (v *Virtualizer[T]) Home() bool     { return v.ScrollTo(0) }

// End scrolls so the last row sits at the bottom of the container.
func (v *Virtualizer[T]) End() bool {
	last := len(v.items) - v.visibleRows
	if last < 0 {
		last = 0
	}
	return v.ScrollToRow(last)
}

// Window returns the rendered index range. For a non-empty list it always
// satisfies 0 <= Start <= End < Len().
func (v *Virtualizer[T]) Window() Window {
	total := len(v.items)
	if total == 0 {
		return Window{Start: 0, End: -1, Empty: true}
	}
	end := v.start + v.visibleRows - 1
	if end > total-1 {
		end = total - 1
	}
	return Window{Start: v.start, End: end}
}

// Visible returns the items inside the window. The slice aliases the
// underlying list.
func (v *Virtualizer[T]) Visible() []T {
	w := v.Window()
	if w.Empty {
		return nil
	}
	return v.items[w.Start : w.End+1]
}

// Rows returns the visible items paired with their absolute index.
func (v *Virtualizer[T]) Rows() []Row[T] {
	w := v.Window()
	rows := make([]Row[T], 0, w.Len())
	for i := w.Start; i <= w.End; i++ {
		rows = append(rows, Row[T]{Index: i, Item: v.items[i]})
	}
	return rows
}

// SpacerHeight is the height the full list would occupy.
func (v *Virtualizer[T]) SpacerHeight() float64 {
	return float64(len(v.items)) * v.rowHeight
}

// BlockOffset is where the rendered block sits inside the spacer.
func (v *Virtualizer[T]) BlockOffset() float64 {
	if len(v.items) == 0 {
		return 0
	}
	return float64(v.start) * v.rowHeight
}

// ViewportHeight is the fixed height of the scroll container.
func (v *Virtualizer[T]) ViewportHeight() float64 {
	return float64(v.visibleRows) * v.rowHeight
}

// Scrollbar maps the block position onto a track of trackLen cells and returns
// the thumb's first cell and its length. A list that fits in the container
// gets a thumb covering the whole track.
func (v *Virtualizer[T]) Scrollbar(trackLen int) (pos, size int) {
	if trackLen < 1 {
		return 0, 0
	}
	spacer := v.SpacerHeight()
	if spacer <= v.ViewportHeight() {
		return 0, trackLen
	}

	size = int(math.Round(float64(trackLen) * v.ViewportHeight() / spacer))
	if size < 1 {
		size = 1
	}
	pos = int(math.Floor(float64(trackLen) * v.BlockOffset() / spacer))
	if pos > trackLen-size {
		pos = trackLen - size
	}
	return pos, size
}

func (v *Virtualizer[T]) maxOffset() float64 {
	if len(v.items) == 0 {
		return 0
	}
	return float64(len(v.items)-1) * v.rowHeight
}

func (v *Virtualizer[T]) clamp(offset float64) float64 {
	if offset < 0 || math.IsNaN(offset) {
		return 0
	}
	if limit := v.maxOffset(); offset > limit {
		return limit
	}
	return offset
}
