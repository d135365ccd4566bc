package views

// Window tracks the cursor over a list taller than the screen and which
// rows are visible. It scrolls line by line and keeps margin rows of
// context around the cursor when the list allows.
type Window struct {
	height int
	top    int
	cursor int
	total  int
}

// scrollMargin is the context kept above and below the cursor
const scrollMargin = 2

// NewWindow creates a window showing height rows
func NewWindow(height int) *Window {
	return &Window{height: max(height, 1)}
}

// Height returns the number of visible rows
func (w *Window) Height() int {
	return w.height
}

// SetHeight changes the number of visible rows
func (w *Window) SetHeight(height int) {
	w.height = max(height, 1)
	w.scroll()
}

// SetTotal sets the list length, clamping the cursor into it
func (w *Window) SetTotal(total int) {
	w.total = max(total, 0)
	w.cursor = w.clamp(w.cursor)
	w.scroll()
}

// Cursor returns the absolute cursor index
func (w *Window) Cursor() int {
	return w.cursor
}

// SetCursor moves the cursor to index, clamped to the list
func (w *Window) SetCursor(index int) {
	w.cursor = w.clamp(index)
	w.scroll()
}

// Move shifts the cursor by delta rows, clamped to the list
func (w *Window) Move(delta int) {
	w.SetCursor(w.cursor + delta)
}

// Visible returns the half-open range of rows on screen
func (w *Window) Visible() (start, end int) {
	return w.top, min(w.top+w.height, w.total)
}

// Scrolls reports whether the list is longer than the window
func (w *Window) Scrolls() bool {
	return w.total > w.height
}

func (w *Window) clamp(i int) int {
	return max(min(i, w.total-1), 0)
}

func (w *Window) scroll() {
	if w.total <= w.height {
		w.top = 0
		return
	}
	margin := min(scrollMargin, (w.height-1)/2)
	if w.cursor < w.top+margin {
		w.top = w.cursor - margin
	}
	if bottom := w.top + w.height - 1 - margin; w.cursor > bottom {
		w.top = w.cursor - (w.height - 1 - margin)
	}
	w.top = max(min(w.top, w.total-w.height), 0)
}
