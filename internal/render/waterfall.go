package render

import (
	"time"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

// Row is one line of waterfall history: a completed sweep frame plus its
// arrival time.
type Row struct {
	Key      string
	At       time.Time
	Spectrum sweep.Spectrum
}

// Waterfall keeps a bounded, newest-first history of completed frames for
// the scrolling panel and the snapshot exporter. It is owned by the render
// loop; it has no internal locking.
type Waterfall struct {
	depth int
	rows  []Row
}

// NewWaterfall creates a history bounded to depth rows.
func NewWaterfall(depth int) *Waterfall {
	if depth < 1 {
		depth = 1
	}
	return &Waterfall{depth: depth}
}

// Push records a completed frame as the newest row, dropping the oldest row
// once the history is full.
func (w *Waterfall) Push(frame sweep.Frame) {
	row := Row{Key: frame.Key, At: time.Now(), Spectrum: frame.Spectrum}

	w.rows = append(w.rows, Row{})
	copy(w.rows[1:], w.rows)
	w.rows[0] = row

	if len(w.rows) > w.depth {
		w.rows = w.rows[:w.depth]
	}
}

// Rows returns the history, newest first. The returned slice is shared with
// the Waterfall and only valid until the next Push or SetDepth.
func (w *Waterfall) Rows() []Row {
	return w.rows
}

// Len returns the number of rows currently held.
func (w *Waterfall) Len() int {
	return len(w.rows)
}

// Depth returns the history bound.
func (w *Waterfall) Depth() int {
	return w.depth
}

// SetDepth adjusts the history bound, discarding the oldest rows when the
// terminal shrinks.
func (w *Waterfall) SetDepth(depth int) {
	if depth < 1 {
		depth = 1
	}
	w.depth = depth
	if len(w.rows) > depth {
		w.rows = w.rows[:depth]
	}
}
