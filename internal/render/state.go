package render

import (
	"sync"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

// Event is a control input applied to the shared UI state.
type Event int

const (
	EventNone Event = iota
	EventQuit
	EventTogglePause
	EventTogglePeakHold
	EventClearPeakHold
	EventRangeUp     // shift the display power range up
	EventRangeDown   // shift the display power range down
	EventRangeWiden  // stretch the range symmetrically
	EventRangeNarrow // squeeze the range symmetrically
	EventSnapshot
)

// rangeStepDB is the nudge applied per range event.
const rangeStepDB = 5.0

// State is the control state shared between the keyboard reader and the
// render loop: pause flag, peak hold, and the display power range. It is
// mutated only through Apply and read only through Snapshot, so the two
// goroutines never see a half-updated view.
type State struct {
	mu        sync.Mutex
	paused    bool
	peakHold  bool
	autoRange bool
	bounds    PowerBounds
	peaks     *PeakHold
}

// View is an immutable snapshot of the state for one render pass.
type View struct {
	Paused    bool
	PeakHold  bool
	AutoRange bool
	Bounds    PowerBounds
	Peaks     sweep.Spectrum // nil unless peak hold is on
}

// NewState creates the shared state. With autoRange set, bounds follow the
// AutoRange tracker until the user nudges the range manually.
func NewState(bounds PowerBounds, autoRange bool) *State {
	return &State{
		autoRange: autoRange,
		bounds:    bounds,
		peaks:     NewPeakHold(),
	}
}

// Apply mutates the state in response to one control event. Any manual range
// event pins the range, switching auto-ranging off.
func (s *State) Apply(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case EventTogglePause:
		s.paused = !s.paused

	case EventTogglePeakHold:
		s.peakHold = !s.peakHold

	case EventClearPeakHold:
		s.peaks.Reset()

	case EventRangeUp:
		s.bounds.Min += rangeStepDB
		s.bounds.Max += rangeStepDB
		s.autoRange = false

	case EventRangeDown:
		s.bounds.Min -= rangeStepDB
		s.bounds.Max -= rangeStepDB
		s.autoRange = false

	case EventRangeWiden:
		s.bounds.Min -= rangeStepDB
		s.bounds.Max += rangeStepDB
		s.autoRange = false

	case EventRangeNarrow:
		if s.bounds.Max-s.bounds.Min > 2*rangeStepDB {
			s.bounds.Min += rangeStepDB
			s.bounds.Max -= rangeStepDB
		}
		s.autoRange = false
	}
}

// ObserveFrame folds a frame into the peak hold accumulator. Peaks keep
// accumulating while the hold display is toggled off, matching a session-long
// "max seen" semantic.
func (s *State) ObserveFrame(frame sweep.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.peaks.Observe(frame.Spectrum)
}

// SetBounds updates the display range from the auto-range tracker. It is a
// no-op once the user has pinned the range.
func (s *State) SetBounds(bounds PowerBounds) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoRange {
		s.bounds = bounds
	}
}

// Paused reports whether frame intake is paused.
func (s *State) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Snapshot returns a consistent copy of the state for one render pass.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		Paused:    s.paused,
		PeakHold:  s.peakHold,
		AutoRange: s.autoRange,
		Bounds:    s.bounds,
	}
	if s.peakHold {
		view.Peaks = s.peaks.Spectrum()
	}

	return view
}
