package render

import "github.com/morria/spectrum-analyzer/internal/sweep"

// PeakHold accumulates the per-frequency maximum power across every frame of
// the session until explicitly reset. This is a different policy from frame
// assembly, which is last-write-wins: the hold only ever grows.
type PeakHold struct {
	peaks sweep.Spectrum
}

// NewPeakHold creates an empty accumulator.
func NewPeakHold() *PeakHold {
	return &PeakHold{peaks: make(sweep.Spectrum)}
}

// Observe folds a frame's spectrum into the hold.
func (h *PeakHold) Observe(spectrum sweep.Spectrum) {
	for freq, power := range spectrum {
		if current, ok := h.peaks[freq]; !ok || power > current {
			h.peaks[freq] = power
		}
	}
}

// Spectrum returns a copy of the accumulated peaks.
func (h *PeakHold) Spectrum() sweep.Spectrum {
	out := make(sweep.Spectrum, len(h.peaks))
	out.Merge(h.peaks)
	return out
}

// Len returns the number of held frequencies.
func (h *PeakHold) Len() int {
	return len(h.peaks)
}

// Reset clears the accumulator.
func (h *PeakHold) Reset() {
	h.peaks = make(sweep.Spectrum)
}
