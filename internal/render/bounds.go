package render

import (
	"math"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

const (
	defaultMinPower = -100.0 // dBm
	defaultMaxPower = 0.0    // dBm

	// For 20 samples:
	// - 5% percentile  = 1 sample
	// - 95% percentile = 19th sample
	minimumSampleCount = 20

	minimumRangeDB = 30
)

// PowerBounds is the display power range in dBm.
type PowerBounds struct {
	Min float64
	Max float64
}

// DefaultPowerBounds returns the range of the original display, covering
// typical hackrf_sweep readings.
func DefaultPowerBounds() PowerBounds {
	return PowerBounds{Min: defaultMinPower, Max: defaultMaxPower}
}

// Fraction normalizes a power reading into [0, 1] within the bounds,
// clamping readings outside the range.
func (b PowerBounds) Fraction(power float64) float64 {
	span := b.Max - b.Min
	if span <= 0 {
		return 0
	}
	frac := (power - b.Min) / span
	return math.Min(math.Max(frac, 0), 1)
}

// powerHistogram counts readings in 1 dBm bins so percentile bounds can be
// computed without retaining individual samples.
type powerHistogram struct {
	bins       map[int]uint32
	totalCount uint64
	minBin     int
	maxBin     int
}

func newPowerHistogram() *powerHistogram {
	return &powerHistogram{
		bins:   make(map[int]uint32),
		minBin: math.MaxInt32,
		maxBin: math.MinInt32,
	}
}

func (h *powerHistogram) update(power float64) {
	bin := int(math.Floor(power)) // 1dBm bins

	if h.bins[bin] == math.MaxUint32 || h.totalCount == math.MaxUint64 {
		h.scaleDown()
	}

	h.bins[bin]++
	h.totalCount++

	if bin < h.minBin {
		h.minBin = bin
	}
	if bin > h.maxBin {
		h.maxBin = bin
	}
}

// scaleDown halves all bin counts so the histogram keeps adapting on very
// long sessions instead of saturating.
func (h *powerHistogram) scaleDown() {
	h.minBin = math.MaxInt32
	h.maxBin = math.MinInt32

	for bin := range h.bins {
		h.bins[bin] /= 2
		if h.bins[bin] == 0 {
			delete(h.bins, bin)
			continue
		}

		if bin < h.minBin {
			h.minBin = bin
		}
		if bin > h.maxBin {
			h.maxBin = bin
		}
	}
	h.totalCount /= 2
}

func (h *powerHistogram) clear() {
	h.bins = make(map[int]uint32)
	h.totalCount = 0
	h.minBin = math.MaxInt32
	h.maxBin = math.MinInt32
}

// percentileBounds returns the 5th..95th percentile power range, widened to
// at least minimumRangeDB with a 10% margin. With too few samples it falls
// back to the default range.
func (h *powerHistogram) percentileBounds() PowerBounds {
	if h.totalCount < minimumSampleCount {
		return DefaultPowerBounds()
	}

	target := h.totalCount * 5 / 100
	if target == 0 {
		target = 1
	}

	var count uint64
	var min5th, max95th int

	for bin := h.minBin; bin <= h.maxBin; bin++ {
		count += uint64(h.bins[bin])
		if count >= target {
			min5th = bin
			break
		}
	}

	count = 0
	for bin := h.maxBin; bin >= h.minBin; bin-- {
		count += uint64(h.bins[bin])
		if count >= target {
			max95th = bin
			break
		}
	}

	if max95th-min5th < minimumRangeDB {
		center := (max95th + min5th) / 2
		min5th = center - minimumRangeDB/2
		max95th = center + minimumRangeDB/2
	}

	margin := (max95th - min5th) / 10
	return PowerBounds{
		Min: float64(min5th - margin),
		Max: float64(max95th + margin),
	}
}

// AutoRange tracks a smoothed display power range from observed readings,
// for use when the configuration does not pin the range explicitly.
type AutoRange struct {
	hist    *powerHistogram
	alpha   float64 // Smoothing factor (0-1)
	current PowerBounds
}

// NewAutoRange creates a range tracker with the given smoothing factor.
func NewAutoRange(alpha float64) *AutoRange {
	return &AutoRange{
		hist:    newPowerHistogram(),
		alpha:   alpha,
		current: DefaultPowerBounds(),
	}
}

// Observe folds a frame's readings into the histogram and returns the new
// smoothed bounds.
func (a *AutoRange) Observe(spectrum sweep.Spectrum) PowerBounds {
	for _, power := range spectrum {
		a.hist.update(power)
	}

	bounds := a.hist.percentileBounds()
	a.current.Min = a.current.Min*(1-a.alpha) + bounds.Min*a.alpha
	a.current.Max = a.current.Max*(1-a.alpha) + bounds.Max*a.alpha

	return a.current
}

// Current returns the current smoothed bounds.
func (a *AutoRange) Current() PowerBounds {
	return a.current
}

// Reset clears the histogram and restores the default range.
func (a *AutoRange) Reset() {
	a.hist.clear()
	a.current = DefaultPowerBounds()
}
