// Package remap downsamples a sweep frame onto a discrete column axis, such
// as the character cells of a terminal row.
package remap

import (
	"errors"
	"fmt"
	"math"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

var (
	// ErrEmptySpectrum is returned when there are no frequencies to map.
	ErrEmptySpectrum = errors.New("remap: empty spectrum")

	// ErrDegenerateRange is returned when every frequency in the spectrum
	// is identical, leaving no span to divide into columns.
	ErrDegenerateRange = errors.New("remap: all frequencies are identical")
)

// Columns buckets a frequency to power mapping into width equal-width
// buckets spanning [min frequency, max frequency] and returns the mapping
// from column index (0..width-1) to the peak power observed in that bucket.
//
// Peak aggregation is deliberate: when several frequencies collapse into one
// visual column, a spectrum display shows the strongest signal in it, not an
// average and not whichever sample happened to arrive last. Since max is
// commutative and associative, the result is independent of the order the
// spectrum is visited in; nothing may rely on map iteration order here.
func Columns(spectrum sweep.Spectrum, width int) (map[int]float64, error) {
	if width <= 0 {
		return nil, fmt.Errorf("remap: width must be positive: %d given", width)
	}
	if len(spectrum) == 0 {
		return nil, ErrEmptySpectrum
	}

	minFreq := math.Inf(1)
	maxFreq := math.Inf(-1)
	for freq := range spectrum {
		minFreq = min(minFreq, freq)
		maxFreq = max(maxFreq, freq)
	}
	if minFreq == maxFreq {
		return nil, ErrDegenerateRange
	}

	span := maxFreq - minFreq
	columns := make(map[int]float64, width)
	for freq, power := range spectrum {
		bucket := int((freq - minFreq) / span * float64(width))
		if bucket == width { // closed interval: max frequency lands in the last column
			bucket = width - 1
		}

		if current, ok := columns[bucket]; !ok || power > current {
			columns[bucket] = power
		}
	}

	return columns, nil
}
