package sweep

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Spectrum maps an absolute frequency in Hz to a power reading in dBm.
type Spectrum map[float64]float64

// Merge copies every reading from other into s. On a duplicate frequency the
// incoming value wins, so later chunks of the same sweep overwrite earlier
// ones.
func (s Spectrum) Merge(other Spectrum) {
	for freq, power := range other {
		s[freq] = power
	}
}

// Frame is the accumulated spectrum of one full sweep, built from every
// consecutive record that shared the same sweep key.
type Frame struct {
	Key      string
	Spectrum Spectrum
}

// ParseLine decodes one line of hackrf_sweep CSV output into a sweep key and
// a frequency to power mapping. The layout is
//
//	date, time, hz_low, hz_high, hz_bin_width, num_samples, dB, dB, ...
//
// where the time field groups all chunks belonging to one sweep pass. The
// nominal bin width is only validated, not walked: the power fields are
// paired with len(powers) evenly spaced frequencies over [hz_low, hz_high],
// so the frequency count always matches the reading count.
//
// ParseLine is total. Any malformed line (too few fields, non-numeric
// values, zero bin width) yields ok == false and never an error or a
// partially filled spectrum.
func ParseLine(line string) (key string, spectrum Spectrum, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 7 {
		return "", nil, false
	}

	key = strings.TrimSpace(fields[1])

	freqStart, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return "", nil, false
	}
	freqEnd, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return "", nil, false
	}
	binWidth, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil || binWidth == 0 {
		return "", nil, false
	}

	powers := make([]float64, len(fields)-6)
	for i, field := range fields[6:] {
		if powers[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return "", nil, false
		}
	}

	spectrum = make(Spectrum, len(powers))
	if len(powers) == 1 {
		spectrum[float64(freqStart)] = powers[0]
		return key, spectrum, true
	}

	frequencies := floats.Span(make([]float64, len(powers)), float64(freqStart), float64(freqEnd))
	for i, freq := range frequencies {
		spectrum[freq] = powers[i]
	}

	return key, spectrum, true
}
