package render

import (
	"testing"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

func TestAutoRange_DefaultsUntilEnoughSamples(t *testing.T) {
	ar := NewAutoRange(0.5)

	bounds := ar.Observe(sweep.Spectrum{100: -42})
	if bounds != DefaultPowerBounds() {
		t.Errorf("too few samples must keep the default range, got %+v", bounds)
	}
}

func TestAutoRange_TracksObservedPowers(t *testing.T) {
	ar := NewAutoRange(1) // no smoothing, bounds follow the percentiles directly

	spectrum := make(sweep.Spectrum)
	for i := 0; i < 100; i++ {
		spectrum[float64(100+i)] = -60
	}
	bounds := ar.Observe(spectrum)

	// All readings at -60 dBm: the range centers there, widened to the
	// 30 dB minimum.
	center := (bounds.Min + bounds.Max) / 2
	if center < -62 || center > -58 {
		t.Errorf("expected range centered near -60 dBm, got %+v", bounds)
	}
	if bounds.Max-bounds.Min < minimumRangeDB {
		t.Errorf("expected at least %d dB of range, got %+v", minimumRangeDB, bounds)
	}
}

func TestAutoRange_Reset(t *testing.T) {
	ar := NewAutoRange(1)

	spectrum := make(sweep.Spectrum)
	for i := 0; i < 50; i++ {
		spectrum[float64(i)] = -20
	}
	ar.Observe(spectrum)
	ar.Reset()

	if ar.Current() != DefaultPowerBounds() {
		t.Errorf("expected default bounds after reset, got %+v", ar.Current())
	}
}

func TestPowerHistogram_ScaleDownPreservesShape(t *testing.T) {
	h := newPowerHistogram()
	for i := 0; i < 1000; i++ {
		h.update(-40)
	}
	for i := 0; i < 10; i++ {
		h.update(-90)
	}

	before := h.percentileBounds()
	h.scaleDown()
	after := h.percentileBounds()

	if before.Min != after.Min || before.Max != after.Max {
		t.Errorf("halving counts must not move the percentiles: %+v vs %+v", before, after)
	}
}
