package render

import (
	"testing"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

func TestPeakHold_OnlyGrows(t *testing.T) {
	hold := NewPeakHold()
	hold.Observe(sweep.Spectrum{100: -40, 200: -90})
	hold.Observe(sweep.Spectrum{100: -60, 200: -30, 300: -50})

	peaks := hold.Spectrum()
	if peaks[100] != -40 {
		t.Errorf("a weaker later reading must not lower the hold: got %f", peaks[100])
	}
	if peaks[200] != -30 {
		t.Errorf("a stronger later reading must raise the hold: got %f", peaks[200])
	}
	if peaks[300] != -50 {
		t.Errorf("new frequencies join the hold: got %v", peaks)
	}
}

func TestPeakHold_SpectrumIsACopy(t *testing.T) {
	hold := NewPeakHold()
	hold.Observe(sweep.Spectrum{100: -40})

	peaks := hold.Spectrum()
	peaks[100] = 0

	if hold.Spectrum()[100] != -40 {
		t.Error("mutating the returned spectrum must not affect the hold")
	}
}

func TestPeakHold_Reset(t *testing.T) {
	hold := NewPeakHold()
	hold.Observe(sweep.Spectrum{100: -40})
	hold.Reset()

	if hold.Len() != 0 {
		t.Errorf("expected empty hold after reset, got %d entries", hold.Len())
	}
}
