package remap

import (
	"errors"
	"testing"

	"github.com/morria/spectrum-analyzer/internal/sweep"
)

func TestColumns_MaxAggregation(t *testing.T) {
	columns, err := Columns(sweep.Spectrum{0: -50, 1: -10}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(columns) != 1 {
		t.Fatalf("expected a single column, got %v", columns)
	}
	if columns[0] != -10 {
		t.Errorf("expected the peak (-10), not an average or the last value: got %f", columns[0])
	}
}

func TestColumns_DegenerateRange(t *testing.T) {
	for _, width := range []int{1, 2, 80} {
		_, err := Columns(sweep.Spectrum{5: -30}, width)
		if !errors.Is(err, ErrDegenerateRange) {
			t.Errorf("width %d: expected ErrDegenerateRange, got %v", width, err)
		}
	}
}

func TestColumns_EmptySpectrum(t *testing.T) {
	if _, err := Columns(sweep.Spectrum{}, 10); !errors.Is(err, ErrEmptySpectrum) {
		t.Errorf("expected ErrEmptySpectrum, got %v", err)
	}
}

func TestColumns_InvalidWidth(t *testing.T) {
	for _, width := range []int{0, -1} {
		if _, err := Columns(sweep.Spectrum{0: -1, 1: -2}, width); err == nil {
			t.Errorf("width %d: expected an error", width)
		}
	}
}

func TestColumns_EdgeClamp(t *testing.T) {
	spectrum := sweep.Spectrum{100: -40, 150: -30, 200: -20}

	for _, width := range []int{1, 2, 3, 7, 80} {
		columns, err := Columns(spectrum, width)
		if err != nil {
			t.Fatalf("width %d: unexpected error: %v", width, err)
		}

		for bucket := range columns {
			if bucket < 0 || bucket >= width {
				t.Errorf("width %d: bucket %d out of range", width, bucket)
			}
		}

		// The maximum frequency always lands in the last column.
		if _, ok := columns[width-1]; !ok {
			t.Errorf("width %d: expected the max frequency in column %d: %v", width, width-1, columns)
		}
	}
}

func TestColumns_Bucketing(t *testing.T) {
	// Four frequencies over [0, 3] into two columns: 0 and 1 land left,
	// 2 and 3 land right (3 clamps down from the half-open edge).
	columns, err := Columns(sweep.Spectrum{0: -90, 1: -20, 2: -70, 3: -60}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if columns[0] != -20 {
		t.Errorf("column 0: expected -20, got %f", columns[0])
	}
	if columns[1] != -60 {
		t.Errorf("column 1: expected -60, got %f", columns[1])
	}
}

func TestColumns_OrderIndependence(t *testing.T) {
	// Build the same spectrum twice with different insertion orders; the
	// result must be identical because max is commutative and associative.
	a := sweep.Spectrum{}
	b := sweep.Spectrum{}
	values := map[float64]float64{100: -10, 110: -20, 120: -30, 130: -5, 140: -80}
	for freq, power := range values {
		a[freq] = power
	}
	for freq := 140.0; freq >= 100; freq -= 10 {
		b[freq] = values[freq]
	}

	ca, err := Columns(a, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cb, err := Columns(b, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ca) != len(cb) {
		t.Fatalf("results differ in size: %v vs %v", ca, cb)
	}
	for bucket, power := range ca {
		if cb[bucket] != power {
			t.Errorf("bucket %d: %f vs %f", bucket, power, cb[bucket])
		}
	}
}
