// Package testutil provides shared assertion helpers for the simulator's
// test packages. It must not import sim, so sim's own tests can use it.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertNonDecreasing fails if any element of vals is smaller than its predecessor.
func AssertNonDecreasing(t *testing.T, name string, vals []float64) {
	t.Helper()
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			t.Errorf("%s: value %d (%v) < value %d (%v)", name, i, vals[i], i-1, vals[i-1])
			return
		}
	}
}

// AssertUnitInterval fails if val lies outside [0, 1].
func AssertUnitInterval(t *testing.T, name string, val float64) {
	t.Helper()
	if math.IsNaN(val) || val < 0 || val > 1 {
		t.Errorf("%s: %v outside [0, 1]", name, val)
	}
}
