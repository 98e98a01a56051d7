package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireNonNegative fails t if any element is negative or NaN.
func RequireNonNegative(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if !(v >= 0) {
			t.Fatalf("index %d: got %v, want >= 0", i, v)
		}
	}
}

// RequireSparse fails t if any index outside keep has magnitude above eps.
func RequireSparse(t *testing.T, data []float64, eps float64, keep ...int) {
	t.Helper()
	allowed := make(map[int]bool, len(keep))
	for _, k := range keep {
		allowed[k] = true
	}
	for i, v := range data {
		if !allowed[i] && math.Abs(v) > eps {
			t.Fatalf("index %d: got %v, want |x| <= %v", i, v, eps)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// ArgMax returns the index of the largest element, or -1 for an empty slice.
func ArgMax(data []float64) int {
	best := -1
	for i, v := range data {
		if best < 0 || v > data[best] {
			best = i
		}
	}
	return best
}
