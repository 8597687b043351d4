package motif

import (
	"math"
	"testing"

	"shapemotif/internal/profile"
)

func testSet(t *testing.T, profiles [][]float64) *profile.Set {
	t.Helper()
	set, err := profile.NewSet(profiles)
	if err != nil {
		t.Fatalf("build profile set: %v", err)
	}
	return set
}

func TestNewRangeModelMeanAndSigma(t *testing.T) {
	set := testSet(t, [][]float64{
		{1, 0, 0, 0},
		{0, 3, 0, 0},
	})
	// Aligned windows: [1,0] (offset 0) and [3,0] (offset 1).
	model, err := NewRangeModel(set, []int{0, 1}, 2, 2)
	if err != nil {
		t.Fatalf("new range model: %v", err)
	}
	if model.Width() != 2 {
		t.Fatalf("width: got=%d want=2", model.Width())
	}

	// Position 0: values {1,3}, mean 2, population std 1, k=2.
	if math.Abs(model[0].Min-0) > 1e-12 || math.Abs(model[0].Max-4) > 1e-12 {
		t.Fatalf("position 0: got=[%v,%v] want=[0,4]", model[0].Min, model[0].Max)
	}
	// Position 1: both zero, zero variance collapses to a point.
	if model[1].Min != 0 || model[1].Max != 0 {
		t.Fatalf("position 1: got=[%v,%v] want=[0,0]", model[1].Min, model[1].Max)
	}
}

func TestRangeModelIntervalsAreOrdered(t *testing.T) {
	set := testSet(t, [][]float64{
		{0.4, 1.9, 2.5, 0.1, 3.3, 1.2},
		{2.8, 0.7, 1.4, 2.1, 0.9, 3.0},
		{1.6, 3.1, 0.2, 1.8, 2.4, 0.5},
	})
	for _, k := range []float64{0, 0.5, 1, 2.5} {
		model, err := NewRangeModel(set, []int{1, 0, 2}, 3, k)
		if err != nil {
			t.Fatalf("k=%v: %v", k, err)
		}
		for p, interval := range model {
			if interval.Min > interval.Max {
				t.Fatalf("k=%v position %d: min %v > max %v", k, p, interval.Min, interval.Max)
			}
		}
	}
}

func TestNewRangeModelValidation(t *testing.T) {
	set := testSet(t, [][]float64{
		{1, 2, 3, 4},
		{4, 3, 2, 1},
	})
	if _, err := NewRangeModel(set, []int{0}, 2, 1); err == nil {
		t.Fatal("expected error for location count mismatch")
	}
	if _, err := NewRangeModel(set, []int{0, 0}, 0, 1); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := NewRangeModel(set, []int{0, 3}, 2, 1); err == nil {
		t.Fatal("expected error for out-of-bounds window")
	}
}
