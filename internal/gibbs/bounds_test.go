package gibbs

import (
	"errors"
	"testing"
)

func TestDeriveBoundsUnseeded(t *testing.T) {
	bounds, err := deriveBounds(3, 10, 4, nil)
	if err != nil {
		t.Fatalf("derive bounds: %v", err)
	}
	for i, b := range bounds {
		if b.Start != 0 || b.End != 6 {
			t.Fatalf("sequence %d: got=[%d,%d] want=[0,6]", i, b.Start, b.End)
		}
	}
}

func TestDeriveBoundsSeeded(t *testing.T) {
	// seqLen=20, windowSize=5: unclamped range is seed±5.
	bounds, err := deriveBounds(3, 20, 5, []int{2, 7, 14})
	if err != nil {
		t.Fatalf("derive bounds: %v", err)
	}
	want := []searchBounds{
		{Start: 0, End: 7},   // 2-5 clamps to 0
		{Start: 2, End: 12},  // fits
		{Start: 9, End: 15},  // 14+10 >= 20 clamps end to seqLen-windowSize
	}
	for i := range want {
		if bounds[i] != want[i] {
			t.Fatalf("sequence %d: got=%+v want=%+v", i, bounds[i], want[i])
		}
	}
}

func TestDeriveBoundsSeedLengthMismatchIgnored(t *testing.T) {
	// A seed that does not cover every sequence leaves the full range,
	// matching the unseeded base search.
	bounds, err := deriveBounds(3, 10, 4, []int{1})
	if err != nil {
		t.Fatalf("derive bounds: %v", err)
	}
	for i, b := range bounds {
		if b.Start != 0 || b.End != 6 {
			t.Fatalf("sequence %d: got=[%d,%d] want=[0,6]", i, b.Start, b.End)
		}
	}
}

func TestDeriveBoundsDegenerate(t *testing.T) {
	_, err := deriveBounds(2, 6, 8, nil)
	if !errors.Is(err, ErrDegenerateBounds) {
		t.Fatalf("expected ErrDegenerateBounds, got %v", err)
	}
}
