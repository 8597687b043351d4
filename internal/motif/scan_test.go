package motif

import (
	"errors"
	"testing"
)

func TestMatchesInclusiveEnds(t *testing.T) {
	model := RangeModel{{Min: 0, Max: 1}, {Min: 2, Max: 2}}

	ok, err := Matches([]float64{0, 2}, model)
	if err != nil || !ok {
		t.Fatalf("lower-edge window should match: ok=%v err=%v", ok, err)
	}
	ok, err = Matches([]float64{1, 2}, model)
	if err != nil || !ok {
		t.Fatalf("upper-edge window should match: ok=%v err=%v", ok, err)
	}
	ok, err = Matches([]float64{1.0001, 2}, model)
	if err != nil || ok {
		t.Fatalf("out-of-band window should not match: ok=%v err=%v", ok, err)
	}
}

func TestMatchesShapeMismatch(t *testing.T) {
	model := RangeModel{{Min: 0, Max: 1}}
	if _, err := Matches([]float64{0, 0}, model); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestOccurrencesReportsOverlaps(t *testing.T) {
	// Flat profile inside a wide band: every offset matches.
	p := []float64{1, 1, 1, 1, 1}
	model := RangeModel{{Min: 0, Max: 2}, {Min: 0, Max: 2}}
	got := Occurrences(p, model)
	want := []int{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("occurrences: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("occurrences: got=%v want=%v", got, want)
		}
	}
}

func TestOccurrencesOnShortProfile(t *testing.T) {
	model := RangeModel{{Min: 0, Max: 1}, {Min: 0, Max: 1}, {Min: 0, Max: 1}}
	if got := Occurrences([]float64{0.5, 0.5}, model); len(got) != 0 {
		t.Fatalf("profile shorter than motif should have no occurrences, got %v", got)
	}
}

func TestSelfConsistentScan(t *testing.T) {
	// The model derived from a set's own converged windows must report an
	// occurrence at each converged offset.
	set := testSet(t, [][]float64{
		{9.1, 8.7, 1, 2, 3, 7.5},
		{1, 2, 3, 6.4, 9.9, 8.2},
	})
	locations := []int{2, 0}
	model, err := NewRangeModel(set, locations, 3, 1)
	if err != nil {
		t.Fatalf("new range model: %v", err)
	}

	count, bySequence := CountOccurrences(set, model)
	if count != 2 {
		t.Fatalf("sequences with match: got=%d want=2", count)
	}
	for seq, loc := range locations {
		found := false
		for _, off := range bySequence[seq] {
			if off == loc {
				found = true
			}
		}
		if !found {
			t.Fatalf("sequence %d: converged offset %d missing from %v", seq, loc, bySequence[seq])
		}
	}
}

func TestCountOccurrencesHasEntryPerSequence(t *testing.T) {
	set := testSet(t, [][]float64{
		{0, 0, 0, 0},
		{9, 9, 9, 9},
	})
	model := RangeModel{{Min: -1, Max: 1}, {Min: -1, Max: 1}}
	count, bySequence := CountOccurrences(set, model)
	if count != 1 {
		t.Fatalf("sequences with match: got=%d want=1", count)
	}
	offsets, ok := bySequence[1]
	if !ok {
		t.Fatal("non-matching sequence must still have an entry")
	}
	if len(offsets) != 0 {
		t.Fatalf("non-matching sequence offsets: got=%v want empty", offsets)
	}
}
