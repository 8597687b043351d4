package motif

import (
	"errors"
	"fmt"

	"shapemotif/internal/profile"
)

// ErrShapeMismatch reports a window tested against a range model of a
// different length; this is a caller contract violation, not a non-match.
var ErrShapeMismatch = errors.New("window and range model lengths differ")

// Matches reports whether every position of the window lies inside the
// corresponding interval, inclusive on both ends.
func Matches(window []float64, model RangeModel) (bool, error) {
	if len(window) != len(model) {
		return false, fmt.Errorf("got=%d want=%d: %w", len(window), len(model), ErrShapeMismatch)
	}
	for i, v := range window {
		if v < model[i].Min || v > model[i].Max {
			return false, nil
		}
	}
	return true, nil
}

// Occurrences lists every offset of the profile whose window falls inside
// the model. Overlapping occurrences are all reported.
func Occurrences(p []float64, model RangeModel) []int {
	width := len(model)
	offsets := []int{}
	for i := 0; i+width <= len(p); i++ {
		ok, err := Matches(p[i:i+width], model)
		if err != nil {
			// Sub-slices always match the model width.
			panic(err)
		}
		if ok {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// CountOccurrences scans every profile in the set and reports how many
// sequences contain at least one occurrence, plus the offsets per
// sequence (an entry exists for every sequence, possibly empty).
func CountOccurrences(set *profile.Set, model RangeModel) (int, map[int][]int) {
	withMatch := 0
	bySequence := make(map[int][]int, set.Count())
	for i := 0; i < set.Count(); i++ {
		offsets := Occurrences(set.At(i), model)
		if len(offsets) > 0 {
			withMatch++
		}
		bySequence[i] = offsets
	}
	return withMatch, bySequence
}
