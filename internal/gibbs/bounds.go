package gibbs

import (
	"errors"
	"fmt"
)

// ErrDegenerateBounds reports a search range whose start exceeds its end,
// which happens when the window no longer fits the profile after clamping.
var ErrDegenerateBounds = errors.New("degenerate search bounds")

// searchBounds is the inclusive [Start, End] range of legal window offsets
// for one sequence.
type searchBounds struct {
	Start int
	End   int
}

func (b searchBounds) span() int {
	return b.End - b.Start + 1
}

// deriveBounds computes per-sequence offset ranges for a window of
// windowSize over profiles of seqLen. With a seed location set of matching
// length the range narrows to one window-size of slack around each seed,
// clamped to the profile.
func deriveBounds(nSeq, seqLen, windowSize int, seed []int) ([]searchBounds, error) {
	bounds := make([]searchBounds, nSeq)
	for i := range bounds {
		bounds[i] = searchBounds{Start: 0, End: seqLen - windowSize}
	}
	if len(seed) == nSeq {
		for i, loc := range seed {
			start := loc - windowSize
			if start < 0 {
				start = 0
			}
			end := loc + windowSize
			if loc+2*windowSize >= seqLen {
				end = seqLen - windowSize
			}
			bounds[i] = searchBounds{Start: start, End: end}
		}
	}
	for i, b := range bounds {
		if b.Start > b.End {
			return nil, fmt.Errorf("sequence %d: start=%d end=%d: %w", i, b.Start, b.End, ErrDegenerateBounds)
		}
	}
	return bounds, nil
}
