package motif

import (
	"fmt"
	"math"

	"shapemotif/internal/profile"
)

// Interval is an inclusive [Min, Max] tolerance band for one motif
// position. A zero-variance position collapses to Min == Max, which is
// legal and matches exactly one value.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangeModel is the per-position envelope of a converged motif: for each
// position, mean ± sigmaCount·stddev of the aligned values across all
// sequences.
type RangeModel []Interval

// NewRangeModel builds the envelope from a converged location set of the
// given width. The standard deviation is the population form, matching
// how the envelope was historically computed.
func NewRangeModel(set *profile.Set, locations []int, width int, sigmaCount float64) (RangeModel, error) {
	if len(locations) != set.Count() {
		return nil, fmt.Errorf("location count mismatch: got=%d want=%d", len(locations), set.Count())
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be > 0")
	}
	for i, loc := range locations {
		if loc < 0 || loc+width > set.SeqLen() {
			return nil, fmt.Errorf("sequence %d: window [%d,%d) outside profile length %d", i, loc, loc+width, set.SeqLen())
		}
	}

	nSeq := float64(set.Count())
	ranges := make(RangeModel, width)
	for p := 0; p < width; p++ {
		sum := 0.0
		for seq := 0; seq < set.Count(); seq++ {
			sum += set.At(seq)[locations[seq]+p]
		}
		mean := sum / nSeq

		varSum := 0.0
		for seq := 0; seq < set.Count(); seq++ {
			d := set.At(seq)[locations[seq]+p] - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / nSeq)

		ranges[p] = Interval{
			Min: mean - sigmaCount*std,
			Max: mean + sigmaCount*std,
		}
	}
	return ranges, nil
}

// Width reports the motif length the model covers.
func (m RangeModel) Width() int {
	return len(m)
}
