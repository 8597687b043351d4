package gibbs

import (
	"context"
	"fmt"
	"math/rand"

	"shapemotif/internal/profile"
)

// GrowExtents is how far a base motif is widened: one re-anchoring pass at
// the base width followed by four single-position extensions.
const GrowExtents = 5

// Tuning carries the convergence knobs shared by every run of a widening
// series. Zero values fall back to the sampler defaults.
type Tuning struct {
	MaxPatience        int
	ImprovementEpsilon float64
}

// Find locates a motif of windowSize with no seed: every offset of every
// profile is a legal candidate.
func Find(ctx context.Context, profiles *profile.Set, windowSize int, rng *rand.Rand, tuning Tuning) (RunResult, error) {
	return Extend(ctx, profiles, windowSize, nil, 0, rng, tuning)
}

// Extend re-runs the sampler at width motifLen+extent with per-sequence
// bounds narrowed around the seed locations (when one is supplied).
func Extend(ctx context.Context, profiles *profile.Set, motifLen int, seed []int, extent int, rng *rand.Rand, tuning Tuning) (RunResult, error) {
	if extent < 0 {
		return RunResult{}, fmt.Errorf("extent must be >= 0")
	}
	sampler, err := NewSampler(Config{
		Profiles:           profiles,
		WindowSize:         motifLen + extent,
		Seed:               seed,
		RNG:                rng,
		MaxPatience:        tuning.MaxPatience,
		ImprovementEpsilon: tuning.ImprovementEpsilon,
	})
	if err != nil {
		return RunResult{}, err
	}
	return sampler.Run(ctx)
}

// Grow runs the full widening series for one motif: the unseeded base
// search, then extents 0..4 each seeded with the previous result. The
// returned slice holds GrowExtents+1 results of widths
// w, w, w+1, w+2, w+3, w+4.
func Grow(ctx context.Context, profiles *profile.Set, windowSize int, rng *rand.Rand, tuning Tuning) ([]RunResult, error) {
	base, err := Find(ctx, profiles, windowSize, rng, tuning)
	if err != nil {
		return nil, err
	}

	results := make([]RunResult, 0, GrowExtents+1)
	results = append(results, base)
	seed := base.Locations
	for extent := 0; extent < GrowExtents; extent++ {
		res, err := Extend(ctx, profiles, windowSize, seed, extent, rng, tuning)
		if err != nil {
			return nil, fmt.Errorf("extent %d: %w", extent, err)
		}
		results = append(results, res)
		seed = res.Locations
	}
	return results, nil
}

// ResultWidth reports the motif width of entry i of a Grow series.
func ResultWidth(windowSize, i int) int {
	if i <= 1 {
		return windowSize
	}
	return windowSize + i - 1
}
