package gibbs

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"shapemotif/internal/model"
	"shapemotif/internal/profile"
)

const (
	// DefaultMaxPatience is how many consecutive negligible-improvement
	// sweeps are tolerated before the chain is declared stable.
	DefaultMaxPatience = 10
	// DefaultImprovementEpsilon is the relative-plateau threshold: an
	// improvement smaller than best*epsilon does not reset patience.
	DefaultImprovementEpsilon = 1e-5
)

type Config struct {
	Profiles   *profile.Set
	WindowSize int
	// Seed optionally narrows the search to one window-size of slack
	// around a previous result. Must be empty or one entry per sequence.
	Seed []int
	// RNG is the run's single random stream, threaded through every
	// resample so results reproduce from one caller-chosen seed.
	RNG *rand.Rand

	MaxPatience        int
	ImprovementEpsilon float64
}

type RunResult struct {
	Locations   []int
	Score       float64
	Sweeps      int
	State       model.SamplerState
	Diagnostics []model.SweepDiagnostics
}

// Sampler runs the Gibbs chain: each sweep resamples every sequence's
// window location in ascending order, conditioned on the live locations
// of all other sequences.
type Sampler struct {
	cfg    Config
	bounds []searchBounds
}

func NewSampler(cfg Config) (*Sampler, error) {
	if cfg.Profiles == nil {
		return nil, fmt.Errorf("profile set is required")
	}
	if cfg.WindowSize <= 0 {
		return nil, fmt.Errorf("window size must be > 0")
	}
	if cfg.WindowSize > cfg.Profiles.SeqLen() {
		return nil, fmt.Errorf("window size %d exceeds profile length %d", cfg.WindowSize, cfg.Profiles.SeqLen())
	}
	if cfg.RNG == nil {
		return nil, fmt.Errorf("rng is required")
	}
	if len(cfg.Seed) != 0 && len(cfg.Seed) != cfg.Profiles.Count() {
		return nil, fmt.Errorf("seed length mismatch: got=%d want=%d", len(cfg.Seed), cfg.Profiles.Count())
	}
	if cfg.MaxPatience <= 0 {
		cfg.MaxPatience = DefaultMaxPatience
	}
	if cfg.ImprovementEpsilon <= 0 {
		cfg.ImprovementEpsilon = DefaultImprovementEpsilon
	}

	bounds, err := deriveBounds(cfg.Profiles.Count(), cfg.Profiles.SeqLen(), cfg.WindowSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return &Sampler{cfg: cfg, bounds: bounds}, nil
}

func (s *Sampler) Run(ctx context.Context) (RunResult, error) {
	nSeq := s.cfg.Profiles.Count()

	locations := make([]int, nSeq)
	for i, b := range s.bounds {
		locations[i] = b.Start + s.cfg.RNG.Intn(b.span())
	}

	maxSpan := 0
	for _, b := range s.bounds {
		if b.span() > maxSpan {
			maxSpan = b.span()
		}
	}
	table := newCandidateTable(maxSpan)

	best := math.Inf(1)
	patience := 0
	sweeps := 0
	diagnostics := make([]model.SweepDiagnostics, 0, s.cfg.MaxPatience)

	for {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		for i := 0; i < nSeq; i++ {
			if err := s.sweepStep(i, locations, table); err != nil {
				return RunResult{}, err
			}
		}
		sweeps++
		cur := s.allPairScore(locations)
		diagnostics = append(diagnostics, model.SweepDiagnostics{
			Sweep:        sweeps,
			Score:        cur,
			Best:         best,
			PatienceUsed: patience,
		})

		switch {
		case cur == best:
			return RunResult{
				Locations:   locations,
				Score:       cur,
				Sweeps:      sweeps,
				State:       model.StateConverged,
				Diagnostics: diagnostics,
			}, nil
		case cur <= best && cur > best*(1-s.cfg.ImprovementEpsilon):
			best = cur
			patience++
			if patience == s.cfg.MaxPatience {
				return RunResult{
					Locations:   locations,
					Score:       cur,
					Sweeps:      sweeps,
					State:       model.StatePatienceExhausted,
					Diagnostics: diagnostics,
				}, nil
			}
		default:
			// Either a real improvement or a stochastic worsening;
			// both restart the patience count.
			best = cur
			patience = 0
		}
	}
}

// sweepStep resamples the window location of sequence i against the
// currently held locations of every other sequence. Earlier steps of the
// same sweep have already updated their entries; that live conditioning
// is what makes this a Gibbs sweep and must not be snapshotted away.
func (s *Sampler) sweepStep(i int, locations []int, table *candidateTable) error {
	w := s.cfg.WindowSize
	nSeq := s.cfg.Profiles.Count()

	table.reset()
	for j := s.bounds[i].Start; j <= s.bounds[i].End; j++ {
		candidate := s.cfg.Profiles.Window(i, j, w)
		dist := 0.0
		for k := 0; k < nSeq; k++ {
			if k == i {
				continue
			}
			dist += SquaredDistance(candidate, s.cfg.Profiles.Window(k, locations[k], w))
		}
		table.add(j, -dist)
	}
	if err := table.Normalize(); err != nil {
		return fmt.Errorf("sequence %d: %w", i, err)
	}
	locations[i] = table.Sample(s.cfg.RNG)
	return nil
}

// allPairScore is the total squared distance over all sequence pairs at
// the given locations; lower means a more coherent motif.
func (s *Sampler) allPairScore(locations []int) float64 {
	w := s.cfg.WindowSize
	nSeq := s.cfg.Profiles.Count()

	total := 0.0
	for i := 0; i < nSeq; i++ {
		wi := s.cfg.Profiles.Window(i, locations[i], w)
		for j := i + 1; j < nSeq; j++ {
			total += SquaredDistance(wi, s.cfg.Profiles.Window(j, locations[j], w))
		}
	}
	return total
}
