package gibbs

import (
	"fmt"
	"math"
	"math/rand"
)

// candidateTable pairs every legal window offset with its unnormalized
// log-score (the negative leave-one-out distance sum). It is rebuilt for
// each sequence on each sweep; Normalize converts the scores in place
// into a categorical distribution.
type candidateTable struct {
	offsets []int
	scores  []float64
}

func newCandidateTable(capacity int) *candidateTable {
	return &candidateTable{
		offsets: make([]int, 0, capacity),
		scores:  make([]float64, 0, capacity),
	}
}

func (t *candidateTable) reset() {
	t.offsets = t.offsets[:0]
	t.scores = t.scores[:0]
}

func (t *candidateTable) add(offset int, score float64) {
	t.offsets = append(t.offsets, offset)
	t.scores = append(t.scores, score)
}

// Normalize turns the raw log-scores into probabilities. The maximum is
// subtracted before exponentiating so large distances cannot underflow
// every entry to zero: exp(s-m)/sum(exp(s-m)) equals the softmax of the
// raw scores but keeps the largest term at exp(0)=1.
func (t *candidateTable) Normalize() error {
	if len(t.scores) == 0 {
		return fmt.Errorf("candidate table is empty")
	}
	m := t.scores[0]
	for _, s := range t.scores[1:] {
		if s > m {
			m = s
		}
	}
	sum := 0.0
	for i, s := range t.scores {
		t.scores[i] = math.Exp(s - m)
		sum += t.scores[i]
	}
	for i := range t.scores {
		t.scores[i] /= sum
	}
	return nil
}

// Sample draws one offset from the normalized table.
func (t *candidateTable) Sample(rng *rand.Rand) int {
	pick := rng.Float64()
	acc := 0.0
	for i, p := range t.scores {
		acc += p
		if pick <= acc {
			return t.offsets[i]
		}
	}
	// Rounding can leave acc fractionally below 1.
	return t.offsets[len(t.offsets)-1]
}
