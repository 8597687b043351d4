package profile

import "fmt"

// Set holds one real-valued shape profile per genomic region. All profiles
// share the same length; the set is read-only once built.
type Set struct {
	data   [][]float64
	seqLen int
}

func NewSet(profiles [][]float64) (*Set, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile set requires at least one profile")
	}
	seqLen := len(profiles[0])
	if seqLen == 0 {
		return nil, fmt.Errorf("profile 0 is empty")
	}
	for i, p := range profiles {
		if len(p) != seqLen {
			return nil, fmt.Errorf("profile length mismatch at index %d: got=%d want=%d", i, len(p), seqLen)
		}
	}
	return &Set{data: profiles, seqLen: seqLen}, nil
}

// Count reports the number of profiles in the set.
func (s *Set) Count() int {
	return len(s.data)
}

// SeqLen reports the shared profile length.
func (s *Set) SeqLen() int {
	return s.seqLen
}

// At returns profile i. The returned slice is shared, not copied.
func (s *Set) At(i int) []float64 {
	return s.data[i]
}

// Window returns the width-long sub-slice of profile i starting at offset.
// Offsets outside [0, SeqLen-width] are a caller bug and panic via the
// runtime bounds check.
func (s *Set) Window(i, offset, width int) []float64 {
	return s.data[i][offset : offset+width]
}
