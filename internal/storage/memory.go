package storage

import (
	"context"
	"sort"
	"sync"

	"shapemotif/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.MotifRun
	motifs      map[string][]model.MotifRecord
	history     map[string][]float64
	diagnostics map[string][]model.SweepDiagnostics
	occurrences map[string][]model.OccurrenceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.MotifRun)
	s.motifs = make(map[string][]model.MotifRecord)
	s.history = make(map[string][]float64)
	s.diagnostics = make(map[string][]model.SweepDiagnostics)
	s.occurrences = make(map[string][]model.OccurrenceRecord)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.MotifRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.MotifRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.MotifRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.MotifRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC == runs[j].CreatedAtUTC {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAtUTC > runs[j].CreatedAtUTC
	})
	return runs, nil
}

func (s *MemoryStore) SaveMotifs(_ context.Context, runID string, motifs []model.MotifRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.MotifRecord, len(motifs))
	copy(copied, motifs)
	s.motifs[runID] = copied
	return nil
}

func (s *MemoryStore) GetMotifs(_ context.Context, runID string) ([]model.MotifRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	motifs, ok := s.motifs[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.MotifRecord, len(motifs))
	copy(copied, motifs)
	return copied, true, nil
}

func (s *MemoryStore) SaveScoreHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetScoreHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveSweepDiagnostics(_ context.Context, runID string, diagnostics []model.SweepDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.SweepDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.diagnostics[runID] = copied
	return nil
}

func (s *MemoryStore) GetSweepDiagnostics(_ context.Context, runID string) ([]model.SweepDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.SweepDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}

func (s *MemoryStore) SaveOccurrences(_ context.Context, runID string, occurrences []model.OccurrenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.OccurrenceRecord, len(occurrences))
	copy(copied, occurrences)
	s.occurrences[runID] = copied
	return nil
}

func (s *MemoryStore) GetOccurrences(_ context.Context, runID string) ([]model.OccurrenceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	occurrences, ok := s.occurrences[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.OccurrenceRecord, len(occurrences))
	copy(copied, occurrences)
	return copied, true, nil
}
