package storage

import (
	"context"

	"shapemotif/internal/model"
)

// Store defines persistence operations for motif-search runs and their
// derived records.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveRun(ctx context.Context, run model.MotifRun) error
	GetRun(ctx context.Context, id string) (model.MotifRun, bool, error)
	ListRuns(ctx context.Context) ([]model.MotifRun, error)
	SaveMotifs(ctx context.Context, runID string, motifs []model.MotifRecord) error
	GetMotifs(ctx context.Context, runID string) ([]model.MotifRecord, bool, error)
	SaveScoreHistory(ctx context.Context, runID string, history []float64) error
	GetScoreHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveSweepDiagnostics(ctx context.Context, runID string, diagnostics []model.SweepDiagnostics) error
	GetSweepDiagnostics(ctx context.Context, runID string) ([]model.SweepDiagnostics, bool, error)
	SaveOccurrences(ctx context.Context, runID string, occurrences []model.OccurrenceRecord) error
	GetOccurrences(ctx context.Context, runID string) ([]model.OccurrenceRecord, bool, error)
}

// DefaultStoreKind is the backend used when the caller does not choose
// one explicitly.
func DefaultStoreKind() string {
	return "memory"
}
