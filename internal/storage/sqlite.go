//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"shapemotif/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	for _, table := range []string{"runs", "motifs", "score_history", "sweep_diagnostics", "occurrences"} {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.MotifRun) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, run.ID, run.CreatedAtUTC, run.SchemaVersion, run.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.MotifRun, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.MotifRun{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MotifRun{}, false, nil
		}
		return model.MotifRun{}, false, err
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return model.MotifRun{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.MotifRun, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at_utc DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]model.MotifRun, 0, 16)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		run, err := DecodeRun(payload)
		if err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveMotifs(ctx context.Context, runID string, motifs []model.MotifRecord) error {
	payload, err := EncodeMotifs(motifs)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "motifs", runID, payload)
}

func (s *SQLiteStore) GetMotifs(ctx context.Context, runID string) ([]model.MotifRecord, bool, error) {
	payload, ok, err := s.getPayload(ctx, "motifs", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	motifs, err := DecodeMotifs(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode motifs %s: %w", runID, err)
	}
	return motifs, true, nil
}

func (s *SQLiteStore) SaveScoreHistory(ctx context.Context, runID string, history []float64) error {
	payload, err := EncodeScoreHistory(history)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "score_history", runID, payload)
}

func (s *SQLiteStore) GetScoreHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	payload, ok, err := s.getPayload(ctx, "score_history", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	history, err := DecodeScoreHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode score history %s: %w", runID, err)
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveSweepDiagnostics(ctx context.Context, runID string, diagnostics []model.SweepDiagnostics) error {
	payload, err := EncodeSweepDiagnostics(diagnostics)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "sweep_diagnostics", runID, payload)
}

func (s *SQLiteStore) GetSweepDiagnostics(ctx context.Context, runID string) ([]model.SweepDiagnostics, bool, error) {
	payload, ok, err := s.getPayload(ctx, "sweep_diagnostics", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	diagnostics, err := DecodeSweepDiagnostics(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode sweep diagnostics %s: %w", runID, err)
	}
	return diagnostics, true, nil
}

func (s *SQLiteStore) SaveOccurrences(ctx context.Context, runID string, occurrences []model.OccurrenceRecord) error {
	payload, err := EncodeOccurrences(occurrences)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "occurrences", runID, payload)
}

func (s *SQLiteStore) GetOccurrences(ctx context.Context, runID string) ([]model.OccurrenceRecord, bool, error) {
	payload, ok, err := s.getPayload(ctx, "occurrences", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	occurrences, err := DecodeOccurrences(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode occurrences %s: %w", runID, err)
	}
	return occurrences, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) savePayload(ctx context.Context, table, runID string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, table), runID, payload)
	return err
}

func (s *SQLiteStore) getPayload(ctx context.Context, table, runID string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE run_id = ?`, table), runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS motifs (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS score_history (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sweep_diagnostics (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS occurrences (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
