//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"shapemotif/internal/model"
)

func TestSQLiteStoreRunAndMotifRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shapemotif.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.MotifRun{
		VersionedRecord: versioned(),
		ID:              "r1",
		DataPath:        "peaks.dat",
		WindowSize:      8,
		Seed:            42,
		CreatedAtUTC:    "2026-08-25T10:00:00Z",
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.WindowSize != run.WindowSize || loaded.DataPath != run.DataPath {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	motifs := []model.MotifRecord{
		{
			VersionedRecord: versioned(),
			RunID:           run.ID,
			Iteration:       1,
			Width:           8,
			Locations:       []int{3, 1, 4},
			State:           model.StatePatienceExhausted,
		},
	}
	if err := store.SaveMotifs(ctx, run.ID, motifs); err != nil {
		t.Fatalf("save motifs: %v", err)
	}
	loadedMotifs, ok, err := store.GetMotifs(ctx, run.ID)
	if err != nil {
		t.Fatalf("get motifs: %v", err)
	}
	if !ok || len(loadedMotifs) != 1 || loadedMotifs[0].Width != 8 {
		t.Fatalf("unexpected motifs: ok=%v %+v", ok, loadedMotifs)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestSQLiteStoreMissingRecords(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "shapemotif.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetScoreHistory(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing history: ok=%v err=%v", ok, err)
	}
}
