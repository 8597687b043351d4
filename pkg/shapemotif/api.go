package shapemotif

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"shapemotif/internal/gibbs"
	"shapemotif/internal/ingest"
	"shapemotif/internal/model"
	"shapemotif/internal/motif"
	"shapemotif/internal/stats"
	"shapemotif/internal/storage"
)

const (
	defaultRunsDir    = "runs"
	defaultExportsDir = "exports"
	defaultDBPath     = "shapemotif.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	RunsDir    string
	ExportsDir string
}

type Client struct {
	store       storage.Store
	initialized bool

	runsDir    string
	exportsDir string
}

type FindRequest struct {
	DataPath           string
	WindowSize         int
	MotifCount         int
	Seed               int64
	SeedPhrase         string
	SigmaCount         float64
	MaxPatience        int
	ImprovementEpsilon float64
}

type MotifSummary struct {
	Iteration          int
	Extent             int
	Width              int
	Score              float64
	Sweeps             int
	State              model.SamplerState
	Locations          []int
	SequencesWithMatch int
}

type FindSummary struct {
	RunID            string
	ArtifactsDir     string
	Seed             int64
	Sequences        int
	SeqLen           int
	Motifs           []MotifSummary
	ScoreByIteration []float64
	FinalBestScore   float64
	Warnings         []string
}

type ScanRequest struct {
	RunID      string
	Latest     bool
	DataPath   string
	MotifIndex int
}

type ScanItem struct {
	MotifIndex         int
	Width              int
	SequencesWithMatch int
	TotalOccurrences   int
	OffsetsBySequence  map[int][]int
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	DataPath       string
	WindowSize     int
	MotifCount     int
	Seed           int64
	SigmaCount     float64
	FinalBestScore float64
}

type MotifsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type OccurrencesRequest struct {
	RunID      string
	Latest     bool
	MotifIndex int
}

type ScoreHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		runsDir:    runsDir,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

func (c *Client) Reset(ctx context.Context) error {
	if err := c.ensureStore(ctx); err != nil {
		return err
	}
	return c.store.Reset(ctx)
}

func (c *Client) Find(ctx context.Context, req FindRequest) (FindSummary, error) {
	if req.DataPath == "" {
		return FindSummary{}, errors.New("data path is required")
	}
	if req.WindowSize <= 0 {
		return FindSummary{}, errors.New("window size must be > 0")
	}
	if req.MotifCount <= 0 {
		req.MotifCount = 1
	}
	if req.SigmaCount < 0 {
		return FindSummary{}, errors.New("sigma count must be >= 0")
	}
	if req.SigmaCount == 0 {
		req.SigmaCount = 1.0
	}
	seed := req.Seed
	if req.SeedPhrase != "" {
		seed = gibbs.SeedFromString(req.SeedPhrase)
	}
	if seed == 0 {
		seed = 1
	}

	if err := c.ensureStore(ctx); err != nil {
		return FindSummary{}, err
	}

	loaded, err := ingest.ReadShapeDataFile(req.DataPath)
	if err != nil {
		return FindSummary{}, err
	}
	set := loaded.Profiles
	if req.WindowSize+gibbs.GrowExtents-1 > set.SeqLen() {
		return FindSummary{}, fmt.Errorf("window size %d leaves no room to extend within profile length %d", req.WindowSize, set.SeqLen())
	}

	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC()
	dataName := strings.TrimSuffix(filepath.Base(req.DataPath), filepath.Ext(req.DataPath))
	runID := fmt.Sprintf("%s-%d-%d", dataName, seed, now.Unix())

	versioned := model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}

	motifs := make([]model.MotifRecord, 0, req.MotifCount*(gibbs.GrowExtents+1))
	occurrences := make([]model.OccurrenceRecord, 0, cap(motifs))
	summaries := make([]MotifSummary, 0, cap(motifs))
	diagnostics := make([]model.SweepDiagnostics, 0, 64)
	scoreByIteration := make([]float64, 0, req.MotifCount)
	instances := make([]stats.Instance, 0, cap(motifs))
	instanceNames := make([]string, 0, cap(motifs))

	tuning := gibbs.Tuning{MaxPatience: req.MaxPatience, ImprovementEpsilon: req.ImprovementEpsilon}
	for iteration := 1; iteration <= req.MotifCount; iteration++ {
		results, err := gibbs.Grow(ctx, set, req.WindowSize, rng, tuning)
		if err != nil {
			return FindSummary{}, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		for i, res := range results {
			width := gibbs.ResultWidth(req.WindowSize, i)
			ranges, err := motif.NewRangeModel(set, res.Locations, width, req.SigmaCount)
			if err != nil {
				return FindSummary{}, fmt.Errorf("iteration %d: %w", iteration, err)
			}
			withMatch, bySequence := motif.CountOccurrences(set, ranges)

			record := model.MotifRecord{
				VersionedRecord: versioned,
				RunID:           runID,
				Iteration:       iteration,
				Extent:          width - req.WindowSize,
				Width:           width,
				Locations:       append([]int(nil), res.Locations...),
				Score:           res.Score,
				Sweeps:          res.Sweeps,
				State:           res.State,
				SigmaCount:      req.SigmaCount,
				RangeMin:        make([]float64, width),
				RangeMax:        make([]float64, width),
			}
			for p, interval := range ranges {
				record.RangeMin[p] = interval.Min
				record.RangeMax[p] = interval.Max
			}
			motifIndex := len(motifs)
			motifs = append(motifs, record)
			occurrences = append(occurrences, model.OccurrenceRecord{
				VersionedRecord:    versioned,
				RunID:              runID,
				MotifIndex:         motifIndex,
				SequencesWithMatch: withMatch,
				OffsetsBySequence:  bySequence,
			})
			summaries = append(summaries, MotifSummary{
				Iteration:          iteration,
				Extent:             record.Extent,
				Width:              width,
				Score:              res.Score,
				Sweeps:             res.Sweeps,
				State:              res.State,
				Locations:          append([]int(nil), res.Locations...),
				SequencesWithMatch: withMatch,
			})
			diagnostics = append(diagnostics, res.Diagnostics...)

			windows := make([][]float64, set.Count())
			for seq := 0; seq < set.Count(); seq++ {
				windows[seq] = append([]float64(nil), set.Window(seq, res.Locations[seq], width)...)
			}
			instances = append(instances, stats.Instance{Iteration: iteration, Width: width, Windows: windows})
			instanceNames = append(instanceNames, fmt.Sprintf("iter%03d_step%d", iteration, i))
		}

		scoreByIteration = append(scoreByIteration, results[len(results)-1].Score)
	}

	finalBest := scoreByIteration[0]
	for _, score := range scoreByIteration[1:] {
		if score < finalBest {
			finalBest = score
		}
	}

	run := model.MotifRun{
		VersionedRecord: versioned,
		ID:              runID,
		DataPath:        req.DataPath,
		WindowSize:      req.WindowSize,
		MotifCount:      req.MotifCount,
		Seed:            seed,
		SigmaCount:      req.SigmaCount,
		Sequences:       set.Count(),
		SeqLen:          set.SeqLen(),
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return FindSummary{}, err
	}
	if err := c.store.SaveMotifs(ctx, runID, motifs); err != nil {
		return FindSummary{}, err
	}
	if err := c.store.SaveScoreHistory(ctx, runID, scoreByIteration); err != nil {
		return FindSummary{}, err
	}
	if err := c.store.SaveSweepDiagnostics(ctx, runID, diagnostics); err != nil {
		return FindSummary{}, err
	}
	if err := c.store.SaveOccurrences(ctx, runID, occurrences); err != nil {
		return FindSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.runsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:              runID,
			DataPath:           req.DataPath,
			WindowSize:         req.WindowSize,
			MotifCount:         req.MotifCount,
			Seed:               seed,
			SeedPhrase:         req.SeedPhrase,
			SigmaCount:         req.SigmaCount,
			MaxPatience:        req.MaxPatience,
			ImprovementEpsilon: req.ImprovementEpsilon,
			Sequences:          set.Count(),
			SeqLen:             set.SeqLen(),
		},
		ScoreByIteration: scoreByIteration,
		SweepDiagnostics: diagnostics,
		Motifs:           motifs,
		Occurrences:      occurrences,
		FinalBestScore:   finalBest,
	})
	if err != nil {
		return FindSummary{}, err
	}
	for i, instance := range instances {
		if _, err := stats.WriteInstanceFile(runDir, instanceNames[i], instance); err != nil {
			return FindSummary{}, err
		}
	}

	if err := stats.AppendRunIndex(c.runsDir, stats.RunIndexEntry{
		RunID:          runID,
		DataPath:       req.DataPath,
		WindowSize:     req.WindowSize,
		MotifCount:     req.MotifCount,
		Seed:           seed,
		SigmaCount:     req.SigmaCount,
		FinalBestScore: finalBest,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
	}); err != nil {
		return FindSummary{}, err
	}

	return FindSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		Seed:             seed,
		Sequences:        set.Count(),
		SeqLen:           set.SeqLen(),
		Motifs:           summaries,
		ScoreByIteration: scoreByIteration,
		FinalBestScore:   finalBest,
		Warnings:         append([]string(nil), loaded.Warnings...),
	}, nil
}

func (c *Client) Scan(ctx context.Context, req ScanRequest) ([]ScanItem, error) {
	if req.DataPath == "" {
		return nil, errors.New("data path is required")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "scan")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	motifs, ok, err := c.store.GetMotifs(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("motifs not found for run id: %s", runID)
	}
	if req.MotifIndex >= len(motifs) {
		return nil, fmt.Errorf("motif index %d out of range: run has %d motifs", req.MotifIndex, len(motifs))
	}

	loaded, err := ingest.ReadShapeDataFile(req.DataPath)
	if err != nil {
		return nil, err
	}

	items := make([]ScanItem, 0, len(motifs))
	for i, record := range motifs {
		if req.MotifIndex >= 0 && i != req.MotifIndex {
			continue
		}
		ranges := make(motif.RangeModel, record.Width)
		for p := 0; p < record.Width; p++ {
			ranges[p] = motif.Interval{Min: record.RangeMin[p], Max: record.RangeMax[p]}
		}

		withMatch, bySequence := motif.CountOccurrences(loaded.Profiles, ranges)
		total := 0
		for _, offsets := range bySequence {
			total += len(offsets)
		}
		items = append(items, ScanItem{
			MotifIndex:         i,
			Width:              record.Width,
			SequencesWithMatch: withMatch,
			TotalOccurrences:   total,
			OffsetsBySequence:  bySequence,
		})
	}
	return items, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:          e.RunID,
			CreatedAtUTC:   e.CreatedAtUTC,
			DataPath:       e.DataPath,
			WindowSize:     e.WindowSize,
			MotifCount:     e.MotifCount,
			Seed:           e.Seed,
			SigmaCount:     e.SigmaCount,
			FinalBestScore: e.FinalBestScore,
		})
	}
	return out, nil
}

func (c *Client) Motifs(ctx context.Context, req MotifsRequest) ([]model.MotifRecord, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "motifs")
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	motifs, ok, err := c.store.GetMotifs(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("motifs not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(motifs) > req.Limit {
		motifs = motifs[:req.Limit]
	}
	out := make([]model.MotifRecord, len(motifs))
	copy(out, motifs)
	return out, nil
}

func (c *Client) Occurrences(ctx context.Context, req OccurrencesRequest) ([]model.OccurrenceRecord, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "occurrences")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	occurrences, ok, err := c.store.GetOccurrences(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("occurrences not found for run id: %s", runID)
	}
	if req.MotifIndex >= 0 {
		if req.MotifIndex >= len(occurrences) {
			return nil, fmt.Errorf("motif index %d out of range: run has %d motifs", req.MotifIndex, len(occurrences))
		}
		occurrences = occurrences[req.MotifIndex : req.MotifIndex+1]
	}
	out := make([]model.OccurrenceRecord, len(occurrences))
	copy(out, occurrences)
	return out, nil
}

func (c *Client) ScoreHistory(ctx context.Context, req ScoreHistoryRequest) ([]float64, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "score history")
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetScoreHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("score history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "export")
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.runsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Client) resolveRunID(runID string, latest bool, op string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.runsDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", fmt.Errorf("%s requires run id or latest", op)
	}
	return runID, nil
}
