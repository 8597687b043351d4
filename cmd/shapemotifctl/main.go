package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shapemotif/internal/stats"
	"shapemotif/internal/storage"
	motifapi "shapemotif/pkg/shapemotif"
)

const (
	runsDir    = "runs"
	exportsDir = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "find":
		return runFind(ctx, args[1:])
	case "scan":
		return runScan(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "motifs":
		return runMotifs(ctx, args[1:])
	case "occurrences":
		return runOccurrences(ctx, args[1:])
	case "score":
		return runScore(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func newClient(storeKind, dbPath string) (*motifapi.Client, error) {
	return motifapi.New(motifapi.Options{
		StoreKind:  storeKind,
		DBPath:     dbPath,
		RunsDir:    runsDir,
		ExportsDir: exportsDir,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runFind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional find config JSON path")
	dataPath := fs.String("data", "", "shape data file path")
	windowSize := fs.Int("window", 10, "motif window size")
	motifCount := fs.Int("motifs", 1, "independent motif searches to run")
	seed := fs.Int64("seed", 1, "rng seed")
	seedPhrase := fs.String("seed-phrase", "", "string seed hashed to an rng seed (overrides --seed)")
	sigma := fs.Float64("sigma", 1.0, "stddev multiplier for the motif range envelope")
	maxPatience := fs.Int("max-patience", 0, "plateau sweeps tolerated before stopping (0 uses default)")
	improvementEpsilon := fs.Float64("improvement-epsilon", 0, "relative improvement treated as a plateau (0 uses default)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultFindRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = motifapi.FindRequest{
			DataPath:           *dataPath,
			WindowSize:         *windowSize,
			MotifCount:         *motifCount,
			Seed:               *seed,
			SeedPhrase:         *seedPhrase,
			SigmaCount:         *sigma,
			MaxPatience:        *maxPatience,
			ImprovementEpsilon: *improvementEpsilon,
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"data":                *dataPath,
			"window":              *windowSize,
			"motifs":              *motifCount,
			"seed":                *seed,
			"seed-phrase":         *seedPhrase,
			"sigma":               *sigma,
			"max-patience":        *maxPatience,
			"improvement-epsilon": *improvementEpsilon,
		})
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Find(ctx, req)
	if err != nil {
		return err
	}

	for _, warning := range summary.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	fmt.Printf("find completed run_id=%s sequences=%d seq_len=%d seed=%d\n", summary.RunID, summary.Sequences, summary.SeqLen, summary.Seed)
	for _, m := range summary.Motifs {
		fmt.Printf("iteration=%d extent=%d width=%d score=%.6f sweeps=%d state=%s matches=%d locations=%s\n",
			m.Iteration,
			m.Extent,
			m.Width,
			m.Score,
			m.Sweeps,
			m.State,
			m.SequencesWithMatch,
			formatLocations(m.Locations),
		)
	}
	fmt.Printf("final_best_score=%.6f\n", summary.FinalBestScore)
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	return nil
}

func runScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "scan with motifs from the most recent run")
	dataPath := fs.String("data", "", "shape data file path to scan")
	motifIndex := fs.Int("motif", -1, "motif index to scan with (-1 for all)")
	jsonOut := fs.Bool("json", false, "emit scan results as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("scan requires --run-id or --latest")
	}
	if *dataPath == "" {
		return errors.New("scan requires --data")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Scan(ctx, motifapi.ScanRequest{
		RunID:      *runID,
		Latest:     *latest,
		DataPath:   *dataPath,
		MotifIndex: *motifIndex,
	})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no scan results")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, item := range items {
		fmt.Printf("motif=%d width=%d sequences_with_match=%d total_occurrences=%d\n",
			item.MotifIndex,
			item.Width,
			item.SequencesWithMatch,
			item.TotalOccurrences,
		)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, motifapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s data=%s window=%d motifs=%d seed=%d sigma=%.2f final_best_score=%.6f\n",
			r.RunID,
			r.CreatedAtUTC,
			r.DataPath,
			r.WindowSize,
			r.MotifCount,
			r.Seed,
			r.SigmaCount,
			r.FinalBestScore,
		)
	}
	return nil
}

func runMotifs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("motifs", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show motifs for the most recent run from run index")
	limit := fs.Int("limit", 0, "max motifs to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit motifs as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("motifs requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	motifs, err := client.Motifs(ctx, motifapi.MotifsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(motifs) == 0 {
		fmt.Println("no motifs")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(motifs)
	}

	for i, m := range motifs {
		fmt.Printf("motif=%d iteration=%d extent=%d width=%d score=%.6f sweeps=%d state=%s sigma=%.2f locations=%s\n",
			i,
			m.Iteration,
			m.Extent,
			m.Width,
			m.Score,
			m.Sweeps,
			m.State,
			m.SigmaCount,
			formatLocations(m.Locations),
		)
	}
	return nil
}

func runOccurrences(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("occurrences", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show occurrences for the most recent run from run index")
	motifIndex := fs.Int("motif", -1, "motif index to show (-1 for all)")
	jsonOut := fs.Bool("json", false, "emit occurrences as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("occurrences requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	occurrences, err := client.Occurrences(ctx, motifapi.OccurrencesRequest{
		RunID:      *runID,
		Latest:     *latest,
		MotifIndex: *motifIndex,
	})
	if err != nil {
		return err
	}
	if len(occurrences) == 0 {
		fmt.Println("no occurrences")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(occurrences)
	}

	for _, record := range occurrences {
		total := 0
		for _, offsets := range record.OffsetsBySequence {
			total += len(offsets)
		}
		fmt.Printf("motif=%d sequences_with_match=%d total_occurrences=%d\n",
			record.MotifIndex,
			record.SequencesWithMatch,
			total,
		)
	}
	return nil
}

func runScore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show score history for the most recent run from run index")
	limit := fs.Int("limit", 0, "max iterations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit score history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shapemotif.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("score requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.ScoreHistory(ctx, motifapi.ScoreHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no score history")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for i, score := range history {
		fmt.Printf("iteration=%d score=%.6f\n", i+1, score)
	}
	return nil
}

func runExport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}
	if *latest {
		entries, err := stats.ListRunIndex(runsDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available to export")
		}
		*runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(runsDir, *runID, *outDir)
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s to=%s\n", *runID, filepath.Clean(exportedDir))
	return nil
}

func formatLocations(locations []int) string {
	parts := make([]string, len(locations))
	for i, loc := range locations {
		parts[i] = fmt.Sprintf("%d", loc)
	}
	return strings.Join(parts, ",")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: shapemotifctl <init|reset|find|scan|runs|motifs|occurrences|score|export> [flags]", msg)
}
