package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Region holds the bed coordinates a shape profile was extracted from.
type Region struct {
	Chrom string `json:"chrom"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SamplerState names the terminal state of a convergence run.
type SamplerState string

const (
	StateConverged         SamplerState = "converged"
	StatePatienceExhausted SamplerState = "patience_exhausted"
)

// MotifRecord is one discovered (or extended) motif: the frozen window
// locations plus the derived per-position tolerance ranges.
type MotifRecord struct {
	VersionedRecord
	RunID      string       `json:"run_id"`
	Iteration  int          `json:"iteration"`
	Extent     int          `json:"extent"`
	Width      int          `json:"width"`
	Locations  []int        `json:"locations"`
	Score      float64      `json:"score"`
	Sweeps     int          `json:"sweeps"`
	State      SamplerState `json:"state"`
	SigmaCount float64      `json:"sigma_count"`
	RangeMin   []float64    `json:"range_min"`
	RangeMax   []float64    `json:"range_max"`
}

// MotifRun is the persisted metadata for one motif-search run.
type MotifRun struct {
	VersionedRecord
	ID           string  `json:"id"`
	DataPath     string  `json:"data_path"`
	WindowSize   int     `json:"window_size"`
	MotifCount   int     `json:"motif_count"`
	Seed         int64   `json:"seed"`
	SigmaCount   float64 `json:"sigma_count"`
	Sequences    int     `json:"sequences"`
	SeqLen       int     `json:"seq_len"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// SweepDiagnostics records one sweep of one convergence run.
type SweepDiagnostics struct {
	Sweep        int     `json:"sweep"`
	Score        float64 `json:"score"`
	Best         float64 `json:"best"`
	PatienceUsed int     `json:"patience_used"`
}

// OccurrenceRecord lists where one motif's range model matches a profile
// set. Overlapping occurrences are all counted.
type OccurrenceRecord struct {
	VersionedRecord
	RunID              string        `json:"run_id"`
	MotifIndex         int           `json:"motif_index"`
	SequencesWithMatch int           `json:"sequences_with_match"`
	OffsetsBySequence  map[int][]int `json:"offsets_by_sequence"`
}
