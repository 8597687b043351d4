package storage

import (
	"encoding/json"
	"errors"

	"shapemotif/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(run model.MotifRun) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.MotifRun, error) {
	var run model.MotifRun
	if err := json.Unmarshal(data, &run); err != nil {
		return model.MotifRun{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.MotifRun{}, err
	}
	return run, nil
}

func EncodeMotifs(motifs []model.MotifRecord) ([]byte, error) {
	return json.Marshal(motifs)
}

func DecodeMotifs(data []byte) ([]model.MotifRecord, error) {
	var motifs []model.MotifRecord
	if err := json.Unmarshal(data, &motifs); err != nil {
		return nil, err
	}
	for _, motif := range motifs {
		if err := checkVersion(motif.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return motifs, nil
}

func EncodeScoreHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeScoreHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeSweepDiagnostics(diagnostics []model.SweepDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeSweepDiagnostics(data []byte) ([]model.SweepDiagnostics, error) {
	var diagnostics []model.SweepDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func EncodeOccurrences(occurrences []model.OccurrenceRecord) ([]byte, error) {
	return json.Marshal(occurrences)
}

func DecodeOccurrences(data []byte) ([]model.OccurrenceRecord, error) {
	var occurrences []model.OccurrenceRecord
	if err := json.Unmarshal(data, &occurrences); err != nil {
		return nil, err
	}
	for _, occurrence := range occurrences {
		if err := checkVersion(occurrence.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return occurrences, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
