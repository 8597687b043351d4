package storage

import (
	"errors"
	"testing"

	"shapemotif/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	run := model.MotifRun{
		VersionedRecord: versioned(),
		ID:              "r1",
		WindowSize:      8,
		Seed:            7,
	}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != run.ID || decoded.WindowSize != run.WindowSize {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	run := model.MotifRun{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		ID:              "r1",
	}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}

	motifs := []model.MotifRecord{{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: 99},
	}}
	payload, err := EncodeMotifs(motifs)
	if err != nil {
		t.Fatalf("encode motifs: %v", err)
	}
	if _, err := DecodeMotifs(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	if _, err := DecodeRun([]byte("{")); err == nil {
		t.Fatal("expected error for malformed run payload")
	}
	if _, err := DecodeMotifs([]byte("nope")); err == nil {
		t.Fatal("expected error for malformed motifs payload")
	}
}
