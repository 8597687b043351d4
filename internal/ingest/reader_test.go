package ingest

import (
	"strings"
	"testing"
)

func TestReadShapeData(t *testing.T) {
	in := strings.Join([]string{
		"chr1 100 104 4 0.5,1.0,1.5,2.0",
		"chr2 200 204 4 2.5,3.0,3.5,4.0",
	}, "\n")

	res, err := ReadShapeData(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Profiles.Count() != 2 {
		t.Fatalf("profiles: got=%d want=2", res.Profiles.Count())
	}
	if res.Profiles.SeqLen() != 4 {
		t.Fatalf("seq len: got=%d want=4", res.Profiles.SeqLen())
	}
	if len(res.Regions) != 2 {
		t.Fatalf("regions: got=%d want=2", len(res.Regions))
	}
	if res.Regions[1].Chrom != "chr2" || res.Regions[1].Start != 200 || res.Regions[1].End != 204 {
		t.Fatalf("region 1: got=%+v", res.Regions[1])
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: got=%v want none", res.Warnings)
	}
	if got := res.Profiles.At(0)[2]; got != 1.5 {
		t.Fatalf("profile value: got=%v want=1.5", got)
	}
}

func TestReadShapeDataSkipsMalformedRecordsWhole(t *testing.T) {
	in := strings.Join([]string{
		"chr1 100 104 4 0.5,1.0,1.5,2.0",
		"chr2 200 204 4",                      // missing values field
		"chr3 300 304 5 1.0,2.0,3.0,4.0",      // declared length mismatch
		"chr4 400 404 4 1.0,2.0,oops,4.0",     // unparsable float
		"chr5 nope 504 4 1.0,2.0,3.0,4.0",     // bad coordinate
		"chr6 600 604 4 9.0,8.0,7.0,6.0",
	}, "\n")

	res, err := ReadShapeData(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Profiles.Count() != 2 {
		t.Fatalf("profiles: got=%d want=2", res.Profiles.Count())
	}
	// Profiles and regions stay index-aligned after skips.
	if len(res.Regions) != res.Profiles.Count() {
		t.Fatalf("regions %d != profiles %d", len(res.Regions), res.Profiles.Count())
	}
	if res.Regions[1].Chrom != "chr6" {
		t.Fatalf("region 1: got=%s want=chr6", res.Regions[1].Chrom)
	}
	if len(res.Warnings) != 4 {
		t.Fatalf("warnings: got=%d (%v) want=4", len(res.Warnings), res.Warnings)
	}
}

func TestReadShapeDataEmptyInput(t *testing.T) {
	if _, err := ReadShapeData(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadShapeDataRaggedProfilesRejected(t *testing.T) {
	in := strings.Join([]string{
		"chr1 100 104 4 0.5,1.0,1.5,2.0",
		"chr2 200 203 3 2.5,3.0,3.5",
	}, "\n")
	if _, err := ReadShapeData(strings.NewReader(in)); err == nil {
		t.Fatal("expected error for unequal profile lengths")
	}
}
