package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"shapemotif/internal/model"
	"shapemotif/internal/profile"
)

// maxLineBytes bounds one .dat record; profiles carry one float per base
// so wide regions produce long lines.
const maxLineBytes = 4 * 1024 * 1024

// Result is the outcome of reading one shape .dat file. Profiles and
// Regions are index-aligned: a record is either accepted into both or
// skipped from both, with the reason appended to Warnings.
type Result struct {
	Profiles *profile.Set
	Regions  []model.Region
	Warnings []string
}

// ReadShapeData parses the bwtool-integrated shape format: one record per
// region, five whitespace-separated fields
// (chrom, startCoord, endCoord, dataLength, commaSeparatedFloats).
// Malformed records are skipped whole and reported; the historical
// behavior of still appending a length-mismatched profile after a warning
// desynchronized profiles from bed coordinates and is deliberately not
// kept.
func ReadShapeData(r io.Reader) (Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		profiles [][]float64
		regions  []model.Region
		warnings []string
	)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			warnings = append(warnings, fmt.Sprintf("line %d: got %d fields, want 5; record skipped", lineNo, len(fields)))
			continue
		}

		start, err := strconv.Atoi(fields[1])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: bad start coordinate %q; record skipped", lineNo, fields[1]))
			continue
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: bad end coordinate %q; record skipped", lineNo, fields[2]))
			continue
		}
		declaredLen, err := strconv.Atoi(fields[3])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: bad data length %q; record skipped", lineNo, fields[3]))
			continue
		}

		values, err := parseFloats(fields[4])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v; record skipped", lineNo, err))
			continue
		}
		if len(values) != declaredLen {
			warnings = append(warnings, fmt.Sprintf("line %d: declared length %d but parsed %d values; record skipped", lineNo, declaredLen, len(values)))
			continue
		}

		profiles = append(profiles, values)
		regions = append(regions, model.Region{Chrom: fields[0], Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read shape data: %w", err)
	}
	if len(profiles) == 0 {
		return Result{}, fmt.Errorf("no usable records in shape data")
	}

	set, err := profile.NewSet(profiles)
	if err != nil {
		return Result{}, fmt.Errorf("build profile set: %w", err)
	}
	return Result{Profiles: set, Regions: regions, Warnings: warnings}, nil
}

// ReadShapeDataFile opens path and parses it with ReadShapeData.
func ReadShapeDataFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	res, err := ReadShapeData(f)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	values := make([]float64, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad float at value %d: %q", i, part)
		}
		values = append(values, v)
	}
	return values, nil
}
