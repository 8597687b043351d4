package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Instance is the historical motif snapshot format: a header line
// "#<iteration>,<width>" followed by one space-separated window per
// sequence, in sequence order.
type Instance struct {
	Iteration int
	Width     int
	Windows   [][]float64
}

func WriteInstance(w io.Writer, instance Instance) error {
	if instance.Width <= 0 {
		return fmt.Errorf("instance width must be positive: got=%d", instance.Width)
	}
	if _, err := fmt.Fprintf(w, "#%d,%d\n", instance.Iteration, instance.Width); err != nil {
		return err
	}
	for _, window := range instance.Windows {
		if len(window) != instance.Width {
			return fmt.Errorf("instance window length mismatch: got=%d want=%d", len(window), instance.Width)
		}
		parts := make([]string, len(window))
		for i, value := range window {
			parts[i] = fmt.Sprintf("%f", value)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

func WriteInstanceFile(runDir string, name string, instance Instance) (string, error) {
	if !strings.HasSuffix(name, ".instance") {
		name += ".instance"
	}
	path := filepath.Join(runDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteInstance(file, instance); err != nil {
		return "", err
	}
	if err := file.Sync(); err != nil {
		return "", err
	}
	return path, nil
}

func ReadInstance(r io.Reader) (Instance, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Instance{}, err
		}
		return Instance{}, fmt.Errorf("instance data is empty")
	}

	header := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(header, "#") {
		return Instance{}, fmt.Errorf("instance header must start with '#': got=%q", header)
	}
	fields := strings.Split(strings.TrimPrefix(header, "#"), ",")
	if len(fields) != 2 {
		return Instance{}, fmt.Errorf("instance header must have 2 fields: got=%q", header)
	}
	iteration, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Instance{}, fmt.Errorf("parse instance iteration: %w", err)
	}
	width, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Instance{}, fmt.Errorf("parse instance width: %w", err)
	}
	if width <= 0 {
		return Instance{}, fmt.Errorf("instance width must be positive: got=%d", width)
	}

	instance := Instance{Iteration: iteration, Width: width}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != width {
			return Instance{}, fmt.Errorf("instance window length mismatch: got=%d want=%d", len(parts), width)
		}
		window := make([]float64, len(parts))
		for i, part := range parts {
			value, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return Instance{}, fmt.Errorf("parse instance value: %w", err)
			}
			window[i] = value
		}
		instance.Windows = append(instance.Windows, window)
	}
	if err := scanner.Err(); err != nil {
		return Instance{}, err
	}
	if len(instance.Windows) == 0 {
		return Instance{}, fmt.Errorf("instance data has no windows")
	}
	return instance, nil
}

func ReadInstanceFile(path string) (Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return Instance{}, err
	}
	defer file.Close()
	return ReadInstance(file)
}
