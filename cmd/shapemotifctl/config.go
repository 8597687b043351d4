package main

import (
	"encoding/json"
	"fmt"
	"os"

	motifapi "shapemotif/pkg/shapemotif"
)

func loadFindRequestFromConfig(path string) (motifapi.FindRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return motifapi.FindRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return motifapi.FindRequest{}, err
	}

	var req motifapi.FindRequest
	if v, ok := asString(raw["data_path"]); ok {
		req.DataPath = v
	}
	if v, ok := asInt(raw["window_size"]); ok {
		req.WindowSize = v
	}
	if v, ok := asInt(raw["motif_count"]); ok {
		req.MotifCount = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["seed_phrase"]); ok {
		req.SeedPhrase = v
	}
	if v, ok := asFloat64(raw["sigma_count"]); ok {
		req.SigmaCount = v
	}
	if v, ok := asInt(raw["max_patience"]); ok {
		req.MaxPatience = v
	}
	if v, ok := asFloat64(raw["improvement_epsilon"]); ok {
		req.ImprovementEpsilon = v
	}
	return req, nil
}

func loadOrDefaultFindRequest(configPath string) (motifapi.FindRequest, error) {
	if configPath == "" {
		return motifapi.FindRequest{}, nil
	}
	req, err := loadFindRequestFromConfig(configPath)
	if err != nil {
		return motifapi.FindRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func overrideFromFlags(req *motifapi.FindRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "data":
			req.DataPath = v.(string)
		case "window":
			req.WindowSize = v.(int)
		case "motifs":
			req.MotifCount = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "seed-phrase":
			req.SeedPhrase = v.(string)
		case "sigma":
			req.SigmaCount = v.(float64)
		case "max-patience":
			req.MaxPatience = v.(int)
		case "improvement-epsilon":
			req.ImprovementEpsilon = v.(float64)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
