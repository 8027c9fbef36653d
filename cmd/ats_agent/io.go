package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// readDocument extracts normalized text from a resume file of any supported format.
func (a *app) readDocument(ctx context.Context, path string) (*types.ExtractionResult, error) {
	if path == "" {
		return nil, fmt.Errorf("a file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := a.extractor.ExtractFile(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return result, nil
}

// readText returns a plain-text file's contents.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// readJobData loads a JobData JSON file. An empty path yields empty job data.
func readJobData(path string) (types.JobData, error) {
	var job types.JobData
	if path == "" {
		return job, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("failed to read job data: %w", err)
	}
	if err := json.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("failed to parse job data %s: %w", path, err)
	}
	return job, nil
}

// splitKeywords parses a comma-separated keyword list, dropping blanks.
func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
