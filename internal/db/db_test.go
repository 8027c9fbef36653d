package db

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{1, 1},
		{50, 50},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampLimit(tt.in), "limit %d", tt.in)
	}
}

func TestResumeHash(t *testing.T) {
	h := ResumeHash("  Jane Doe\nEngineer \n")
	assert.Len(t, h, 64)
	assert.Equal(t, h, ResumeHash("Jane Doe\nEngineer"))
	assert.NotEqual(t, h, ResumeHash("John Doe\nEngineer"))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS analyses")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS optimizations")
}

func TestOptimizationJSON_OmitsMissingAnalysis(t *testing.T) {
	o := Optimization{ID: uuid.New(), JobTitle: "Engineer", Result: types.OptimizationResult{Success: true}}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "analysis_id")
}
