package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// List limits for ListAnalyses
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Analysis is a stored keyword analysis.
type Analysis struct {
	ID         uuid.UUID         `json:"id"`
	ResumeHash string            `json:"resume_hash"`
	JobTitle   string            `json:"job_title"`
	Result     types.MatchResult `json:"result"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Optimization is a stored resume optimization.
type Optimization struct {
	ID         uuid.UUID                `json:"id"`
	AnalysisID *uuid.UUID               `json:"analysis_id,omitempty"`
	JobTitle   string                   `json:"job_title"`
	Result     types.OptimizationResult `json:"result"`
	CreatedAt  time.Time                `json:"created_at"`
}

// clampLimit maps a requested page size onto [1, MaxListLimit].
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
