package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// SaveOptimization stores an optimization result, optionally linked to the analysis it
// was built from.
func (db *DB) SaveOptimization(ctx context.Context, analysisID *uuid.UUID, jobTitle string, result *types.OptimizationResult) (uuid.UUID, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal optimization: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO optimizations (id, analysis_id, job_title, result)
		 VALUES ($1, $2, $3, $4)`,
		id, analysisID, jobTitle, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save optimization: %w", err)
	}
	return id, nil
}

// GetOptimization retrieves an optimization by ID. It returns nil, nil when none exists.
func (db *DB) GetOptimization(ctx context.Context, id uuid.UUID) (*Optimization, error) {
	var o Optimization
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, analysis_id, job_title, result, created_at
		 FROM optimizations WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.AnalysisID, &o.JobTitle, &content, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get optimization: %w", err)
	}

	if err := json.Unmarshal(content, &o.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal optimization %s: %w", id, err)
	}
	return &o, nil
}
