package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// SaveAnalysis stores a match result. Only a hash of the resume text is kept.
func (db *DB) SaveAnalysis(ctx context.Context, resumeText, jobTitle string, result *types.MatchResult) (uuid.UUID, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, resume_hash, job_title, result)
		 VALUES ($1, $2, $3, $4)`,
		id, ResumeHash(resumeText), jobTitle, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves an analysis by ID. It returns nil, nil when none exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, resume_hash, job_title, result, created_at
		 FROM analyses WHERE id = $1`,
		id,
	)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]Analysis, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_hash, job_title, result, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return analyses, nil
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var content []byte
	if err := row.Scan(&a.ID, &a.ResumeHash, &a.JobTitle, &content, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &a.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis %s: %w", a.ID, err)
	}
	return &a, nil
}

// ResumeHash is the stored fingerprint of a resume's trimmed text.
func ResumeHash(resumeText string) string {
	return cache.HashKey(strings.TrimSpace(resumeText))
}
