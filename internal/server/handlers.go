package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/scoring"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

const (
	// uploadField is the multipart field carrying the resume file.
	uploadField = "resume"
	// previewRunes bounds the preview returned alongside extracted text.
	previewRunes = 2000
	// multipartOverhead is allowed on top of the file size limit for form boundaries and headers.
	multipartOverhead = 1 << 20
)

// ExtractTextResponse is the body returned for an uploaded resume.
type ExtractTextResponse struct {
	Success        bool                   `json:"success"`
	Filename       string                 `json:"filename"`
	TextLength     int                    `json:"textLength"`
	Text           string                 `json:"text"`
	FullText       string                 `json:"fullText"`
	Preview        string                 `json:"preview"`
	FullTextLength int                    `json:"fullTextLength"`
	Formatting     types.Formatting       `json:"formatting"`
	Source         types.ExtractionSource `json:"source"`
}

// AnalyzeResponse is a match result plus the id it was stored under.
type AnalyzeResponse struct {
	*types.MatchResult
	AnalysisID *uuid.UUID `json:"analysisId,omitempty"`
}

// OptimizeResponse is an optimization result plus the id it was stored under.
type OptimizeResponse struct {
	*types.OptimizationResult
	OptimizationID *uuid.UUID `json:"optimizationId,omitempty"`
}

// ScoreResponse reports keyword integration and the weighted ATS breakdown.
type ScoreResponse struct {
	AtsScore            int                       `json:"atsScore"`
	KeywordVerification types.KeywordVerification `json:"keywordVerification"`
	ScoreBreakdown      types.ScoreBreakdown      `json:"scoreBreakdown"`
}

// optimizeRequest optionally links an optimization to an earlier analysis.
type optimizeRequest struct {
	types.OptimizeRequest
	AnalysisID *uuid.UUID `json:"analysis_id,omitempty"`
}

// handleExtractText extracts normalized text from an uploaded resume.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.handleError(w, "Text extraction", &ErrTooLarge{Limit: limit})
			return
		}
		s.handleError(w, "Text extraction", &ErrValidation{Field: uploadField, Message: "Resume file is required"})
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart file

	filename := header.Filename
	if strings.TrimSpace(filename) == "" {
		s.handleError(w, "Text extraction", &ErrValidation{Field: uploadField, Message: "Filename is required"})
		return
	}
	if !s.cfg.IsAllowedFileType(filename) {
		allowed := s.cfg.AllowedFileTypes
		if len(allowed) == 0 {
			allowed = config.DefaultAllowedFileTypes
		}
		s.handleError(w, "Text extraction", &ErrUnsupportedMedia{Allowed: allowed})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.handleError(w, "Text extraction", fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if len(data) == 0 {
		s.handleError(w, "Text extraction", &ErrValidation{Field: uploadField, Message: "Empty file provided"})
		return
	}
	if int64(len(data)) > limit {
		s.handleError(w, "Text extraction", &ErrTooLarge{Limit: limit})
		return
	}

	s.log.WithFields(logrus.Fields{"filename": filename, "bytes": len(data)}).Info("Extracting text")
	result, err := s.extractor.ExtractFile(r.Context(), filename, data)
	if err != nil {
		s.handleError(w, "Text extraction", err)
		return
	}

	length := utf8.RuneCountInString(result.Text)
	s.jsonResponse(w, http.StatusOK, ExtractTextResponse{
		Success:        true,
		Filename:       filename,
		TextLength:     length,
		Text:           result.Text,
		FullText:       result.Text,
		Preview:        preview(result.Text),
		FullTextLength: length,
		Formatting:     result.Formatting,
		Source:         result.Source,
	})
}

// handleAnalyzeKeywords matches resume text against job requirement phrases.
func (s *Server) handleAnalyzeKeywords(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, "Keyword analysis", err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, "Keyword analysis", err)
		return
	}

	result, err := s.matcher.Match(r.Context(), req.ResumeText, req.JobData)
	if err != nil {
		s.handleError(w, "Keyword analysis", err)
		return
	}

	resp := AnalyzeResponse{MatchResult: result}
	if s.store != nil {
		id, err := s.store.SaveAnalysis(r.Context(), req.ResumeText, req.JobData.Title, result)
		if err != nil {
			s.log.WithError(err).Warn("Failed to persist analysis")
		} else {
			resp.AnalysisID = &id
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleOptimizeResume rewrites a resume around the selected keywords. Optimizer failures are
// part of the result body, not the status code.
func (s *Server) handleOptimizeResume(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, "Resume optimization", err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, "Resume optimization", err)
		return
	}
	if len(req.SelectedKeywords) == 0 {
		s.handleError(w, "Resume optimization", &ErrValidation{
			Field:   "selected_keywords",
			Message: "At least one keyword must be selected for optimization",
		})
		return
	}

	result := s.optimizer.Optimize(r.Context(), req.OptimizeRequest)
	if !result.Success {
		s.log.WithField("message", result.Message).Warn("Resume optimization failed")
	}

	resp := OptimizeResponse{OptimizationResult: result}
	if s.store != nil && result.Success {
		id, err := s.store.SaveOptimization(r.Context(), req.AnalysisID, req.JobTitle, result)
		if err != nil {
			s.log.WithError(err).Warn("Failed to persist optimization")
		} else {
			resp.OptimizationID = &id
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleScore verifies keyword integration and scores an already optimized resume.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, "Scoring", err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, "Scoring", err)
		return
	}

	verification := scoring.Verify(req.OptimizedText, req.Keywords)
	breakdown := s.scorer.Breakdown(r.Context(), types.AtsScoreInputs{
		OptimizedText: req.OptimizedText,
		OriginalText:  req.OriginalText,
		JobData:       req.JobData,
		Verification:  verification,
	})

	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		AtsScore:            breakdown.Total,
		KeywordVerification: verification,
		ScoreBreakdown:      breakdown,
	})
}

// handleGetAnalysis returns a stored analysis by id.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := s.lookupID(r)
	if err != nil {
		s.handleError(w, "Analysis lookup", err)
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.handleError(w, "Analysis lookup", err)
		return
	}
	if analysis == nil {
		s.handleError(w, "Analysis lookup", &ErrNotFound{Resource: "analysis", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleListAnalyses returns the most recent analyses. The optional limit query parameter is
// clamped by the store.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, "Analysis listing", &ErrUnavailable{Feature: "persistence"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.handleError(w, "Analysis listing", &ErrValidation{Field: "limit", Message: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	analyses, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.handleError(w, "Analysis listing", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// handleGetOptimization returns a stored optimization by id.
func (s *Server) handleGetOptimization(w http.ResponseWriter, r *http.Request) {
	id, err := s.lookupID(r)
	if err != nil {
		s.handleError(w, "Optimization lookup", err)
		return
	}

	opt, err := s.store.GetOptimization(r.Context(), id)
	if err != nil {
		s.handleError(w, "Optimization lookup", err)
		return
	}
	if opt == nil {
		s.handleError(w, "Optimization lookup", &ErrNotFound{Resource: "optimization", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, opt)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ats_optimizer",
		"message": "Resume analysis service is operational",
	})
}

// lookupID checks that persistence is configured and parses the {id} path value.
func (s *Server) lookupID(r *http.Request) (uuid.UUID, error) {
	if s.store == nil {
		return uuid.Nil, &ErrUnavailable{Feature: "persistence"}
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "Invalid ID format"}
	}
	return id, nil
}

// decodeJSON decodes a bounded JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return &ErrTooLarge{Limit: s.cfg.MaxUploadBytes}
		}
		return &ErrValidation{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

// preview returns at most previewRunes runes of text.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes])
}
