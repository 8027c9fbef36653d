// Package optimize rewrites a resume around user-selected keywords and scores the result.
package optimize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/prompts"
	"github.com/jonathan/ats-optimizer/internal/schemas"
	"github.com/jonathan/ats-optimizer/internal/scoring"
	"github.com/jonathan/ats-optimizer/internal/sections"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

const (
	optimizeMaxTokens = 16000
	optimizeTopP      = 0.1

	// maxDescriptionRunes bounds the job description sent as prompt context.
	maxDescriptionRunes = 2000

	// minLengthRatio is the fraction of the original length below which a rewrite is
	// suspected of dropping content.
	minLengthRatio = 0.8
)

// Failure messages reported in OptimizationResult.Message.
const (
	MsgNoKeywords      = "No keywords selected."
	MsgNoValidKeywords = "No valid keywords."
	MsgNoAPIKey        = "LLM API key missing."
	MsgInvalidJSON     = "AI returned invalid JSON."
	MsgNoResume        = "No resume generated."
	MsgSuccess         = "New resume generated successfully"
)

// techTerms are looked up in the job description to enrich scoring requirements.
var techTerms = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node", "sql", "nosql", "mongodb", "postgresql", "mysql", "docker",
	"kubernetes", "aws", "azure", "gcp", "git", "jenkins", "ci/cd",
}

// Service generates keyword-optimized resumes.
type Service struct {
	client   llm.Client
	detector *sections.Detector
	scorer   *scoring.Scorer
	log      logrus.FieldLogger
}

// NewService creates a Service. A nil client makes every Optimize call fail with MsgNoAPIKey.
func NewService(client llm.Client, det *sections.Detector, scorer *scoring.Scorer, log logrus.FieldLogger) *Service {
	if det == nil {
		det = sections.Default()
	}
	if scorer == nil {
		scorer = scoring.NewScorer(nil, det)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{client: client, detector: det, scorer: scorer, log: log}
}

type optimizeReply struct {
	OptimizedResume json.RawMessage `json:"optimizedResume"`
	AtsScore        float64         `json:"atsScore"`
	Tips            []string        `json:"tips"`
}

// Optimize rewrites req.OriginalResumeText. It never returns an error: every failure,
// including a panic inside the pipeline, is reported as Success=false with a Message.
func (s *Service) Optimize(ctx context.Context, req types.OptimizeRequest) (result *types.OptimizationResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("Resume generation panicked")
			result = failure(fmt.Sprintf("Generation failed: %v", r))
		}
	}()

	if len(req.SelectedKeywords) == 0 {
		return failure(MsgNoKeywords)
	}
	keywords := req.KeywordStrings()
	if len(keywords) == 0 {
		return failure(MsgNoValidKeywords)
	}
	if s.client == nil {
		return failure(MsgNoAPIKey)
	}

	result, err := s.optimize(ctx, req, keywords)
	if err != nil {
		s.log.WithError(err).Error("Resume generation failed")
		if errors.Is(err, llm.ErrNotConfigured) {
			return failure(MsgNoAPIKey)
		}
		return failure("Generation failed: " + err.Error())
	}
	return result
}

func (s *Service) optimize(ctx context.Context, req types.OptimizeRequest, keywords []string) (*types.OptimizationResult, error) {
	original := req.OriginalResumeText
	originalSections := s.detector.DetectSections(original)
	originalBullets := sections.CountBulletPoints(original)

	s.log.WithFields(logrus.Fields{
		"keywords": len(keywords),
		"sections": len(originalSections),
		"bullets":  originalBullets,
	}).Info("Generating optimized resume")

	raw, err := s.generate(ctx, req, keywords)
	if err != nil {
		return nil, err
	}

	var reply optimizeReply
	if err := llm.DecodeStructured(raw, schemas.OptimizedResume, &reply); err != nil {
		var serr *llm.StructuredOutputError
		if errors.As(err, &serr) {
			s.log.WithError(err).WithField("stage", serr.Stage).Warn("Unusable optimization reply")
			if serr.Stage == llm.StageParse {
				return failure(MsgInvalidJSON), nil
			}
			return failure(MsgNoResume), nil
		}
		return nil, err
	}

	text, err := replyText(reply.OptimizedResume)
	if err != nil {
		s.log.WithError(err).Warn("Could not decode optimizedResume")
		return failure(MsgInvalidJSON), nil
	}
	if strings.TrimSpace(text) == "" {
		return failure(MsgNoResume), nil
	}
	text = ingestion.CleanEncodingArtifacts(text)

	optimizedSections := s.detector.DetectSections(text)
	optimizedBullets := sections.CountBulletPoints(text)
	warnings := compare(original, text, len(originalSections), len(optimizedSections), originalBullets, optimizedBullets)

	s.log.WithFields(logrus.Fields{
		"original_length":    utf8.RuneCountInString(original),
		"optimized_length":   utf8.RuneCountInString(text),
		"original_sections":  len(originalSections),
		"optimized_sections": len(optimizedSections),
		"original_bullets":   originalBullets,
		"optimized_bullets":  optimizedBullets,
	}).Info("Compared optimized resume with original")
	for _, w := range warnings {
		s.log.Warn(w)
	}

	verification := scoring.Verify(text, keywords)
	breakdown := s.scorer.Breakdown(ctx, types.AtsScoreInputs{
		OptimizedText: text,
		OriginalText:  original,
		JobData:       JobDataFor(req.JobTitle, req.JobDescription, keywords),
		Verification:  verification,
	})

	s.log.WithFields(logrus.Fields{
		"integrated": len(verification.Integrated),
		"ats_score":  breakdown.Total,
	}).Info("Optimized resume generated")

	return &types.OptimizationResult{
		Success:             true,
		Message:             MsgSuccess,
		OptimizedResume:     text,
		KeywordVerification: &verification,
		AtsScore:            breakdown.Total,
		ScoreBreakdown:      &breakdown,
		Tips:                reply.Tips,
		Warnings:            warnings,
		Metadata: types.OptimizationMetadata{
			KeywordsRequested:  len(keywords),
			KeywordsIntegrated: len(verification.Integrated),
		},
	}, nil
}

var optimizePrompt = prompts.MustGet("optimize.json", "optimize_resume")

func (s *Service) generate(ctx context.Context, req types.OptimizeRequest, keywords []string) (string, error) {
	title := strings.TrimSpace(req.JobTitle)
	if title == "" {
		title = "Not specified"
	}
	description := truncateRunes(req.JobDescription, maxDescriptionRunes)
	if description == "" {
		description = "Not provided"
	}
	lines := make([]string, len(keywords))
	for i, kw := range keywords {
		lines[i] = "→ " + kw
	}

	prompt := optimizePrompt.Render(map[string]string{
		"Resume":         req.OriginalResumeText,
		"JobTitle":       title,
		"KeywordCount":   fmt.Sprint(len(keywords)),
		"Keywords":       strings.Join(lines, "\n"),
		"JobDescription": description,
	})

	return s.client.GenerateJSON(ctx, llm.Request{
		System:    prompt.System,
		Prompt:    prompt.User,
		Tier:      llm.TierAdvanced,
		MaxTokens: optimizeMaxTokens,
		TopP:      optimizeTopP,
	})
}

// replyText turns the optimizedResume member into plain text, flattening structured replies.
func replyText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	v, err := decodeOrdered(raw)
	if err != nil {
		return "", err
	}
	return ResumeText(v), nil
}

// compare returns a warning for each sign that the rewrite dropped content.
func compare(original, optimized string, origSections, optSections, origBullets, optBullets int) []string {
	var warnings []string

	origLen := utf8.RuneCountInString(original)
	optLen := utf8.RuneCountInString(optimized)
	if float64(optLen) < float64(origLen)*minLengthRatio {
		warnings = append(warnings, fmt.Sprintf(
			"Optimized resume is %d characters shorter than the original; content may have been omitted.", origLen-optLen))
	}
	if optBullets < origBullets {
		warnings = append(warnings, fmt.Sprintf(
			"Optimized resume has %d fewer bullet points; some experiences or achievements may have been omitted.", origBullets-optBullets))
	}
	if optSections < origSections {
		warnings = append(warnings, fmt.Sprintf(
			"Optimized resume has %d fewer sections than the original.", origSections-optSections))
	}
	return warnings
}

// JobDataFor builds the scoring requirements for an optimization: the selected keywords
// as skills plus the common technologies named in the description.
func JobDataFor(title, description string, keywords []string) types.JobData {
	job := types.JobData{
		Title:        title,
		Description:  description,
		Skills:       append(types.PhraseList{}, keywords...),
		Technologies: types.PhraseList{},
	}
	lower := strings.ToLower(description)
	for _, tech := range techTerms {
		if strings.Contains(lower, tech) {
			job.Technologies = append(job.Technologies, tech)
		}
	}
	return job
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func failure(msg string) *types.OptimizationResult {
	return &types.OptimizationResult{Success: false, Message: msg}
}
