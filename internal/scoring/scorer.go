package scoring

import (
	"context"
	"math"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/matching"
	"github.com/jonathan/ats-optimizer/internal/sections"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// Maximum points per scoring factor
const (
	keywordWeight       = 40.0
	requirementsWeight  = 30.0
	sectionsWeight      = 10.0
	bulletsWeight       = 10.0
	structureWeight     = 5.0
	bulletPresenceBonus = 5.0

	// noRequirementsScore is awarded when the job lists no phrases at all.
	noRequirementsScore = 20.0
)

// requiredSections are the sections every ATS-friendly resume should carry.
var requiredSections = []types.SectionType{
	types.SectionEducation,
	types.SectionSkills,
	types.SectionExperience,
}

// VariantChecker recognizes alternative names for a term.
type VariantChecker interface {
	HasVariant(ctx context.Context, term, text string) bool
}

// Scorer computes the 0-100 ATS score of a rewritten resume.
type Scorer struct {
	variants VariantChecker
	detector *sections.Detector
}

// NewScorer creates a Scorer. A nil checker uses the static variation table only.
func NewScorer(variants VariantChecker, det *sections.Detector) *Scorer {
	if variants == nil {
		variants = matching.NewResolver(nil, nil, nil)
	}
	if det == nil {
		det = sections.Default()
	}
	return &Scorer{variants: variants, detector: det}
}

// Score returns the rounded total, clamped to [0, 100].
func (s *Scorer) Score(ctx context.Context, in types.AtsScoreInputs) int {
	return s.Breakdown(ctx, in).Total
}

// Breakdown returns the points earned by each factor along with the total.
func (s *Scorer) Breakdown(ctx context.Context, in types.AtsScoreInputs) types.ScoreBreakdown {
	b := types.ScoreBreakdown{
		Keyword:      computeKeywordScore(in.Verification),
		Requirements: s.computeRequirementsScore(ctx, in.OptimizedText, in.JobData),
	}

	origSections := s.detector.DetectSections(in.OriginalText)
	optSections := s.detector.DetectSections(in.OptimizedText)
	origBullets := sections.CountBulletPoints(in.OriginalText)
	optBullets := sections.CountBulletPoints(in.OptimizedText)

	b.Completeness = computeCompletenessScore(len(origSections), len(optSections), origBullets, optBullets)
	b.Formatting = computeFormattingScore(optSections, optBullets)

	total := b.Keyword + b.Requirements + b.Completeness + b.Formatting
	b.Total = int(math.Max(0, math.Min(100, math.RoundToEven(total))))
	return b
}

// computeKeywordScore scales the integration rate to the keyword weight.
func computeKeywordScore(v types.KeywordVerification) float64 {
	return clamp(v.IntegrationRate/100*keywordWeight, keywordWeight)
}

// computeRequirementsScore awards points for the fraction of job phrases present in the text,
// by word boundary or a known variation.
func (s *Scorer) computeRequirementsScore(ctx context.Context, text string, job types.JobData) float64 {
	phrases := job.Phrases()
	if len(phrases) == 0 {
		return noRequirementsScore
	}

	textLower := strings.ToLower(text)
	matched := 0
	for _, phrase := range phrases {
		phraseLower := strings.ToLower(phrase)
		if matching.ContainsWord(textLower, phraseLower) || s.variants.HasVariant(ctx, phraseLower, textLower) {
			matched++
		}
	}
	return clamp(float64(matched)/float64(len(phrases))*requirementsWeight, requirementsWeight)
}

// computeCompletenessScore penalizes rewrites that lost sections or bullets.
func computeCompletenessScore(origSections, optSections, origBullets, optBullets int) float64 {
	score := sectionsWeight
	if optSections < origSections {
		score = float64(optSections) / float64(max(origSections, 1)) * sectionsWeight
	}
	if optBullets >= origBullets {
		score += bulletsWeight
	} else {
		score += float64(optBullets) / float64(max(origBullets, 1)) * bulletsWeight
	}
	return score
}

// computeFormattingScore rewards the standard sections and bulleted content.
func computeFormattingScore(markers []types.SectionMarker, bullets int) float64 {
	found := 0
	for _, t := range requiredSections {
		if sections.HasSection(markers, t) {
			found++
		}
	}
	score := float64(found) / float64(len(requiredSections)) * structureWeight
	if bullets > 0 {
		score += bulletPresenceBonus
	}
	return score
}

func clamp(v, limit float64) float64 {
	return math.Max(0, math.Min(limit, v))
}
