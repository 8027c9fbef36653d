// Package matching classifies a job's requirement phrases as present in or missing from a
// resume and scores the overlap.
package matching

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

// KeywordFilter selects the missing phrases worth working into a resume.
type KeywordFilter interface {
	FilterActionable(ctx context.Context, missing []string, jobTitle string) ([]types.ActionableKeyword, error)
}

// Engine matches resumes against job data and memoizes results.
type Engine struct {
	resolver *Resolver
	filter   KeywordFilter
	store    cache.Cache
	log      logrus.FieldLogger
}

// NewEngine creates an Engine. Nil collaborators are replaced by no-op defaults.
func NewEngine(resolver *Resolver, filter KeywordFilter, store cache.Cache, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if resolver == nil {
		resolver = NewResolver(nil, nil, log)
	}
	if store == nil {
		store = cache.Nop{}
	}
	return &Engine{resolver: resolver, filter: filter, store: store, log: log}
}

// Match compares resumeText with the phrases of job. A cached result for the same inputs is
// returned verbatim. Keyword filter failures degrade to an empty keyword list; only context
// cancellation is returned as an error.
func (e *Engine) Match(ctx context.Context, resumeText string, job types.JobData) (*types.MatchResult, error) {
	phrases := job.Phrases()
	if len(phrases) == 0 {
		return &types.MatchResult{
			Success:            true,
			MissingPhrases:     []string{},
			MatchingPhrases:    []string{},
			ActionableKeywords: []types.ActionableKeyword{},
		}, nil
	}

	key := CacheKey(resumeText, job)
	if cached, ok := cache.GetJSON[types.MatchResult](ctx, e.store, key); ok {
		e.log.WithField("key", key[:12]).Debug("Analysis cache hit")
		return &cached, nil
	}

	matching, missing := e.classify(ctx, resumeText, phrases)

	keywords := []types.ActionableKeyword{}
	if e.filter != nil {
		filtered, err := e.filter.FilterActionable(ctx, missing, job.Title)
		switch {
		case err != nil:
			e.log.WithError(err).Warn("Keyword filtering failed, returning no actionable keywords")
		case filtered != nil:
			keywords = filtered
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &types.MatchResult{
		Success:            true,
		MatchScore:         round1(float64(len(matching)) / float64(max(len(phrases), 1)) * 100),
		MissingPhrases:     missing,
		MatchingPhrases:    matching,
		ActionableKeywords: keywords,
		TotalKeywords:      len(phrases),
	}

	cache.SetJSON(ctx, e.store, key, result)
	e.log.WithFields(logrus.Fields{
		"total":    result.TotalKeywords,
		"matching": len(matching),
		"missing":  len(missing),
		"score":    result.MatchScore,
	}).Info("Resume analysis complete")
	return result, nil
}

// classify splits phrases into those found in the resume and those missing, both sorted.
func (e *Engine) classify(ctx context.Context, resumeText string, phrases []string) (matching, missing []string) {
	resumeLower := strings.ToLower(resumeText)
	resumeWords := make(map[string]bool)
	for _, w := range strings.Fields(stripPunctuation(resumeLower)) {
		resumeWords[w] = true
	}

	matching = []string{}
	missing = []string{}
	for _, phrase := range phrases {
		if e.phraseMatches(ctx, phrase, resumeLower, resumeWords) {
			matching = append(matching, phrase)
		} else {
			missing = append(missing, phrase)
		}
	}

	sort.Strings(matching)
	sort.Strings(missing)
	return matching, missing
}

func (e *Engine) phraseMatches(ctx context.Context, phrase, resumeLower string, resumeWords map[string]bool) bool {
	phraseLower := strings.ToLower(strings.TrimSpace(phrase))
	normalized := stripPunctuation(phraseLower)

	// Punctuation counts as a separator here, so "node.js" is treated as two words.
	if strings.Contains(normalized, " ") {
		if containsWord(resumeLower, phraseLower) {
			return true
		}
		// Words of two characters or fewer are ignored; a phrase made only of such words
		// therefore matches.
		for _, w := range strings.Fields(normalized) {
			if utf8.RuneCountInString(w) > 2 && !resumeWords[w] {
				return false
			}
		}
		return true
	}

	if containsWord(resumeLower, phraseLower) {
		return true
	}
	if strings.HasSuffix(phraseLower, "s") && containsWord(resumeLower, strings.TrimSuffix(phraseLower, "s")) {
		return true
	}
	if containsWord(resumeLower, phraseLower+"s") {
		return true
	}
	return e.resolver.HasVariant(ctx, phraseLower, resumeLower)
}

// CacheKey derives the analysis cache key from the trimmed resume and the provided job
// fields. Fields that were not provided contribute nothing; list values are sorted.
func CacheKey(resumeText string, job types.JobData) string {
	var sb strings.Builder
	if job.Title != "" {
		sb.WriteString("title:")
		sb.WriteString(job.Title)
	}
	for _, name := range types.PhraseFields {
		list, ok := job.Field(name)
		if !ok {
			continue
		}
		sorted := append([]string(nil), list...)
		sort.Strings(sorted)
		sb.WriteString(name)
		sb.WriteString(":")
		sb.WriteString(strings.Join(sorted, ","))
	}
	return cache.HashKey(strings.TrimSpace(resumeText), sb.String())
}

// round1 rounds to one decimal place, halves to even.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
