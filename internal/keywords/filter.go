// Package keywords narrows a resume's missing requirement phrases to the ones a candidate
// can realistically work into their experience bullets.
package keywords

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/prompts"
	"github.com/jonathan/ats-optimizer/internal/schemas"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

const (
	// MaxPromptPhrases caps how many phrases are sent to the model.
	MaxPromptPhrases = 40
	filterMaxTokens  = 1500
	filterTopP       = 0.1
)

// Filter selects actionable keywords, preferring the LLM and falling back to rules.
type Filter struct {
	client llm.Client
	store  cache.Cache
	rules  *patterns.Compiled
	log    logrus.FieldLogger
}

// NewFilter creates a Filter. A nil client always uses the rule-based fallback.
func NewFilter(client llm.Client, store cache.Cache, rules *patterns.Compiled, log logrus.FieldLogger) *Filter {
	if store == nil {
		store = cache.Nop{}
	}
	if rules == nil {
		rules = patterns.DefaultCompiled()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Filter{client: client, store: store, rules: rules, log: log}
}

type filterReply struct {
	ActionableKeywords []types.ActionableKeyword `json:"actionableKeywords"`
}

// FilterActionable returns the actionable subset of missing. LLM and reply-format failures
// fall back to Fallback; only context cancellation is returned as an error. Fallback
// results are not cached.
func (f *Filter) FilterActionable(ctx context.Context, missing []string, jobTitle string) ([]types.ActionableKeyword, error) {
	key := CacheKey(missing, jobTitle)
	if cached, ok := cache.GetJSON[[]types.ActionableKeyword](ctx, f.store, key); ok {
		f.log.WithField("count", len(cached)).Debug("Keyword filter cache hit")
		return cached, nil
	}

	if len(missing) == 0 {
		return []types.ActionableKeyword{}, nil
	}

	if f.client == nil {
		f.log.Info("No LLM client configured, using rule-based keyword filter")
		return Fallback(missing, f.rules), nil
	}

	keywords, err := f.filterWithLLM(ctx, missing, jobTitle)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.log.WithError(err).Warn("AI keyword filtering failed, using rule-based filter")
		return Fallback(missing, f.rules), nil
	}

	cache.SetJSON(ctx, f.store, key, keywords)
	f.log.WithField("count", len(keywords)).Info("Extracted actionable keywords")
	return keywords, nil
}

func (f *Filter) filterWithLLM(ctx context.Context, missing []string, jobTitle string) ([]types.ActionableKeyword, error) {
	prompt, err := prompts.Get("keywords.json", "filter_actionable")
	if err != nil {
		return nil, err
	}

	batch := missing
	if len(batch) > MaxPromptPhrases {
		batch = batch[:MaxPromptPhrases]
	}
	lines := make([]string, len(batch))
	for i, p := range batch {
		lines[i] = "- " + p
	}

	title := jobTitle
	if title == "" {
		title = "professional"
	}
	prompt = prompt.Render(map[string]string{
		"JobTitle": title,
		"Keywords": strings.Join(lines, "\n"),
	})

	raw, err := f.client.GenerateJSON(ctx, llm.Request{
		System:    prompt.System,
		Prompt:    prompt.User,
		Tier:      llm.TierStandard,
		MaxTokens: filterMaxTokens,
		TopP:      filterTopP,
	})
	if err != nil {
		return nil, err
	}

	var reply filterReply
	if err := llm.DecodeStructured(raw, schemas.KeywordFilter, &reply); err != nil {
		return nil, err
	}
	return normalize(reply.ActionableKeywords), nil
}

// normalize trims keywords and maps free-form category and priority values onto the
// known sets, defaulting to Skill and medium.
func normalize(in []types.ActionableKeyword) []types.ActionableKeyword {
	out := make([]types.ActionableKeyword, 0, len(in))
	for _, k := range in {
		k.Keyword = strings.TrimSpace(k.Keyword)
		if k.Keyword == "" {
			continue
		}
		k.Category = normalizeCategory(k.Category)
		k.Priority = normalizePriority(k.Priority)
		out = append(out, k)
	}
	return out
}

func normalizeCategory(c types.KeywordCategory) types.KeywordCategory {
	for _, known := range []types.KeywordCategory{
		types.CategorySkill, types.CategoryTool, types.CategoryMethodology, types.CategoryTechnology,
	} {
		if strings.EqualFold(strings.TrimSpace(string(c)), string(known)) {
			return known
		}
	}
	return types.CategorySkill
}

func normalizePriority(p types.KeywordPriority) types.KeywordPriority {
	switch types.KeywordPriority(strings.ToLower(strings.TrimSpace(string(p)))) {
	case types.PriorityHigh:
		return types.PriorityHigh
	case types.PriorityLow:
		return types.PriorityLow
	default:
		return types.PriorityMedium
	}
}

// CacheKey derives the keyword filter cache key from the job title and the sorted phrases.
func CacheKey(missing []string, jobTitle string) string {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return cache.HashKey(jobTitle, strings.Join(sorted, ","))
}
