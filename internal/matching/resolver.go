package matching

import (
	"context"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/cache"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/prompts"
	"github.com/jonathan/ats-optimizer/internal/schemas"
	"github.com/sirupsen/logrus"
)

// commonVariations maps full skill names to their usual abbreviations. It is consulted in
// both directions before any LLM lookup.
var commonVariations = map[string][]string{
	"javascript":                               {"js"},
	"typescript":                               {"ts"},
	"python":                                   {"py"},
	"kubernetes":                               {"k8s"},
	"artificial intelligence":                  {"ai"},
	"machine learning":                         {"ml"},
	"search engine optimization":               {"seo"},
	"customer relationship management":         {"crm"},
	"return on investment":                     {"roi"},
	"key performance indicator":                {"kpi", "kpis"},
	"generally accepted accounting principles": {"gaap"},
	"profit and loss":                          {"p&l"},
	"electronic health records":                {"ehr", "emr"},
	"registered nurse":                         {"rn"},
	"human resources":                          {"hr"},
	"diversity equity and inclusion":           {"dei"},
}

const (
	variationsMaxTokens = 200
)

// Resolver decides whether a resume mentions a skill under another name.
type Resolver struct {
	client   llm.Client
	variants cache.Cache
	log      logrus.FieldLogger
}

// NewResolver creates a Resolver. A nil client limits lookups to the static table;
// a nil cache means variants are fetched on every call.
func NewResolver(client llm.Client, variants cache.Cache, log logrus.FieldLogger) *Resolver {
	if variants == nil {
		variants = cache.Nop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{client: client, variants: variants, log: log}
}

// HasVariant reports whether text contains term under a known or AI-suggested variation.
func (r *Resolver) HasVariant(ctx context.Context, term, text string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	text = strings.ToLower(text)
	if term == "" {
		return false
	}

	if hasStaticVariant(term, text) {
		return true
	}

	for _, v := range r.Variants(ctx, term) {
		if containsWord(text, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

func hasStaticVariant(term, text string) bool {
	for _, abbrev := range commonVariations[term] {
		if containsWord(text, abbrev) {
			return true
		}
	}
	for full, abbrevs := range commonVariations {
		for _, abbrev := range abbrevs {
			if abbrev == term && containsWord(text, full) {
				return true
			}
		}
	}
	return false
}

// Variants returns the variations known for term, asking the LLM on a cache miss.
// The result always includes the term itself.
func (r *Resolver) Variants(ctx context.Context, term string) []string {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return nil
	}

	if cached, ok := cache.GetJSON[[]string](ctx, r.variants, key); ok {
		return cached
	}

	variants, err := r.fetchVariants(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return []string{key}
		}
		r.log.WithError(err).WithField("term", key).Warn("Skill variation lookup failed, using term only")
		variants = []string{key}
	}

	cache.SetJSON(ctx, r.variants, key, variants)
	return variants
}

func (r *Resolver) fetchVariants(ctx context.Context, term string) ([]string, error) {
	if r.client == nil {
		return []string{term}, nil
	}

	prompt, err := prompts.Get("matching.json", "skill_variations")
	if err != nil {
		return nil, err
	}
	prompt = prompt.Render(map[string]string{"Skill": term})

	raw, err := r.client.GenerateJSON(ctx, llm.Request{
		System:    prompt.System,
		Prompt:    prompt.User,
		Tier:      llm.TierLite,
		MaxTokens: variationsMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var variants []string
	if err := llm.DecodeStructured(raw, schemas.SkillVariations, &variants); err != nil {
		return nil, err
	}

	found := false
	for _, v := range variants {
		if strings.EqualFold(v, term) {
			found = true
			break
		}
	}
	if !found {
		variants = append(variants, term)
	}

	r.log.WithFields(logrus.Fields{
		"term":     term,
		"variants": len(variants),
	}).Debug("Resolved skill variations")
	return variants, nil
}
