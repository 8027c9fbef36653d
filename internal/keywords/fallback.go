package keywords

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// Fallback classifies missing phrases with the non-actionable rules alone. Phrases that
// match a rule or are two characters or shorter are dropped; the rest become medium
// priority skills.
func Fallback(missing []string, rules *patterns.Compiled) []types.ActionableKeyword {
	if rules == nil {
		rules = patterns.DefaultCompiled()
	}

	keywords := make([]types.ActionableKeyword, 0, len(missing))
	for _, phrase := range missing {
		if rules.IsNonActionable(phrase) || len(strings.TrimSpace(phrase)) <= 2 {
			continue
		}
		keywords = append(keywords, types.ActionableKeyword{
			Keyword:              phrase,
			Category:             types.CategorySkill,
			Priority:             types.PriorityMedium,
			SuggestedIntegration: fmt.Sprintf("Consider incorporating '%s' into relevant experience bullets", phrase),
		})
	}
	return keywords
}
