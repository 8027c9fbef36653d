// Package scoring verifies keyword integration in a rewritten resume and computes its ATS
// score.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// Verify reports which keywords appear in optimizedText. A keyword counts when it occurs as
// a case-insensitive substring, or, for multi-word keywords, when each word does. Empty
// keywords are skipped but still count toward the rate's denominator.
func Verify(optimizedText string, keywords []string) types.KeywordVerification {
	optimizedLower := strings.ToLower(optimizedText)

	integrated := []string{}
	missing := []string{}
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if keywordPresent(optimizedLower, strings.ToLower(keyword)) {
			integrated = append(integrated, keyword)
		} else {
			missing = append(missing, keyword)
		}
	}

	return types.KeywordVerification{
		Integrated:      integrated,
		Missing:         missing,
		IntegrationRate: round1(float64(len(integrated)) / float64(max(len(keywords), 1)) * 100),
	}
}

func keywordPresent(textLower, keywordLower string) bool {
	if strings.Contains(textLower, keywordLower) {
		return true
	}
	words := strings.Fields(keywordLower)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(textLower, w) {
			return false
		}
	}
	return true
}

// round1 rounds to one decimal place, halves to even.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
