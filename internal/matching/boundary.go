package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWordRune reports whether r is a word character: a letter, digit or underscore in any
// script.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// boundaryAt reports whether a word boundary lies between before and after. utf8.RuneError
// stands for the start or end of the text.
func boundaryAt(before, after rune) bool {
	b := before != utf8.RuneError && isWordRune(before)
	a := after != utf8.RuneError && isWordRune(after)
	return a != b
}

// containsWord reports whether phrase occurs in text with a word boundary on both sides, as
// a regular expression \b would place them with Unicode word characters. Both arguments are
// expected to be lower-cased already.
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)

	for offset := 0; offset <= len(text)-len(phrase); {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if boundaryAt(before, first) && boundaryAt(last, after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// stripPunctuation replaces every rune that is neither a word character nor whitespace
// with a space.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// ContainsWord is the exported form of the word-boundary test used by the scorer.
func ContainsWord(text, phrase string) bool {
	return containsWord(strings.ToLower(text), strings.ToLower(strings.TrimSpace(phrase)))
}
