package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/patterns"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe        = regexp.MustCompile(`\n{3,}`)
)

// invisible code points that PDF extractors leave behind
func isInvisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}

func asciiPunctuation(r rune) rune {
	switch r {
	case '\u2013', '\u2014':
		return '-'
	case '\u2018', '\u2019':
		return '\''
	case '\u201c', '\u201d':
		return '"'
	}
	return r
}

// Normalize canonicalizes extracted text so repeated extractions of the same
// document produce identical output. It never fails; empty input returns "".
// Normalize(Normalize(x)) == Normalize(x) for all x.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// Invisible characters go first so they cannot split whitespace runs or
	// combining sequences; composition runs last.
	text, _, err := transform.String(transform.Chain(
		runes.Remove(runes.Predicate(isInvisible)),
		runes.Map(asciiPunctuation),
		norm.NFC,
	), raw)
	if err != nil {
		text = raw
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Trimming can expose new blank-line runs, so collapse after it.
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// NormalizeBullets rewrites recognized bullet glyphs at line start to the canonical "• " marker,
// preserving indentation. The first matching rule wins.
func NormalizeBullets(text string, c *patterns.Compiled) string {
	if c == nil {
		c = patterns.DefaultCompiled()
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, rule := range c.Bullets {
			if indent, rest, ok := rule.Match(line); ok {
				lines[i] = indent + "• " + strings.TrimSpace(rest)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

var (
	artifactCharsRe    = regexp.MustCompile(`%?[ÏïĪīÎîØø]`)
	lineBreakSpacingRe = regexp.MustCompile(` *\n+ *`)
	artifactBulletRe   = regexp.MustCompile(`(?m)^\s*[•●]\s*%[ÏïĪīÎîØø]?\s*`)
	strayPercentRe     = regexp.MustCompile(`(?m)^\s*%[ÏïĪīÎîØø]\s*`)
	splitExperienceRe  = regexp.MustCompile(`PROFESSIONAL\s+EXPERIENCES`)
	splitProjectsRe    = regexp.MustCompile(`TECHNICAL\s+PROJECTS`)
	gluedHeaderRe      = regexp.MustCompile(`TECHNICAL SKILLS|PROFESSIONAL EXPERIENCES|(?:TECHNICAL |KEY )?PROJECTS|EDUCATION|LEADERSHIP|CERTIFICATIONS`)
	gluedBulletRe      = regexp.MustCompile(`([^\n])([•●])`)
)

var mojibake = strings.NewReplacer(
	"â€¢", "•",
	"â€\"", "–",
	"â€™", "'",
	"â€œ", "\"",
	"â€", "\"",
)

// CleanEncodingArtifacts repairs the encoding debris that LLM rewrites tend to carry
// (stray "%Ï" glyphs, UTF-8 mojibake, headers and bullets glued onto previous lines).
// Blank lines are collapsed.
func CleanEncodingArtifacts(text string) string {
	if text == "" {
		return ""
	}

	text = artifactCharsRe.ReplaceAllString(text, "")
	text = mojibake.Replace(text)

	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = lineBreakSpacingRe.ReplaceAllString(text, "\n")

	text = artifactBulletRe.ReplaceAllString(text, "• ")
	text = strayPercentRe.ReplaceAllString(text, "• ")

	text = splitExperienceRe.ReplaceAllString(text, "PROFESSIONAL EXPERIENCES")
	text = splitProjectsRe.ReplaceAllString(text, "TECHNICAL PROJECTS")
	text = separateGluedHeaders(text)

	text = gluedBulletRe.ReplaceAllString(text, "$1\n$2")

	return strings.TrimSpace(text)
}

// separateGluedHeaders starts a new paragraph before a known header that follows other text on the same line.
// Composite headers such as "TECHNICAL PROJECTS" are matched whole so they are never split.
func separateGluedHeaders(text string) string {
	matches := gluedHeaderRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	prev := 0
	for _, m := range matches {
		start := m[0]
		sb.WriteString(text[prev:start])
		if start > 0 && text[start-1] != '\n' {
			sb.WriteString("\n\n")
		}
		prev = start
	}
	sb.WriteString(text[prev:])
	return sb.String()
}
