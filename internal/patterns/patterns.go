// Package patterns holds the regular-expression tables used to read unstructured resume text:
// section headers, bullet glyphs and non-actionable requirement phrases.
// Tables are plain data so they can be replaced from YAML without touching matching logic.
package patterns

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// SectionRule maps a header pattern to a section type.
// Patterns are matched against the trimmed, upper-cased line.
type SectionRule struct {
	Type    types.SectionType `yaml:"type"`
	Pattern string            `yaml:"pattern"`
}

// BulletRule recognizes a bullet glyph at line start.
// The pattern's first capture group must be the leading indentation.
type BulletRule struct {
	Pattern string `yaml:"pattern"`
	// RequireUpperNext requires the character after the match to be A-Z.
	RequireUpperNext bool `yaml:"require_upper_next,omitempty"`
}

// Table is the full, ordered pattern configuration. Order is priority: first match wins.
type Table struct {
	Sections      []SectionRule `yaml:"sections"`
	Bullets       []BulletRule  `yaml:"bullets"`
	NonActionable []string      `yaml:"non_actionable"`
}

// Default returns the built-in pattern table.
func Default() *Table {
	return &Table{
		Sections: []SectionRule{
			{Type: types.SectionSummary, Pattern: `^(SUMMARY|PROFESSIONAL SUMMARY|PROFILE|OBJECTIVE|CAREER OBJECTIVE)$`},
			{Type: types.SectionExperience, Pattern: `^(EXPERIENCE|EXPERIENCES|WORK EXPERIENCE|PROFESSIONAL EXPERIENCE|PROFESSIONAL EXPERIENCES|EMPLOYMENT HISTORY|WORK HISTORY)$`},
			{Type: types.SectionEducation, Pattern: `^(EDUCATION|ACADEMIC BACKGROUND)$`},
			{Type: types.SectionSkills, Pattern: `^(SKILLS|TECHNICAL SKILLS|CORE COMPETENCIES|EXPERTISE)$`},
			{Type: types.SectionCertifications, Pattern: `^(CERTIFICATIONS|CERTIFICATES|LICENSES)$`},
			{Type: types.SectionProjects, Pattern: `^(PROJECTS|KEY PROJECTS)$`},
		},
		Bullets: []BulletRule{
			{Pattern: `^(\s*)[-–—*▪▫■□◆◇➤➔✓✔>]\s+`},
			{Pattern: `^(\s*)\x{2022}\s+`},
			{Pattern: `^(\s*)·\s+`},
			{Pattern: `^(\s*)o\s+`, RequireUpperNext: true},
		},
		NonActionable: []string{
			`\d+\+?\s*years?`,
			`years?\s+of\s+experience`,
			`bachelor['"]?s?\s+degree`,
			`master['"]?s?\s+degree`,
			`phd`,
			`doctorate`,
			`security\s+clearance`,
			`ability\s+to\s+travel`,
			`willing\s+to\s+relocate`,
			`work\s+independently`,
			`team\s+player`,
			`strong\s+communication`,
			`certified\s+\w+`,
			`\w+\s+certification`,
		},
	}
}

// SectionMatcher is a compiled section rule.
type SectionMatcher struct {
	Type types.SectionType
	re   *regexp.Regexp
}

// Match reports whether an upper-cased, trimmed line is this section's header.
func (m SectionMatcher) Match(line string) bool {
	return m.re.MatchString(line)
}

// BulletMatcher is a compiled bullet rule.
type BulletMatcher struct {
	re               *regexp.Regexp
	requireUpperNext bool
}

// Match returns the indentation and the remainder of the line after the bullet glyph.
func (m BulletMatcher) Match(line string) (indent, rest string, ok bool) {
	loc := m.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", "", false
	}
	rest = line[loc[1]:]
	if m.requireUpperNext && (rest == "" || rest[0] < 'A' || rest[0] > 'Z') {
		return "", "", false
	}
	if loc[2] >= 0 {
		indent = line[loc[2]:loc[3]]
	}
	return indent, rest, true
}

// Compiled is a ready-to-use pattern table.
type Compiled struct {
	Sections      []SectionMatcher
	Bullets       []BulletMatcher
	NonActionable []*regexp.Regexp
}

// IsNonActionable reports whether a phrase matches any non-actionable rule.
func (c *Compiled) IsNonActionable(phrase string) bool {
	for _, re := range c.NonActionable {
		if re.MatchString(phrase) {
			return true
		}
	}
	return false
}

// Compile compiles every rule of the table.
func (t *Table) Compile() (*Compiled, error) {
	c := &Compiled{
		Sections:      make([]SectionMatcher, 0, len(t.Sections)),
		Bullets:       make([]BulletMatcher, 0, len(t.Bullets)),
		NonActionable: make([]*regexp.Regexp, 0, len(t.NonActionable)),
	}

	for i, rule := range t.Sections {
		if rule.Type == "" {
			return nil, &PatternError{Table: "sections", Index: i, Pattern: rule.Pattern, Message: "missing section type"}
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, &PatternError{Table: "sections", Index: i, Pattern: rule.Pattern, Message: "invalid pattern", Cause: err}
		}
		c.Sections = append(c.Sections, SectionMatcher{Type: rule.Type, re: re})
	}

	for i, rule := range t.Bullets {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, &PatternError{Table: "bullets", Index: i, Pattern: rule.Pattern, Message: "invalid pattern", Cause: err}
		}
		if re.NumSubexp() < 1 {
			return nil, &PatternError{Table: "bullets", Index: i, Pattern: rule.Pattern, Message: "pattern must capture the indentation as group 1"}
		}
		c.Bullets = append(c.Bullets, BulletMatcher{re: re, requireUpperNext: rule.RequireUpperNext})
	}

	for i, pattern := range t.NonActionable {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, &PatternError{Table: "non_actionable", Index: i, Pattern: pattern, Message: "invalid pattern", Cause: err}
		}
		c.NonActionable = append(c.NonActionable, re)
	}

	return c, nil
}

var (
	defaultOnce     sync.Once
	defaultCompiled *Compiled
)

// DefaultCompiled returns the compiled built-in table.
func DefaultCompiled() *Compiled {
	defaultOnce.Do(func() {
		c, err := Default().Compile()
		if err != nil {
			panic(fmt.Sprintf("built-in pattern table does not compile: %v", err))
		}
		defaultCompiled = c
	})
	return defaultCompiled
}
