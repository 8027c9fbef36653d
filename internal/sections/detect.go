// Package sections finds resume section headers and canonical bullet lines in normalized text.
package sections

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// canonicalBulletRe matches a line that starts with the normalized "•" marker.
var canonicalBulletRe = regexp.MustCompile(`^\s*•\s+`)

// Detector scans text using a compiled pattern table.
type Detector struct {
	patterns *patterns.Compiled
}

// New creates a Detector. A nil table uses the built-in patterns.
func New(c *patterns.Compiled) *Detector {
	if c == nil {
		c = patterns.DefaultCompiled()
	}
	return &Detector{patterns: c}
}

// Default returns a Detector over the built-in patterns.
func Default() *Detector {
	return New(nil)
}

// DetectSections returns one marker per header line, in line order.
func (d *Detector) DetectSections(text string) []types.SectionMarker {
	markers := make([]types.SectionMarker, 0)
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		for _, rule := range d.patterns.Sections {
			if rule.Match(upper) {
				markers = append(markers, types.SectionMarker{
					Name:       trimmed,
					Type:       rule.Type,
					LineNumber: i,
				})
				break
			}
		}
	}
	return markers
}

// CountBulletPoints counts canonical bullet lines. Raw glyphs that were not normalized are not counted.
func CountBulletPoints(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if canonicalBulletRe.MatchString(line) {
			count++
		}
	}
	return count
}

// CountBulletPoints counts canonical bullet lines.
func (d *Detector) CountBulletPoints(text string) int {
	return CountBulletPoints(text)
}

// BulletsPerSection counts bullets between each section header and the next one (or end of text).
// When a section type repeats, the later section's count wins.
func (d *Detector) BulletsPerSection(text string) map[types.SectionType]int {
	lines := strings.Split(text, "\n")
	markers := d.DetectSections(text)
	counts := make(map[types.SectionType]int, len(markers))

	for i, marker := range markers {
		end := len(lines)
		if i+1 < len(markers) {
			end = markers[i+1].LineNumber
		}
		counts[marker.Type] = countIn(lines[marker.LineNumber:end])
	}
	return counts
}

// ExperienceBullets returns the trimmed bullet lines of the first experience section.
func (d *Detector) ExperienceBullets(text string) []string {
	markers := d.DetectSections(text)

	start := -1
	for _, m := range markers {
		if m.Type == types.SectionExperience {
			start = m.LineNumber
			break
		}
	}
	if start < 0 {
		return []string{}
	}

	lines := strings.Split(text, "\n")
	end := len(lines)
	for _, m := range markers {
		if m.LineNumber > start {
			end = m.LineNumber
			break
		}
	}

	bullets := make([]string, 0)
	for _, line := range lines[start:end] {
		if canonicalBulletRe.MatchString(line) {
			bullets = append(bullets, strings.TrimSpace(line))
		}
	}
	return bullets
}

// Formatting builds the formatting summary for text.
func (d *Detector) Formatting(text string) types.Formatting {
	markers := d.DetectSections(text)
	return types.Formatting{
		Sections:              markers,
		HasDetectedFormatting: len(markers) > 0,
		BulletCount:           CountBulletPoints(text),
	}
}

// HasSection reports whether markers include the given type.
func HasSection(markers []types.SectionMarker, t types.SectionType) bool {
	for _, m := range markers {
		if m.Type == t {
			return true
		}
	}
	return false
}

func countIn(lines []string) int {
	n := 0
	for _, line := range lines {
		if canonicalBulletRe.MatchString(line) {
			n++
		}
	}
	return n
}
