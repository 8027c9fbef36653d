// Package observability provides logger construction and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// writeList writes up to limit items as bullets, then a count of the rest.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintExtraction outputs the source, size and detected structure of extracted text.
func (p *Printer) PrintExtraction(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n", result.Source))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", utf8.RuneCountInString(result.Text)))
	sb.WriteString(fmt.Sprintf("Bullets:    %d\n", result.Formatting.BulletCount))

	if len(result.Formatting.Sections) > 0 {
		sb.WriteString("\nSections:\n")
		for _, s := range result.Formatting.Sections {
			sb.WriteString(fmt.Sprintf("  • %s (%s, line %d)\n", s.Name, s.Type, s.LineNumber+1))
		}
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs section markers with their bullet counts and the experience bullets.
func (p *Printer) PrintSections(markers []types.SectionMarker, bulletsPerSection map[types.SectionType]int, experience []string) {
	if len(markers) == 0 {
		p.printBox("RESUME SECTIONS", "No section headers detected")
		return
	}

	var sb strings.Builder
	for _, m := range markers {
		sb.WriteString(fmt.Sprintf("%-24s line %-4d bullets %d\n", m.Name, m.LineNumber+1, bulletsPerSection[m.Type]))
	}

	if len(experience) > 0 {
		sb.WriteString(fmt.Sprintf("\nExperience bullets (%d):\n", len(experience)))
		writeList(&sb, experience, maxItemsToShow)
	}

	p.printBox("RESUME SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the match score with matching, missing and actionable phrases.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %.1f%% (%d keywords)\n", result.MatchScore, result.TotalKeywords))

	if len(result.MatchingPhrases) > 0 {
		sb.WriteString(fmt.Sprintf("\nMatching (%d):\n", len(result.MatchingPhrases)))
		writeList(&sb, result.MatchingPhrases, maxItemsToShow)
	}
	if len(result.MissingPhrases) > 0 {
		sb.WriteString(fmt.Sprintf("\nMissing (%d):\n", len(result.MissingPhrases)))
		writeList(&sb, result.MissingPhrases, maxItemsToShow)
	}
	if len(result.ActionableKeywords) > 0 {
		sb.WriteString(fmt.Sprintf("\nActionable (%d):\n", len(result.ActionableKeywords)))
		count := min(len(result.ActionableKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			k := result.ActionableKeywords[i]
			sb.WriteString(fmt.Sprintf("  • %s [%s, %s]\n", k.Keyword, k.Category, k.Priority))
		}
		if len(result.ActionableKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.ActionableKeywords)-maxItemsToShow))
		}
	}

	p.printBox("KEYWORD ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs keyword integration and the per-factor ATS breakdown.
func (p *Printer) PrintScore(v *types.KeywordVerification, b *types.ScoreBreakdown) {
	if b == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score:    %d/100\n\n", b.Total))
	sb.WriteString(fmt.Sprintf("Keywords:     %5.1f / 40\n", b.Keyword))
	sb.WriteString(fmt.Sprintf("Requirements: %5.1f / 30\n", b.Requirements))
	sb.WriteString(fmt.Sprintf("Completeness: %5.1f / 20\n", b.Completeness))
	sb.WriteString(fmt.Sprintf("Formatting:   %5.1f / 10\n", b.Formatting))

	if v != nil {
		sb.WriteString(fmt.Sprintf("\nIntegrated %d keywords (%.1f%%)\n", len(v.Integrated), v.IntegrationRate))
		if len(v.Missing) > 0 {
			missing := append([]string(nil), v.Missing...)
			sort.Strings(missing)
			sb.WriteString("Not integrated:\n")
			writeList(&sb, missing, maxItemsToShow)
		}
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOptimization outputs the outcome of a resume rewrite with its warnings and tips.
func (p *Printer) PrintOptimization(result *types.OptimizationResult) {
	if result == nil {
		return
	}

	if !result.Success {
		p.printBox("OPTIMIZATION FAILED", result.Message)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", result.Message))
	sb.WriteString(fmt.Sprintf("Keywords integrated: %d of %d\n",
		result.Metadata.KeywordsIntegrated, result.Metadata.KeywordsRequested))
	sb.WriteString(fmt.Sprintf("ATS score: %d/100\n", result.AtsScore))

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ! %s\n", w))
		}
	}
	if len(result.Tips) > 0 {
		sb.WriteString("\nTips:\n")
		writeList(&sb, result.Tips, 3)
	}

	p.printBox("OPTIMIZED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}
