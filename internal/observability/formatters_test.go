package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction(&types.ExtractionResult{
		Text:   "EXPERIENCE\n• Built APIs",
		Source: types.SourceOCR,
		Formatting: types.Formatting{
			Sections:    []types.SectionMarker{{Name: "EXPERIENCE", Type: types.SectionExperience, LineNumber: 0}},
			BulletCount: 1,
		},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED TEXT")
	assert.Contains(t, output, "ocr")
	assert.Contains(t, output, "EXPERIENCE (experience, line 1)")
}

func TestPrintExtraction_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSections(
		[]types.SectionMarker{
			{Name: "EXPERIENCE", Type: types.SectionExperience, LineNumber: 2},
			{Name: "EDUCATION", Type: types.SectionEducation, LineNumber: 9},
		},
		map[types.SectionType]int{types.SectionExperience: 6},
		[]string{"• a", "• b", "• c", "• d", "• e", "• f"},
	)
	output := buf.String()

	assert.Contains(t, output, "RESUME SECTIONS")
	assert.Contains(t, output, "Experience bullets (6)")
	assert.Contains(t, output, "... and 1 more")
}

func TestPrintSections_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections(nil, nil, nil)

	assert.Contains(t, buf.String(), "No section headers detected")
}

func TestPrintMatchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResult(&types.MatchResult{
		Success:         true,
		MatchScore:      66.7,
		TotalKeywords:   3,
		MatchingPhrases: []string{"Go", "SQL"},
		MissingPhrases:  []string{"Kubernetes"},
		ActionableKeywords: []types.ActionableKeyword{
			{Keyword: "Kubernetes", Category: types.CategoryTool, Priority: types.PriorityHigh},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "KEYWORD ANALYSIS")
	assert.Contains(t, output, "66.7%")
	assert.Contains(t, output, "Kubernetes [Tool, high]")
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(
		&types.KeywordVerification{Integrated: []string{"Go"}, Missing: []string{"Rust"}, IntegrationRate: 50},
		&types.ScoreBreakdown{Keyword: 20, Requirements: 30, Completeness: 20, Formatting: 10, Total: 80},
	)
	output := buf.String()

	assert.Contains(t, output, "80/100")
	assert.Contains(t, output, "Integrated 1 keywords (50.0%)")
	assert.Contains(t, output, "Rust")
}

func TestPrintOptimization(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintOptimization(&types.OptimizationResult{
		Success:  true,
		Message:  "New resume generated successfully",
		AtsScore: 81,
		Warnings: []string{"Optimized resume has 1 fewer bullet points"},
		Tips:     []string{"Quantify impact"},
		Metadata: types.OptimizationMetadata{KeywordsRequested: 3, KeywordsIntegrated: 2},
	})
	output := buf.String()

	assert.Contains(t, output, "OPTIMIZED RESUME")
	assert.Contains(t, output, "Keywords integrated: 2 of 3")
	assert.Contains(t, output, "! Optimized resume has 1 fewer")
	assert.Contains(t, output, "Quantify impact")

	buf.Reset()
	p.PrintOptimization(&types.OptimizationResult{Message: "No keywords selected."})
	assert.Contains(t, buf.String(), "OPTIMIZATION FAILED")
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.True(t, utf8.ValidString(line))
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("component", "test").Info("hello")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])

	fallback := newLogger(&buf, "nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, fallback.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, fallback.Formatter)
}
