package ingestion

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-optimizer/internal/extract"
	"github.com/jonathan/ats-optimizer/internal/patterns"
	"github.com/jonathan/ats-optimizer/internal/sections"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

// DefaultMinContentChars is the trimmed length, in characters, below which primary
// extraction is considered to have failed and OCR is attempted.
const DefaultMinContentChars = 50

// TextExtractor pulls embedded text out of a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// OCR recognizes text from a rendered document.
type OCR interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// Orchestrator runs primary extraction with an OCR fallback and normalizes the result.
// It is immutable and safe for concurrent use.
type Orchestrator struct {
	primary         TextExtractor
	ocr             OCR
	detector        *sections.Detector
	patterns        *patterns.Compiled
	log             logrus.FieldLogger
	minContentChars int
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMinContentChars overrides the OCR fallback threshold.
func WithMinContentChars(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.minContentChars = n
	}
}

// NewOrchestrator creates an Orchestrator. A nil ocr disables the fallback.
func NewOrchestrator(primary TextExtractor, ocr OCR, det *sections.Detector, c *patterns.Compiled, log logrus.FieldLogger, opts ...OrchestratorOption) *Orchestrator {
	if det == nil {
		det = sections.Default()
	}
	if c == nil {
		c = patterns.DefaultCompiled()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	o := &Orchestrator{
		primary:         primary,
		ocr:             ocr,
		detector:        det,
		patterns:        c,
		log:             log,
		minContentChars: DefaultMinContentChars,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// With returns a copy of the orchestrator that uses a different primary extractor.
func (o *Orchestrator) With(primary TextExtractor) *Orchestrator {
	cp := *o
	cp.primary = primary
	return &cp
}

// WithoutOCR returns a copy of the orchestrator with the OCR fallback disabled.
func (o *Orchestrator) WithoutOCR() *Orchestrator {
	cp := *o
	cp.ocr = nil
	return &cp
}

// Extract returns normalized text and formatting for a document.
//
// A primary error or a result shorter than the threshold triggers OCR. On the short-result
// path OCR output replaces the primary text only when it is longer. Only a failure of both
// paths is returned as an error.
func (o *Orchestrator) Extract(ctx context.Context, data []byte) (*types.ExtractionResult, error) {
	if o.primary == nil {
		return nil, &ExtractionError{Message: "no primary extractor configured"}
	}

	raw, primaryErr := o.primary.ExtractText(ctx, data)
	if primaryErr != nil {
		o.log.WithError(primaryErr).Warn("Primary extraction failed, falling back to OCR")
		if o.ocr == nil {
			return nil, &ExtractionError{Message: "primary extraction failed and OCR is disabled", PrimaryErr: primaryErr}
		}

		ocrText, ocrErr := o.recognize(ctx, data)
		if ocrErr != nil {
			return nil, &ExtractionError{Message: "primary extraction and OCR both failed", PrimaryErr: primaryErr, OCRErr: ocrErr}
		}
		return o.result(ocrText, types.SourceOCR), nil
	}

	text := o.clean(raw)
	source := types.SourcePrimary

	if utf8.RuneCountInString(strings.TrimSpace(text)) < o.minContentChars && o.ocr != nil {
		o.log.WithField("chars", utf8.RuneCountInString(text)).Info("Primary extraction yielded minimal text, attempting OCR")
		ocrText, ocrErr := o.recognize(ctx, data)
		switch {
		case ocrErr != nil:
			o.log.WithError(ocrErr).Warn("OCR fallback failed, keeping primary text")
		case utf8.RuneCountInString(ocrText) > utf8.RuneCountInString(text):
			text = ocrText
			source = types.SourceOCR
		default:
			o.log.WithFields(logrus.Fields{
				"primary_chars": utf8.RuneCountInString(text),
				"ocr_chars":     utf8.RuneCountInString(ocrText),
			}).Info("OCR did not improve on primary extraction")
		}
	}

	return o.result(text, source), nil
}

// ExtractFile picks the primary extractor from the filename's extension. OCR is only
// attempted for formats that can be rasterized.
func (o *Orchestrator) ExtractFile(ctx context.Context, filename string, data []byte) (*types.ExtractionResult, error) {
	ex, kind, err := extract.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	orch := o.With(ex)
	if !kind.SupportsOCR() {
		orch = orch.WithoutOCR()
	}
	return orch.Extract(ctx, data)
}

func (o *Orchestrator) recognize(ctx context.Context, data []byte) (string, error) {
	text, err := o.ocr.Recognize(ctx, data)
	if err != nil {
		return "", err
	}
	return o.clean(text), nil
}

func (o *Orchestrator) clean(text string) string {
	return NormalizeBullets(Normalize(text), o.patterns)
}

func (o *Orchestrator) result(text string, source types.ExtractionSource) *types.ExtractionResult {
	return &types.ExtractionResult{
		Text:       text,
		Formatting: o.detector.Formatting(text),
		Source:     source,
	}
}
