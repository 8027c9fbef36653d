// Package ocr recognizes text in scanned documents by rasterizing pages and running them
// through Tesseract.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Default pipeline settings.
const (
	DefaultMaxPages    = 5
	DefaultDPI         = 300
	DefaultConcurrency = 2
)

// Rasterizer renders document pages to encoded images.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, maxPages int, dpi float64) ([][]byte, error)
}

// Recognizer reads text from a single page image.
type Recognizer interface {
	RecognizeImage(ctx context.Context, image []byte) (string, error)
}

// Pipeline rasterizes a document and recognizes each page.
type Pipeline struct {
	Rasterizer  Rasterizer
	Recognizer  Recognizer
	MaxPages    int
	DPI         float64
	Concurrency int
}

// NewPipeline creates a pipeline with default limits.
func NewPipeline(r Rasterizer, rec Recognizer) *Pipeline {
	return &Pipeline{
		Rasterizer:  r,
		Recognizer:  rec,
		MaxPages:    DefaultMaxPages,
		DPI:         DefaultDPI,
		Concurrency: DefaultConcurrency,
	}
}

// Recognize returns the text of up to MaxPages pages, joined in page order.
func (p *Pipeline) Recognize(ctx context.Context, data []byte) (string, error) {
	if p.Rasterizer == nil || p.Recognizer == nil {
		return "", &Error{Stage: StageConfig, Message: "rasterizer and recognizer are required"}
	}

	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	images, err := p.Rasterizer.Rasterize(ctx, data, maxPages, dpi)
	if err != nil {
		return "", &Error{Stage: StageRasterize, Message: "failed to render pages", Cause: err}
	}
	if len(images) == 0 {
		return "", &Error{Stage: StageRasterize, Message: "document has no pages"}
	}

	texts := make([]string, len(images))
	g, gCtx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for i, img := range images {
		g.Go(func() error {
			text, err := p.Recognizer.RecognizeImage(gCtx, img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", &Error{Stage: StageRecognize, Message: "failed to recognize page", Cause: err}
	}

	return strings.Join(texts, "\n"), nil
}
