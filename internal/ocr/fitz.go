package ocr

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer renders PDF pages to PNG with MuPDF.
type FitzRasterizer struct{}

// Rasterize renders pages sequentially; the MuPDF context is not safe for concurrent use.
func (FitzRasterizer) Rasterize(ctx context.Context, data []byte, maxPages int, dpi float64) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = doc.Close() }()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	images := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImagePNG(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}
