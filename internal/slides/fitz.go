// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer renders pages in-process with MuPDF.
type FitzRasterizer struct{}

// Render implements Rasterizer.
func (FitzRasterizer) Render(ctx context.Context, pdfPath string, dpi int, dir string, name func(page int) string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return names, err
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return names, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		fn := name(i + 1)
		if err := writePNG(filepath.Join(dir, fn), img); err != nil {
			return names, err
		}
		names = append(names, fn)
	}
	return names, nil
}

func writePNG(p string, img image.Image) error {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating %s: %w", p, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}
