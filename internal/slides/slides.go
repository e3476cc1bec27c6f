// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slides exports a PDF as one PNG per page plus a Markdown file that
// references them in page order. Rendering goes through a pluggable
// Rasterizer so the in-process MuPDF backend and the poppler binary can be
// swapped.
package slides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/md-assets/pkg/types"
)

// slidesDir is the subdirectory of the output directory holding decks.
const slidesDir = "Slides"

// ErrNoPages is returned when a PDF renders to zero pages.
var ErrNoPages = errors.New("PDF has no pages")

// Rasterizer renders PDF pages to PNG files. Different backends (MuPDF via
// go-fitz, poppler's pdftoppm) implement this interface.
type Rasterizer interface {
	// Render writes page i (1-based) of pdfPath to filepath.Join(dir, name(i))
	// at the given resolution and returns the file names in page order.
	Render(ctx context.Context, pdfPath string, dpi int, dir string, name func(page int) string) ([]string, error)
}

// SlideName returns the PNG file name for a 1-based page number.
func SlideName(stem string, page int) string {
	return fmt.Sprintf("%s_SLIDES_%03d.png", stem, page)
}

// MarkdownName returns the Markdown file name for a stem.
func MarkdownName(stem string) string {
	return stem + "_slides.md"
}

// DefaultStem derives a stem from the PDF file name.
func DefaultStem(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Export renders pdfPath through r and writes <out>/Slides/<stem>/ and
// <out>/<stem>_slides.md. Status lines go to w.
func Export(ctx context.Context, r Rasterizer, pdfPath string, cfg types.SlidesConfig, w io.Writer) (types.Deck, error) {
	if w == nil {
		w = io.Discard
	}
	stem := cfg.Stem
	if stem == "" {
		stem = DefaultStem(pdfPath)
	}
	if strings.ContainsAny(stem, `/\`) {
		return types.Deck{}, fmt.Errorf("invalid stem %q: must not contain path separators", stem)
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = types.DefaultDPI
	}
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(pdfPath)
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return types.Deck{}, fmt.Errorf("reading %s: %w", pdfPath, err)
	}

	deck := types.Deck{
		Stem:         stem,
		PDFPath:      pdfPath,
		SlidesDir:    filepath.Join(outDir, slidesDir, stem),
		MarkdownPath: filepath.Join(outDir, MarkdownName(stem)),
	}

	log := zerolog.Ctx(ctx).With().Str("pdf", pdfPath).Str("stem", stem).Int("dpi", dpi).Logger()

	if err := os.MkdirAll(deck.SlidesDir, 0o755); err != nil {
		return deck, fmt.Errorf("creating directory %s: %w", deck.SlidesDir, err)
	}

	names, err := r.Render(ctx, pdfPath, dpi, deck.SlidesDir, func(page int) string {
		return SlideName(stem, page)
	})
	if err != nil {
		return deck, fmt.Errorf("rendering %s: %w", pdfPath, err)
	}
	if len(names) == 0 {
		return deck, ErrNoPages
	}
	log.Debug().Int("pages", len(names)).Msg("rendered PDF")

	lines := make([]string, len(names))
	for i, name := range names {
		s := types.Slide{
			Number:   i + 1,
			Filename: name,
			RelPath:  path.Join(slidesDir, stem, name),
		}
		deck.Slides = append(deck.Slides, s)
		lines[i] = slideLine(s)
		fmt.Fprintf(w, "saved: slide %03d/%03d %s\n", s.Number, len(names), name)
	}

	if err := os.WriteFile(deck.MarkdownPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return deck, fmt.Errorf("writing %s: %w", deck.MarkdownPath, err)
	}
	fmt.Fprintf(w, "wrote: %s (%d slides)\n", deck.MarkdownPath, len(deck.Slides))
	log.Info().Int("slides", len(deck.Slides)).Str("markdown", deck.MarkdownPath).Msg("slides exported")
	return deck, nil
}

// slideLine is the Markdown embed for one slide. The alt text is the page
// number padded to three digits; decks past 999 pages get the full number,
// matching the digits in the file name.
func slideLine(s types.Slide) string {
	return fmt.Sprintf("![%03d](%s)", s.Number, s.RelPath)
}

// NewRasterizer returns the backend named by b. The zero value selects fitz.
func NewRasterizer(b types.RasterBackend) (Rasterizer, error) {
	switch b {
	case "", types.BackendFitz:
		return FitzRasterizer{}, nil
	case types.BackendPdftoppm:
		return NewPdftoppm(), nil
	default:
		return nil, fmt.Errorf("unknown rasterizer backend %q (want %s or %s)", b, types.BackendFitz, types.BackendPdftoppm)
	}
}
