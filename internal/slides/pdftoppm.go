// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	binPdftoppm = "pdftoppm"
	pagePrefix  = "page"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// PdftoppmRasterizer renders pages with poppler's pdftoppm binary. Pages are
// written to a scratch directory inside the target and then renamed into
// place, so a failed render leaves no partial slide names behind.
type PdftoppmRasterizer struct {
	exec executor
}

// NewPdftoppm returns a rasterizer that runs pdftoppm from PATH.
func NewPdftoppm() *PdftoppmRasterizer {
	return &PdftoppmRasterizer{exec: osExecutor{}}
}

// Render implements Rasterizer.
func (p *PdftoppmRasterizer) Render(ctx context.Context, pdfPath string, dpi int, dir string, name func(page int) string) ([]string, error) {
	bin, err := p.exec.LookPath(binPdftoppm)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH (install poppler-utils): %w", binPdftoppm, err)
	}

	scratch, err := os.MkdirTemp(dir, ".pdftoppm-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	var stderr bytes.Buffer
	args := []string{"-r", strconv.Itoa(dpi), "-png", pdfPath, filepath.Join(scratch, pagePrefix)}
	if err := p.exec.Run(ctx, bin, args, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", binPdftoppm, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", binPdftoppm, err)
	}

	pages, err := renderedPages(scratch)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(pages))
	for i, src := range pages {
		fn := name(i + 1)
		if err := os.Rename(filepath.Join(scratch, src), filepath.Join(dir, fn)); err != nil {
			return names, fmt.Errorf("moving page %d: %w", i+1, err)
		}
		names = append(names, fn)
	}
	return names, nil
}

// renderedPages lists pdftoppm's output files ordered by page number.
// pdftoppm pads the number to the width of the page count, so the number is
// parsed rather than relying on lexical order.
func renderedPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	type page struct {
		n    int
		name string
	}
	var pages []page
	for _, e := range entries {
		n, ok := pageNumber(e.Name())
		if !ok || !e.Type().IsRegular() {
			continue
		}
		pages = append(pages, page{n, e.Name()})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.name
	}
	return out, nil
}

// pageNumber parses "page-07.png" into 7.
func pageNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, pagePrefix+"-")
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, ".png")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
