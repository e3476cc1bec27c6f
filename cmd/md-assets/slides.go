// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/md-assets/internal/slides"
)

var slidesCmd = &cobra.Command{
	Use:   "slides <file.pdf>",
	Short: "Render a PDF deck to PNG slides and a Markdown index",
	Long: `Slides renders every page of a PDF to <out>/Slides/<stem>/<stem>_SLIDES_NNN.png
and writes <out>/<stem>_slides.md embedding them in page order.

The fitz backend renders in-process with MuPDF. The pdftoppm backend runs
poppler's pdftoppm, which must be on PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlides,
}

func init() {
	slidesCmd.Flags().String("stem", "", "base name for images and Markdown (default: PDF file name)")
	slidesCmd.Flags().String("out", "", "output directory (default: directory of the PDF)")
	slidesCmd.Flags().Int("dpi", 0, "render resolution (default 300)")
	slidesCmd.Flags().String("backend", "", "rasterizer backend: fitz or pdftoppm (default fitz)")

	bindFlag(slidesCmd, keySlidesOutput, "out")
	bindFlag(slidesCmd, keySlidesDPI, "dpi")
	bindFlag(slidesCmd, keySlidesBackend, "backend")

	rootCmd.AddCommand(slidesCmd)
}

func runSlides(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Slides
	cfg.Stem, _ = cmd.Flags().GetString("stem")

	r, err := slides.NewRasterizer(cfg.Backend)
	if err != nil {
		return err
	}
	_, err = slides.Export(cmd.Context(), r, args[0], cfg, cmd.OutOrStdout())
	return err
}
