// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Slide is one rasterized PDF page.
type Slide struct {
	// Number is the 1-based page number.
	Number int `json:"number" yaml:"number"`

	// Filename is the PNG file name, e.g. "deck_SLIDES_001.png".
	Filename string `json:"filename" yaml:"filename"`

	// RelPath is the path referenced from the generated Markdown,
	// e.g. "Slides/deck/deck_SLIDES_001.png".
	RelPath string `json:"rel_path" yaml:"rel_path"`
}

// Deck is the result of exporting a PDF as slides.
type Deck struct {
	Stem         string  `json:"stem" yaml:"stem"`
	PDFPath      string  `json:"pdf_path" yaml:"pdf_path"`
	SlidesDir    string  `json:"slides_dir" yaml:"slides_dir"`
	MarkdownPath string  `json:"markdown_path" yaml:"markdown_path"`
	Slides       []Slide `json:"slides" yaml:"slides"`
}
