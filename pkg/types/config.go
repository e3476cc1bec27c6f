// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. GitHub
	// asset endpoints reject non-browser agents, so the default looks like one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LocalizeConfig holds settings for the Markdown image localizer.
// Passed explicitly at construction time; there is no process-wide default.
type LocalizeConfig struct {
	HTTPConfig `yaml:",inline"`

	// HostFilter must appear as a substring of every retained URL
	// (e.g. "https://github.com").
	HostFilter string `json:"host_filter" yaml:"host_filter"`

	// PathFilter must appear as a substring of every retained URL
	// (e.g. "/user-attachments/assets").
	PathFilter string `json:"path_filter" yaml:"path_filter"`

	// SessionToken is the value of the user_session cookie sent with each
	// request. It is never refreshed.
	SessionToken string `json:"session_token,omitempty" yaml:"session_token,omitempty"`

	// Workers is the size of the download worker pool (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// ImagesDir is the directory, relative to the Markdown file, that
	// receives downloaded images (default "Images").
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// ChunkSize is the buffer size used when streaming a response body to
	// disk (default 8192).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// RelinkExisting also rewrites URLs whose image already existed locally.
	RelinkExisting bool `json:"relink_existing" yaml:"relink_existing"`
}

// Defaults for LocalizeConfig fields left at their zero value.
const (
	DefaultWorkers    = 4
	DefaultImagesDir  = "Images"
	DefaultChunkSize  = 8192
	DefaultUserAgent  = "Mozilla/5.0"
	DefaultHostFilter = "https://github.com"
	DefaultPathFilter = "/user-attachments/assets"
)

// WithDefaults returns a copy of c with zero-valued fields filled in.
func (c LocalizeConfig) WithDefaults() LocalizeConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.ImagesDir == "" {
		c.ImagesDir = DefaultImagesDir
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// Redacted returns a copy of c that is safe to print.
func (c LocalizeConfig) Redacted() LocalizeConfig {
	if c.SessionToken != "" {
		c.SessionToken = "********"
	}
	return c
}

// RasterBackend identifies the PDF page rendering tool.
type RasterBackend string

const (
	BackendFitz     RasterBackend = "fitz"
	BackendPdftoppm RasterBackend = "pdftoppm"
)

// SlidesConfig holds settings for the PDF slide exporter.
type SlidesConfig struct {
	// Backend selects the rasterizer: fitz or pdftoppm.
	Backend RasterBackend `json:"backend" yaml:"backend"`

	// DPI is the render resolution (default 300).
	DPI int `json:"dpi" yaml:"dpi"`

	// Stem is the base name for images and the Markdown file. Defaults to
	// the PDF file name without extension.
	Stem string `json:"stem,omitempty" yaml:"stem,omitempty"`

	// OutputDir receives <stem>_slides.md and Slides/<stem>/.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// DefaultDPI is the slide render resolution when none is configured.
const DefaultDPI = 300

// HistoryConfig holds settings for the run ledger.
type HistoryConfig struct {
	// Enabled controls whether localize runs are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}

// Config groups all settings read from md-assets.yaml.
type Config struct {
	Localize LocalizeConfig `json:"localize" yaml:"localize"`
	Slides   SlidesConfig   `json:"slides" yaml:"slides"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}

// Redacted returns a copy of c that is safe to print.
func (c Config) Redacted() Config {
	c.Localize = c.Localize.Redacted()
	return c
}
