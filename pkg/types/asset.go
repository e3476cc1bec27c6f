// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// URLRecord is one unique asset URL found in a Markdown document.
type URLRecord struct {
	// URL is the full matched URL, unique within a run.
	URL string `json:"url" yaml:"url"`

	// Stem is the URL's final path segment, used as the local filename base.
	// The extension is only known after the fetch resolves redirects.
	Stem string `json:"stem" yaml:"stem"`
}

// OutcomeStatus is the terminal classification of one download attempt.
type OutcomeStatus string

const (
	StatusExists     OutcomeStatus = "exists"
	StatusDownloaded OutcomeStatus = "downloaded"
	StatusFailed     OutcomeStatus = "failed"
)

// FailureKind classifies a failed outcome. Advisory only.
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureHTTPStatus    FailureKind = "http-status"
	FailureTransport     FailureKind = "transport"
	FailureWrite         FailureKind = "write"
	FailureStemCollision FailureKind = "stem-collision"
)

// Outcome is the result of resolving one URLRecord. RelPath is set for
// exists and downloaded; Kind and Reason are set for failed.
type Outcome struct {
	Record  URLRecord     `json:"record" yaml:"record"`
	Status  OutcomeStatus `json:"status" yaml:"status"`
	RelPath string        `json:"rel_path,omitempty" yaml:"rel_path,omitempty"`
	Kind    FailureKind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Reason  string        `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Exists reports a local file with the record's stem was already present.
func Exists(rec URLRecord, relPath string) Outcome {
	return Outcome{Record: rec, Status: StatusExists, RelPath: relPath}
}

// Downloaded reports the record was fetched and saved to relPath.
func Downloaded(rec URLRecord, relPath string) Outcome {
	return Outcome{Record: rec, Status: StatusDownloaded, RelPath: relPath}
}

// Failed reports the record could not be fetched or saved.
func Failed(rec URLRecord, kind FailureKind, reason string) Outcome {
	return Outcome{Record: rec, Status: StatusFailed, Kind: kind, Reason: reason}
}

// Summary holds the outcome counts of one localize run.
type Summary struct {
	RunID        string   `json:"run_id" yaml:"run_id"`
	MarkdownPath string   `json:"markdown_path" yaml:"markdown_path"`
	Found        int      `json:"found" yaml:"found"`
	Downloaded   int      `json:"downloaded" yaml:"downloaded"`
	Existed      int      `json:"existed" yaml:"existed"`
	Failed       int      `json:"failed" yaml:"failed"`
	FailedURLs   []string `json:"failed_urls,omitempty" yaml:"failed_urls,omitempty"`

	// Changed reports whether the Markdown file was rewritten.
	Changed bool `json:"changed" yaml:"changed"`
}

// HasFailures reports whether any record failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize counts outcomes by status. FailedURLs keeps outcome order.
func Summarize(markdownPath string, outcomes []Outcome) Summary {
	s := Summary{MarkdownPath: markdownPath, Found: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusDownloaded:
			s.Downloaded++
		case StatusExists:
			s.Existed++
		default:
			s.Failed++
			s.FailedURLs = append(s.FailedURLs, o.Record.URL)
		}
	}
	return s
}
