// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Run is one recorded localize invocation.
type Run struct {
	ID           string    `json:"id" yaml:"id"`
	MarkdownPath string    `json:"markdown_path" yaml:"markdown_path"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time `json:"finished_at" yaml:"finished_at"`
	Found        int       `json:"found" yaml:"found"`
	Downloaded   int       `json:"downloaded" yaml:"downloaded"`
	Existed      int       `json:"existed" yaml:"existed"`
	Failed       int       `json:"failed" yaml:"failed"`
}

// RunFromSummary builds a Run record from a finished summary.
func RunFromSummary(s Summary, started, finished time.Time) Run {
	return Run{
		ID:           s.RunID,
		MarkdownPath: s.MarkdownPath,
		StartedAt:    started,
		FinishedAt:   finished,
		Found:        s.Found,
		Downloaded:   s.Downloaded,
		Existed:      s.Existed,
		Failed:       s.Failed,
	}
}
