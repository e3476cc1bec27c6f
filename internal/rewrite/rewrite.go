// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite replaces asset URLs in Markdown text with local paths.
// Replacement is literal and whole-text: it is not Markdown-aware, so a URL
// in prose or a code span is replaced as well.
package rewrite

import (
	"sort"
	"strings"

	"github.com/pdiddy/md-assets/pkg/types"
)

// Options controls which outcomes are relinked.
type Options struct {
	// IncludeExisting also replaces URLs whose file already existed locally.
	// By default only files downloaded in this run are relinked.
	IncludeExisting bool
}

// Apply returns text with every occurrence of each downloaded outcome's URL
// replaced by its relative path. Exists and failed outcomes leave their URL
// untouched unless opts says otherwise.
//
// Outcomes arrive in completion order, so replacements are applied longest
// URL first: a URL that is a prefix of another can then never clobber it,
// and the result does not depend on which download finished first.
func Apply(text string, outcomes []types.Outcome, opts Options) string {
	var pending []types.Outcome
	for _, o := range outcomes {
		if o.RelPath == "" {
			continue
		}
		if o.Status == types.StatusDownloaded || (opts.IncludeExisting && o.Status == types.StatusExists) {
			pending = append(pending, o)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if len(pending[i].Record.URL) != len(pending[j].Record.URL) {
			return len(pending[i].Record.URL) > len(pending[j].Record.URL)
		}
		return pending[i].Record.URL < pending[j].Record.URL
	})

	for _, o := range pending {
		text = strings.ReplaceAll(text, o.Record.URL, o.RelPath)
	}
	return text
}
