// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds asset URLs in raw Markdown text.
//
// Matching is a regular expression over the raw text, not a Markdown parse.
// The host and path filters are substring checks, so a URL whose query
// string happens to contain them is retained too.
package extract

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/md-assets/pkg/types"
)

// URLs returns the unique URLs in text that contain both hostFilter and
// pathFilter, each paired with its stem. Results are in first-appearance
// order; callers must not depend on that.
func URLs(text, hostFilter, pathFilter string) []types.URLRecord {
	seen := make(map[string]bool)
	var records []types.URLRecord
	for _, u := range urlPattern.FindAllString(text, -1) {
		if !strings.Contains(u, hostFilter) || !strings.Contains(u, pathFilter) {
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		records = append(records, types.URLRecord{URL: u, Stem: Stem(u)})
	}
	return records
}

// Stem returns the last non-empty path segment of rawURL, still
// percent-encoded, so "my%20pic" stays a valid link target and an encoded
// "%2F" does not split the segment. Trailing slashes are stripped first.
// When rawURL does not parse, the raw string up to any query or fragment is
// split instead.
func Stem(rawURL string) string {
	var p string
	if u, err := url.Parse(rawURL); err == nil {
		p = u.EscapedPath()
	} else {
		p, _, _ = strings.Cut(rawURL, "?")
		p, _, _ = strings.Cut(p, "#")
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// Collisions returns the stems shared by more than one record, mapped to
// the colliding URLs in sorted order.
func Collisions(records []types.URLRecord) map[string][]string {
	byStem := make(map[string][]string)
	for _, r := range records {
		byStem[r.Stem] = append(byStem[r.Stem], r.URL)
	}
	out := make(map[string][]string)
	for stem, urls := range byStem {
		if len(urls) > 1 {
			sort.Strings(urls)
			out[stem] = urls
		}
	}
	return out
}
