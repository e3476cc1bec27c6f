// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/md-assets/pkg/types"
)

const base = "https://github.com/user-attachments/assets/"

func rec(stem string) types.URLRecord {
	return types.URLRecord{URL: base + stem, Stem: stem}
}

func TestApply(t *testing.T) {
	text := "![a](" + base + "a)\n" +
		`<img src="` + base + `b">` + "\n" +
		"inline " + base + "a again\n" +
		"![c](" + base + "c)\n"

	tests := []struct {
		name     string
		outcomes []types.Outcome
		opts     Options
		want     string
	}{
		{
			name: "downloaded replaced everywhere, others untouched",
			outcomes: []types.Outcome{
				types.Downloaded(rec("a"), "Images/a.png"),
				types.Exists(rec("b"), "Images/b.jpg"),
				types.Failed(rec("c"), types.FailureHTTPStatus, "HTTP 404"),
			},
			want: "![a](Images/a.png)\n" +
				`<img src="` + base + `b">` + "\n" +
				"inline Images/a.png again\n" +
				"![c](" + base + "c)\n",
		},
		{
			name: "include existing",
			outcomes: []types.Outcome{
				types.Exists(rec("b"), "Images/b.jpg"),
			},
			opts: Options{IncludeExisting: true},
			want: "![a](" + base + "a)\n" +
				`<img src="Images/b.jpg">` + "\n" +
				"inline " + base + "a again\n" +
				"![c](" + base + "c)\n",
		},
		{
			name:     "no outcomes",
			outcomes: nil,
			want:     text,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(text, tt.outcomes, tt.opts))
		})
	}
}

func TestApply_OrderInsensitive(t *testing.T) {
	text := "![s](" + base + "ab) ![l](" + base + "abcd)"
	short := types.Downloaded(rec("ab"), "Images/ab.png")
	long := types.Downloaded(rec("abcd"), "Images/abcd.png")
	want := "![s](Images/ab.png) ![l](Images/abcd.png)"

	assert.Equal(t, want, Apply(text, []types.Outcome{short, long}, Options{}))
	assert.Equal(t, want, Apply(text, []types.Outcome{long, short}, Options{}))
}
