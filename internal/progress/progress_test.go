// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/md-assets/pkg/types"
)

var rec = types.URLRecord{URL: "https://github.com/user-attachments/assets/abc", Stem: "abc"}

func TestRecorder_ConcurrentEvents(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Advance(rec, 10, -1)
		}()
	}
	wg.Wait()
	r.Finish(rec, types.Downloaded(rec, "Images/abc.png"))

	events := r.Events()
	require.Len(t, events, 9)
	assert.Equal(t, int64(80), r.BytesFor(rec.URL))
	assert.Equal(t, "finish", events[8].Kind)
	assert.Equal(t, types.StatusDownloaded, events[8].Status)
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		out  types.Outcome
		want []string
	}{
		{"downloaded", types.Downloaded(rec, "Images/abc.png"), []string{"downloaded:", "Images/abc.png"}},
		{"exists", types.Exists(rec, "Images/abc.jpg"), []string{"exists:", "Images/abc.jpg", "already exists"}},
		{"failed", types.Failed(rec, types.FailureHTTPStatus, "HTTP 404"), []string{"failed:", rec.URL, "HTTP 404"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := StatusLine(rec, tt.out)
			for _, w := range tt.want {
				assert.Contains(t, line, w)
			}
		})
	}
}

func TestTerminal_CountsFinishedTasks(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 2)

	other := types.URLRecord{URL: "https://github.com/user-attachments/assets/def", Stem: "def"}
	term.Start(rec)
	term.Advance(rec, 512, 1024)
	term.Finish(rec, types.Downloaded(rec, "Images/abc.png"))
	term.Start(other)
	term.Finish(other, types.Failed(other, types.FailureTransport, "connection refused"))

	assert.Equal(t, 2, term.done)
	assert.Equal(t, "[2/2] downloading", term.describe())
	require.NoError(t, term.Close())
}

func TestLines_PrintsFinishedTasks(t *testing.T) {
	var buf bytes.Buffer
	var r Recorder
	sink := Tee(&r, NewLines(&buf))

	other := types.URLRecord{URL: "https://github.com/user-attachments/assets/def", Stem: "def"}
	sink.Start(rec)
	sink.Advance(rec, 512, 1024)
	sink.Finish(rec, types.Downloaded(rec, "Images/abc.png"))
	sink.Start(other)
	sink.Finish(other, types.Failed(other, types.FailureTransport, "connection refused"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Images/abc.png")
	assert.Contains(t, lines[1], "connection refused")
	assert.Len(t, r.Events(), 5)
	assert.Equal(t, int64(512), r.BytesFor(rec.URL))
}

func TestRenderSummary(t *testing.T) {
	s := types.Summary{
		MarkdownPath: "/notes/readme.md",
		Found:        3,
		Downloaded:   1,
		Failed:       2,
		FailedURLs:   []string{"https://github.com/user-attachments/assets/b", "https://github.com/user-attachments/assets/c"},
	}
	out := RenderSummary(s)
	assert.Contains(t, out, "readme.md")
	assert.Contains(t, out, "URLs found:")
	assert.Contains(t, out, "Images Not Downloaded")
	assert.Contains(t, out, s.FailedURLs[0])
	assert.Contains(t, out, s.FailedURLs[1])

	clean := RenderSummary(types.Summary{MarkdownPath: "a.md", Found: 1, Existed: 1})
	assert.NotContains(t, clean, "Images Not Downloaded")
}
