// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/md-assets/pkg/types"
)

// Terminal renders a single byte-counting bar for the whole batch. The bar
// is cleared as each task finishes so status lines printed by a Lines sink
// teed after it land on a clean row.
type Terminal struct {
	total int

	mu   sync.Mutex
	done int
	bar  *progressbar.ProgressBar
}

// NewTerminal creates a sink that writes to w. total is the number of tasks
// expected, used only for display.
func NewTerminal(w io.Writer, total int) *Terminal {
	t := &Terminal{total: total}
	t.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(t.describe()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return t
}

func (t *Terminal) describe() string {
	return fmt.Sprintf("[%d/%d] downloading", t.done, t.total)
}

func (t *Terminal) Start(types.URLRecord) {}

func (t *Terminal) Advance(_ types.URLRecord, n, _ int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.bar.Add64(n)
}

func (t *Terminal) Finish(types.URLRecord, types.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.bar.Clear()
	t.done++
	t.bar.Describe(t.describe())
}

// Close removes the bar from the terminal.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bar.Finish()
}

// StatusLine formats one finished task the way batch runs print them.
func StatusLine(rec types.URLRecord, out types.Outcome) string {
	switch out.Status {
	case types.StatusDownloaded:
		return okStyle.Render("downloaded:") + " " + out.RelPath
	case types.StatusExists:
		return skipStyle.Render("exists:    ") + " " + out.RelPath + " (already exists)"
	default:
		return failStyle.Render("failed:    ") + " " + rec.URL + " (" + out.Reason + ")"
	}
}
