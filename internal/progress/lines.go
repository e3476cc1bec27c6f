// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/md-assets/pkg/types"
)

// Lines prints one StatusLine per finished task.
type Lines struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLines returns a sink that writes status lines to w.
func NewLines(w io.Writer) *Lines {
	return &Lines{w: w}
}

func (l *Lines) Start(types.URLRecord)                 {}
func (l *Lines) Advance(types.URLRecord, int64, int64) {}

func (l *Lines) Finish(rec types.URLRecord, out types.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, StatusLine(rec, out))
}

// Tee forwards every event to each sink in order.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Start(rec types.URLRecord) {
	for _, s := range t {
		s.Start(rec)
	}
}

func (t tee) Advance(rec types.URLRecord, n, total int64) {
	for _, s := range t {
		s.Advance(rec, n, total)
	}
}

func (t tee) Finish(rec types.URLRecord, out types.Outcome) {
	for _, s := range t {
		s.Finish(rec, out)
	}
}
