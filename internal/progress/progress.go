// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress reports per-task download activity. Sinks are purely
// observational: nothing they do feeds back into control flow.
package progress

import (
	"sync"

	"github.com/pdiddy/md-assets/pkg/types"
)

// Sink receives task events keyed by record. Implementations must be safe
// for concurrent use; every worker reports into the same sink.
type Sink interface {
	// Start is called once before any network activity for rec.
	Start(rec types.URLRecord)

	// Advance reports n more bytes written for rec. total is the expected
	// body length, or -1 when the server did not send one.
	Advance(rec types.URLRecord, n, total int64)

	// Finish is called once with the terminal outcome for rec.
	Finish(rec types.URLRecord, out types.Outcome)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Start(types.URLRecord)                 {}
func (Nop) Advance(types.URLRecord, int64, int64) {}
func (Nop) Finish(types.URLRecord, types.Outcome) {}

// Event is one recorded sink call.
type Event struct {
	Kind   string // "start", "advance", or "finish"
	URL    string
	Bytes  int64
	Status types.OutcomeStatus
}

// Recorder keeps every event in arrival order. Tests use it to assert on
// what the coordinator reported.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Start(rec types.URLRecord) {
	r.add(Event{Kind: "start", URL: rec.URL})
}

func (r *Recorder) Advance(rec types.URLRecord, n, _ int64) {
	r.add(Event{Kind: "advance", URL: rec.URL, Bytes: n})
}

func (r *Recorder) Finish(rec types.URLRecord, out types.Outcome) {
	r.add(Event{Kind: "finish", URL: rec.URL, Status: out.Status})
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// BytesFor sums the advance events recorded for url.
func (r *Recorder) BytesFor(url string) int64 {
	var total int64
	for _, e := range r.Events() {
		if e.Kind == "advance" && e.URL == url {
			total += e.Bytes
		}
	}
	return total
}
