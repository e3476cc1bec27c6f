// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package localize runs the Markdown image pipeline: extract asset URLs,
// fetch them on a bounded pool, and rewrite the document once every task
// has finished.
//
// The Markdown file is read once and written at most once, after the
// barrier. A run that is interrupted never writes it.
package localize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/md-assets/internal/extract"
	"github.com/pdiddy/md-assets/internal/fetch"
	"github.com/pdiddy/md-assets/internal/progress"
	"github.com/pdiddy/md-assets/internal/rewrite"
	"github.com/pdiddy/md-assets/pkg/types"
)

// ErrMissingFilter is returned when the host or path filter is empty.
var ErrMissingFilter = errors.New("host and path filters are required")

// Localizer holds everything a run needs. Construct one per invocation.
type Localizer struct {
	Client *http.Client
	Config types.LocalizeConfig

	// NewSink builds an extra progress sink once the number of records is
	// known, e.g. a terminal bar. Per-item status lines go to Out regardless.
	NewSink func(total int) progress.Sink

	// Out receives the found/rewrote lines and one status line per record.
	// Nil discards them.
	Out io.Writer
}

// Result is what one run produced.
type Result struct {
	Summary  types.Summary
	Outcomes []types.Outcome
	Started  time.Time
	Finished time.Time
}

// Run localizes the images referenced by the Markdown file at path.
// Per-record failures are reported in the result, not as an error; the
// error return is reserved for problems with the document itself, the
// images directory, or cancellation.
func (l *Localizer) Run(ctx context.Context, path string) (Result, error) {
	res := Result{Started: time.Now().UTC()}
	cfg := l.Config.WithDefaults()
	w := l.Out
	if w == nil {
		w = io.Discard
	}
	if cfg.HostFilter == "" || cfg.PathFilter == "" {
		return res, ErrMissingFilter
	}

	runID := uuid.NewString()
	log := zerolog.Ctx(ctx).With().Str("run_id", runID).Str("file", path).Logger()
	ctx = log.WithContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)

	records := extract.URLs(text, cfg.HostFilter, cfg.PathFilter)
	fmt.Fprintf(w, "found: %d URL(s) in %s\n", len(records), filepath.Base(path))
	log.Debug().Int("records", len(records)).Msg("extracted URLs")

	if len(records) == 0 {
		res.Summary = types.Summarize(path, nil)
		res.Summary.RunID = runID
		res.Finished = time.Now().UTC()
		return res, nil
	}

	imagesDir := filepath.Join(filepath.Dir(path), cfg.ImagesDir)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return res, fmt.Errorf("creating directory %s: %w", imagesDir, err)
	}

	var sink progress.Sink = progress.NewLines(w)
	if l.NewSink != nil {
		sink = progress.Tee(l.NewSink(len(records)), sink)
	}

	dispatch, collided := splitCollisions(records)
	for _, o := range collided {
		log.Warn().Str("url", o.Record.URL).Str("stem", o.Record.Stem).Msg("stem collision, not downloading")
		sink.Start(o.Record)
		sink.Finish(o.Record, o)
	}

	f := fetch.New(l.Client, cfg, imagesDir, sink)
	outcomes := append(f.FetchAll(ctx, dispatch), collided...)
	res.Outcomes = outcomes

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("run interrupted, %s left unchanged: %w", filepath.Base(path), err)
	}

	updated := rewrite.Apply(text, outcomes, rewrite.Options{IncludeExisting: cfg.RelinkExisting})
	changed := updated != text
	if changed {
		if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
			return res, fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(w, "rewrote: %s\n", filepath.Base(path))
	}

	res.Summary = types.Summarize(path, outcomes)
	res.Summary.RunID = runID
	res.Summary.Changed = changed
	res.Finished = time.Now().UTC()

	log.Info().
		Int("found", res.Summary.Found).
		Int("downloaded", res.Summary.Downloaded).
		Int("existed", res.Summary.Existed).
		Int("failed", res.Summary.Failed).
		Msg("localize finished")
	return res, nil
}

// splitCollisions separates records whose stem is unique from those that
// share a stem. Colliding records would race on the same target file, so
// they are failed up front instead of dispatched.
func splitCollisions(records []types.URLRecord) ([]types.URLRecord, []types.Outcome) {
	collisions := extract.Collisions(records)
	if len(collisions) == 0 {
		return records, nil
	}
	var (
		dispatch []types.URLRecord
		collided []types.Outcome
	)
	for _, r := range records {
		urls, ok := collisions[r.Stem]
		if !ok {
			dispatch = append(dispatch, r)
			continue
		}
		reason := fmt.Sprintf("stem %q shared by %d URLs: %s", r.Stem, len(urls), strings.Join(urls, ", "))
		collided = append(collided, types.Failed(r, types.FailureStemCollision, reason))
	}
	return dispatch, collided
}
