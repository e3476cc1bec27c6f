// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves asset URLs to local files.
//
// Each record is resolved independently: if the target directory already
// holds a file named after the record's stem, the record short-circuits to
// an exists outcome with no network call. Otherwise the URL is fetched with
// the session cookie, redirects are followed, and the body is streamed to
// disk under a suffix taken from the final URL. Failures are terminal for
// the run; nothing is retried.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/md-assets/internal/httputil"
	"github.com/pdiddy/md-assets/internal/progress"
	"github.com/pdiddy/md-assets/pkg/types"
)

// tempPrefix names in-flight downloads. Interrupted runs may leave these
// behind; the existence check ignores them.
const tempPrefix = ".fetch-"

// Fetcher downloads records into one target directory.
type Fetcher struct {
	client *http.Client
	cfg    types.LocalizeConfig
	dir    string
	sink   progress.Sink
}

// New creates a Fetcher that saves into dir. Relative paths in outcomes are
// built from cfg.ImagesDir, so dir should be that directory resolved against
// the Markdown file's location. A nil sink discards progress.
func New(client *http.Client, cfg types.LocalizeConfig, dir string, sink progress.Sink) *Fetcher {
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Fetcher{
		client: client,
		cfg:    cfg.WithDefaults(),
		dir:    dir,
		sink:   sink,
	}
}

// FetchAll resolves every record on a pool of cfg.Workers goroutines and
// returns once all of them have finished. Outcomes are in completion order.
func (f *Fetcher) FetchAll(ctx context.Context, records []types.URLRecord) []types.Outcome {
	var (
		mu       sync.Mutex
		outcomes = make([]types.Outcome, 0, len(records))
	)

	var g errgroup.Group
	g.SetLimit(f.cfg.Workers)
	for _, rec := range records {
		g.Go(func() error {
			out := f.Fetch(ctx, rec)
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Fetch resolves a single record. It never returns an error: every failure
// becomes a failed outcome.
func (f *Fetcher) Fetch(ctx context.Context, rec types.URLRecord) types.Outcome {
	f.sink.Start(rec)
	out := f.resolve(ctx, rec)
	f.sink.Finish(rec, out)
	return out
}

func (f *Fetcher) resolve(ctx context.Context, rec types.URLRecord) types.Outcome {
	log := zerolog.Ctx(ctx).With().Str("url", rec.URL).Str("stem", rec.Stem).Logger()

	name, err := FindExisting(f.dir, rec.Stem)
	if err != nil {
		log.Debug().Err(err).Msg("existence check failed")
	}
	if name != "" {
		log.Debug().Str("file", name).Msg("already exists")
		return types.Exists(rec, f.relPath(name))
	}

	name, err = f.download(ctx, rec)
	if err != nil {
		kind := Classify(err)
		log.Warn().Err(err).Str("kind", string(kind)).Msg("download failed")
		return types.Failed(rec, kind, Reason(err))
	}
	log.Debug().Str("file", name).Msg("downloaded")
	return types.Downloaded(rec, f.relPath(name))
}

// download fetches rec.URL and streams the body to dir/stem<ext> through a
// temporary file. It returns the saved file name.
func (f *Fetcher) download(ctx context.Context, rec types.URLRecord) (string, error) {
	req, err := httputil.NewAssetRequest(ctx, rec.URL, f.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, URL: rec.URL}
	}

	name := rec.Stem + Extension(resp.Request.URL, resp.Header.Get("Content-Type"))
	destPath := filepath.Join(f.dir, name)

	tmpFile, err := os.CreateTemp(f.dir, tempPrefix+"*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %v", ErrWrite, err)
	}
	tmpPath := tmpFile.Name()

	pw := &progressWriter{w: tmpFile, rec: rec, sink: f.sink, total: resp.ContentLength}
	_, copyErr := io.CopyBuffer(pw, resp.Body, make([]byte, f.cfg.ChunkSize))
	closeErr := tmpFile.Close()
	switch {
	case pw.err != nil:
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: writing %s: %v", ErrWrite, name, pw.err)
	case copyErr != nil:
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: reading body: %v", ErrTransport, copyErr)
	case closeErr != nil:
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: closing temp file: %v", ErrWrite, closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: renaming temp file: %v", ErrWrite, err)
	}
	return name, nil
}

func (f *Fetcher) relPath(name string) string {
	return path.Join(filepath.ToSlash(f.cfg.ImagesDir), name)
}

// progressWriter forwards each chunk to the sink after it has been written.
// It remembers write errors so they can be told apart from body read errors.
type progressWriter struct {
	w     io.Writer
	rec   types.URLRecord
	sink  progress.Sink
	total int64
	err   error
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		p.sink.Advance(p.rec, int64(n), p.total)
	}
	if err != nil {
		p.err = err
	}
	return n, err
}

// FindExisting returns the name of a regular file in dir whose name starts
// with stem + ".", or "" when there is none. Extension and content are not
// checked.
func FindExisting(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	prefix := stem + "."
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			return e.Name(), nil
		}
	}
	return "", nil
}
