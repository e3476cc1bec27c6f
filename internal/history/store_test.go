// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/md-assets/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(stem string) types.URLRecord {
	return types.URLRecord{URL: "https://github.com/user-attachments/assets/" + stem, Stem: stem}
}

func sampleOutcomes() []types.Outcome {
	return []types.Outcome{
		types.Downloaded(rec("a"), "Images/a.png"),
		types.Failed(rec("b"), types.FailureHTTPStatus, "HTTP 404"),
		types.Exists(rec("c"), "Images/c.jpg"),
		types.Failed(rec("d"), types.FailureTransport, "connection refused"),
	}
}

func TestRecordAndQuery(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	outcomes := sampleOutcomes()
	sum := types.Summarize("/notes/a.md", outcomes)
	sum.RunID = "run-1"
	run := types.RunFromSummary(sum, started, started.Add(2*time.Second))

	require.NoError(t, s.Record(ctx, run, outcomes))

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	gotOutcomes, err := s.Outcomes(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, outcomes, gotOutcomes)

	failed, err := s.FailedURLs(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{rec("b").URL, rec("d").URL}, failed)
}

func TestRecordReplacesSameRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := types.Run{ID: "r", MarkdownPath: "x.md", StartedAt: time.Now()}

	require.NoError(t, s.Record(ctx, run, sampleOutcomes()))
	require.NoError(t, s.Record(ctx, run, sampleOutcomes()[:1]))

	got, err := s.Outcomes(ctx, "r")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordRequiresID(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.Record(context.Background(), types.Run{}, nil))
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Sub-second offsets check that ordering does not depend on trimmed
	// fractional digits.
	for i, off := range []time.Duration{0, 500 * time.Millisecond, time.Second, 1500 * time.Millisecond} {
		run := types.Run{ID: string(rune('a' + i)), MarkdownPath: "n.md", StartedAt: base.Add(off)}
		require.NoError(t, s.Record(ctx, run, nil))
	}

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)

	runs, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLatestEmpty(t *testing.T) {
	_, err := testStore(t).Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, id := range []string{"abc123", "abd456"} {
		require.NoError(t, s.Record(ctx, types.Run{ID: id, MarkdownPath: "n.md", StartedAt: time.Now()}, nil))
	}

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "full id", id: "abc123", want: "abc123"},
		{name: "unique prefix", id: "abd", want: "abd456"},
		{name: "ambiguous prefix", id: "ab", wantErr: true},
		{name: "unknown", id: "zzz", wantErr: true},
		{name: "underscore is literal", id: "ab_", wantErr: true},
		{name: "percent is literal", id: "%", wantErr: true},
		{name: "lone underscore", id: "_", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.Get(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.ID)
		})
	}

	_, err := s.Get(ctx, "zzz")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.Get(ctx, "a_c")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), types.Run{ID: "keep", MarkdownPath: "n.md"}, sampleOutcomes()))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	failed, err := s.FailedURLs(context.Background(), "keep")
	require.NoError(t, err)
	assert.Len(t, failed, 2)
}
