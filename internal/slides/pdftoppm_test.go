// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and simulates pdftoppm output.
type mockExecutor struct {
	available bool
	pages     int
	runErr    error
	stderr    string
	gotArgs   []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stderr io.Writer) error {
	m.gotArgs = args
	if m.runErr != nil {
		io.WriteString(stderr, m.stderr)
		return m.runErr
	}
	prefix := args[len(args)-1]
	width := len(fmt.Sprint(m.pages))
	for i := 1; i <= m.pages; i++ {
		p := fmt.Sprintf("%s-%0*d.png", prefix, width, i)
		if err := os.WriteFile(p, []byte(fmt.Sprint(i)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func TestPdftoppmRender(t *testing.T) {
	dir := t.TempDir()
	m := &mockExecutor{available: true, pages: 11}
	r := &PdftoppmRasterizer{exec: m}

	names, err := r.Render(context.Background(), "in.pdf", 200, dir, func(p int) string { return SlideName("d", p) })
	require.NoError(t, err)
	require.Len(t, names, 11)
	assert.Equal(t, []string{"-r", "200", "-png", "in.pdf"}, m.gotArgs[:4])

	// Page 2 was written as page-02.png and must land on slide 002, not 010.
	data, err := os.ReadFile(filepath.Join(dir, "d_SLIDES_002.png"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
	data, err = os.ReadFile(filepath.Join(dir, "d_SLIDES_010.png"))
	require.NoError(t, err)
	assert.Equal(t, "10", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".pdftoppm-"), "scratch dir left behind")
	}
}

func TestPdftoppmRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantMsg string
	}{
		{name: "binary missing", exec: &mockExecutor{}, wantMsg: "not found on PATH"},
		{name: "command fails", exec: &mockExecutor{available: true, runErr: errors.New("exit status 1"), stderr: "Syntax Error"}, wantMsg: "Syntax Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &PdftoppmRasterizer{exec: tt.exec}
			_, err := r.Render(context.Background(), "in.pdf", 300, t.TempDir(), func(p int) string { return SlideName("d", p) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"page-1.png", 1, true},
		{"page-007.png", 7, true},
		{"page-0.png", 0, false},
		{"page-x.png", 0, false},
		{"page-1.ppm", 0, false},
		{"other-1.png", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := pageNumber(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}
