// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/md-assets/pkg/types"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	failPanelStyle = panelStyle.BorderForeground(lipgloss.Color("196"))
)

// RenderSummary returns the end-of-run panel: counts per outcome class and,
// when anything failed, a second panel listing the failed URLs.
func RenderSummary(s types.Summary) string {
	rows := [][2]string{
		{"Markdown file:", filepath.Base(s.MarkdownPath)},
		{"URLs found:", fmt.Sprint(s.Found)},
		{"Images downloaded:", fmt.Sprint(s.Downloaded)},
		{"Already existed:", fmt.Sprint(s.Existed)},
		{"Failed downloads:", fmt.Sprint(s.Failed)},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s", labelStyle.Render(fmt.Sprintf("%-18s", r[0])), r[1])
	}

	title := okStyle.Render("Markdown Image Downloader")
	out := panelStyle.Render(title + "\n" + b.String())
	if len(s.FailedURLs) == 0 {
		return out
	}

	failed := failStyle.Render("Images Not Downloaded") + "\n" + strings.Join(s.FailedURLs, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, out, failPanelStyle.Render(failed))
}
