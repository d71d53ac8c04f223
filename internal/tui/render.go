package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prrev/internal/diff"
)

// renderSnippet syntax-highlights a finding's source excerpt.
func renderSnippet(filename, snippet string) string {
	var b strings.Builder
	for _, line := range diff.HighlightSnippet(filename, snippet) {
		for _, span := range line {
			if span.Color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(span.Color)).Render(span.Text))
			} else {
				b.WriteString(span.Text)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
