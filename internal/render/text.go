package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/review"
)

var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorDim    = lipgloss.Color("#6272a4")
	colorOrange = lipgloss.Color("#ffb86c")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	locationStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	gradeStyles = map[model.Grade]lipgloss.Style{
		model.GradeExcellent: lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		model.GradeGood:      lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		model.GradeFair:      lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		model.GradePoor:      lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}

	severityStyles = map[model.Severity]lipgloss.Style{
		model.SeverityCritical: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		model.SeverityError:    lipgloss.NewStyle().Foreground(colorOrange),
		model.SeverityWarning:  lipgloss.NewStyle().Foreground(colorYellow),
		model.SeverityInfo:     lipgloss.NewStyle().Foreground(colorDim),
	}
)

// Text renders a report for the terminal.
func Text(rep review.Report, title string) string {
	var b strings.Builder

	if title != "" {
		b.WriteString(headerStyle.Render(title) + "\n\n")
	}
	fmt.Fprintf(&b, "Score: %.1f/100  %s\n", rep.OverallScore*100, gradeStyles[rep.Grade].Render(rep.Grade.String()))
	fmt.Fprintf(&b, "%d finding(s) across %d file(s)\n\n", rep.TotalFindings, rep.FilesReviewed)

	b.WriteString(headerStyle.Render("Categories") + "\n")
	for _, c := range model.Categories() {
		fmt.Fprintf(&b, "  %-16s %3d finding(s)  score %.0f\n", c, rep.CategoryCounts[c], rep.CategoryScores[c])
	}
	b.WriteString("\n")

	if len(rep.PriorityActions) > 0 {
		b.WriteString(headerStyle.Render("Priority Actions") + "\n")
		for i, a := range rep.PriorityActions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, a)
		}
		b.WriteString("\n")
	}

	if len(rep.KeyIssues) > 0 {
		b.WriteString(headerStyle.Render("Key Issues") + "\n")
		for _, f := range rep.KeyIssues {
			sev := severityStyles[f.Severity].Render(strings.ToUpper(f.Severity.String()))
			loc := locationStyle.Render(plainLocation(f))
			fmt.Fprintf(&b, "  %s %s %s\n", sev, loc, f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "     %s\n", dimStyle.Render("→ "+f.Suggestion))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func plainLocation(f model.Finding) string {
	if f.LineStart > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.LineStart)
	}
	return f.File
}
