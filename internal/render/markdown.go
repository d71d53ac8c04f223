// Package render formats review reports for terminals, markdown
// review bodies, and JSON output.
package render

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/review"
)

// Markdown renders a report as a pull request review body.
func Markdown(rep review.Report, title string) string {
	var b strings.Builder

	b.WriteString("## Code Review Summary\n\n")
	if title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", title)
	}
	fmt.Fprintf(&b, "**Overall Score:** %.1f/100 — %s\n\n", rep.OverallScore*100, rep.Grade)
	fmt.Fprintf(&b, "%d finding(s) across %d file(s).\n\n", rep.TotalFindings, rep.FilesReviewed)

	b.WriteString("| Category | Findings | Score |\n")
	b.WriteString("|----------|----------|-------|\n")
	for _, c := range model.Categories() {
		fmt.Fprintf(&b, "| %s | %d | %.0f |\n", c, rep.CategoryCounts[c], rep.CategoryScores[c])
	}
	b.WriteString("\n")

	if len(rep.PriorityActions) > 0 {
		b.WriteString("### Priority Actions\n\n")
		for i, a := range rep.PriorityActions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, a)
		}
		b.WriteString("\n")
	}

	if len(rep.KeyIssues) > 0 {
		b.WriteString("### Key Issues\n\n")
		for _, f := range rep.KeyIssues {
			fmt.Fprintf(&b, "- %s %s\n", issueLocation(f), f.Message)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Comment renders one finding as an inline review comment body.
func Comment(f model.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s): %s", strings.ToUpper(f.Severity.String()), f.Category, f.Message)
	if f.Suggestion != "" {
		fmt.Fprintf(&b, "\n\nSuggestion: %s", f.Suggestion)
	}
	return b.String()
}

func issueLocation(f model.Finding) string {
	if f.LineStart > 0 {
		return fmt.Sprintf("`%s:%d`", f.File, f.LineStart)
	}
	return fmt.Sprintf("`%s`", f.File)
}
