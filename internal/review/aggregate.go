package review

import (
	"sort"
	"strings"

	"github.com/sprite-ai/prrev/internal/model"
)

// Report is the aggregated result of one review run. Produced once,
// never mutated afterwards.
type Report struct {
	OverallScore    float64                    `json:"overall_score"`
	Grade           model.Grade                `json:"grade"`
	CategoryScores  map[model.Category]float64 `json:"category_scores"`
	CategoryCounts  map[model.Category]int     `json:"category_counts"`
	PriorityActions []string                   `json:"priority_actions"`
	KeyIssues       []model.Finding            `json:"key_issues"`
	TotalFindings   int                        `json:"total_findings"`
	FilesReviewed   int                        `json:"files_reviewed"`
}

// Aggregate combines all per-file results into a Report. It is a pure
// function of its inputs: no I/O, and the output is identical under
// any reordering of files or of findings within a file. Malformed
// findings are coerced, never rejected.
func Aggregate(results []model.FileAnalysisResult, pol Policy) Report {
	findings := flatten(results)

	counts := make(map[model.Category]int)
	for _, f := range findings {
		counts[f.Category]++
	}

	scores := make(map[model.Category]float64)
	for _, c := range model.Categories() {
		scores[c] = ScoreCategory(findings, c, pol.SeverityPenalties)
	}

	overall := 0.0
	if len(findings) == 0 {
		overall = 1.0
	} else {
		for c, w := range pol.CategoryWeights {
			overall += (scores[c] / 100) * w
		}
		if overall < 0 {
			overall = 0
		}
		if overall > 1 {
			overall = 1
		}
	}

	ranked := make([]model.Finding, len(findings))
	copy(ranked, findings)
	sortFindings(ranked)

	return Report{
		OverallScore:    overall,
		Grade:           pol.GradeThresholds.GradeFor(overall),
		CategoryScores:  scores,
		CategoryCounts:  counts,
		PriorityActions: priorityActions(ranked, pol.MaxPriorityActions),
		KeyIssues:       keyIssues(ranked, pol.MaxKeyIssues),
		TotalFindings:   len(findings),
		FilesReviewed:   len(results),
	}
}

// flatten collects all findings across files, filling in the origin
// file path and coercing whatever upstream noise it can: unknown
// impact defaults to LOW, critical findings are forced to HIGH
// impact, and invalid line ranges are zeroed.
func flatten(results []model.FileAnalysisResult) []model.Finding {
	var out []model.Finding
	for _, r := range results {
		for _, f := range r.Findings {
			if f.File == "" {
				f.File = r.FilePath
			}
			if f.Impact == model.ImpactUnknown {
				f.Impact = model.ImpactLow
			}
			if f.Severity == model.SeverityCritical {
				f.Impact = model.ImpactHigh
			}
			if f.LineStart < 0 {
				f.LineStart = 0
			}
			if f.LineEnd < f.LineStart {
				f.LineEnd = f.LineStart
			}
			out = append(out, f)
		}
	}
	return out
}

// sortFindings orders by severity desc, impact desc, then by file,
// line and message so the ranking is stable across input orderings.
func sortFindings(fs []model.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Impact != b.Impact {
			return a.Impact > b.Impact
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.LineStart != b.LineStart {
			return a.LineStart < b.LineStart
		}
		return a.Message < b.Message
	})
}

// priorityActions renders the top findings as action strings, using
// the suggestion when one exists and the message otherwise. Findings
// with case-insensitively identical messages collapse to one entry.
func priorityActions(ranked []model.Finding, limit int) []string {
	if limit <= 0 {
		return nil
	}
	seen := make(map[string]bool)
	var actions []string
	for _, f := range ranked {
		key := strings.ToLower(strings.TrimSpace(f.Message))
		if seen[key] {
			continue
		}
		seen[key] = true

		text := strings.TrimSpace(f.Suggestion)
		if text == "" {
			text = strings.TrimSpace(f.Message)
		}
		actions = append(actions, text)
		if len(actions) == limit {
			break
		}
	}
	return actions
}

func keyIssues(ranked []model.Finding, limit int) []model.Finding {
	if limit <= 0 || len(ranked) == 0 {
		return nil
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]model.Finding, len(ranked))
	copy(out, ranked)
	return out
}
