package ai

import (
	"encoding/json"
	"strings"

	"github.com/sprite-ai/prrev/internal/model"
)

// FallbackMessage is the text of the placeholder finding substituted
// when a backend reply cannot be used.
const FallbackMessage = "AI analysis unavailable or unparseable for this file"

// ParseResult is the outcome of parsing one backend reply. A degraded
// result carries exactly one placeholder finding; it is a normal,
// expected outcome, not an error.
type ParseResult struct {
	Findings []model.Finding
	Degraded bool
}

// rawFeedback is the JSON structure the backends are instructed to
// return per issue.
type rawFeedback struct {
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	Impact     string `json:"impact"`
	LineStart  int    `json:"line_start"`
	LineEnd    int    `json:"line_end"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Snippet    string `json:"code_snippet"`
}

type feedbackEnvelope struct {
	Feedback []rawFeedback `json:"feedback"`
}

// ParseFindings extracts findings for one file from a raw backend
// reply. It accepts a {"feedback": [...]} object or a bare array,
// with or without markdown code fences. On any parse failure it
// degrades to a single placeholder finding; it never fails.
func ParseFindings(raw, filePath string) ParseResult {
	content := stripFences(strings.TrimSpace(raw))

	items, ok := extractFeedback(content)
	if !ok {
		return Degraded(filePath)
	}

	findings := make([]model.Finding, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Message) == "" {
			continue
		}
		sev := model.ParseSeverity(item.Severity)
		impact := model.ParseImpact(item.Impact)
		if impact == model.ImpactUnknown {
			impact = model.DefaultImpact(sev)
		}
		findings = append(findings, model.Finding{
			File:       filePath,
			LineStart:  item.LineStart,
			LineEnd:    item.LineEnd,
			Severity:   sev,
			Category:   model.ParseCategory(item.Category),
			Impact:     impact,
			Message:    strings.TrimSpace(item.Message),
			Suggestion: strings.TrimSpace(item.Suggestion),
			Snippet:    item.Snippet,
			Source:     "ai",
		})
	}

	return ParseResult{Findings: findings}
}

// Degraded returns the placeholder result for a file whose analysis
// produced nothing usable.
func Degraded(filePath string) ParseResult {
	return ParseResult{
		Findings: []model.Finding{{
			File:     filePath,
			Severity: model.SeverityInfo,
			Category: model.CategoryOther,
			Impact:   model.ImpactLow,
			Message:  FallbackMessage,
			Source:   "fallback",
		}},
		Degraded: true,
	}
}

func extractFeedback(content string) ([]rawFeedback, bool) {
	// Bare array form.
	if strings.HasPrefix(content, "[") {
		var items []rawFeedback
		if err := json.Unmarshal([]byte(content), &items); err == nil {
			return items, true
		}
		return nil, false
	}

	// Envelope form; tolerate prose around the JSON object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var env feedbackEnvelope
	if err := json.Unmarshal([]byte(content[start:end+1]), &env); err != nil {
		return nil, false
	}
	if env.Feedback == nil {
		return nil, false
	}
	return env.Feedback, true
}

func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
