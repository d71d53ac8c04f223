// Package model defines the core data types shared across prrev.
package model

import "strings"

// Severity ranks how urgent a finding is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a free-form severity string to a Severity.
// Unrecognized values map to SeverityInfo so noisy upstream data
// never escalates on its own.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "blocker":
		return SeverityCritical
	case "error", "high":
		return SeverityError
	case "warning", "warn", "medium":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Category is the classification axis of a finding.
type Category int

const (
	CategoryOther Category = iota
	CategorySecurity
	CategoryStyle
	CategoryPerformance
	CategoryMaintainability
	CategoryDocumentation
	CategoryBugs
	CategoryBestPractice
)

func (c Category) String() string {
	switch c {
	case CategorySecurity:
		return "security"
	case CategoryStyle:
		return "style"
	case CategoryPerformance:
		return "performance"
	case CategoryMaintainability:
		return "maintainability"
	case CategoryDocumentation:
		return "documentation"
	case CategoryBugs:
		return "bugs"
	case CategoryBestPractice:
		return "best_practice"
	default:
		return "other"
	}
}

// Categories lists every category in display order, catch-all last.
func Categories() []Category {
	return []Category{
		CategorySecurity,
		CategoryStyle,
		CategoryPerformance,
		CategoryMaintainability,
		CategoryDocumentation,
		CategoryBugs,
		CategoryBestPractice,
		CategoryOther,
	}
}

// ParseCategory maps a free-form category string to a Category.
// Unrecognized values route to the CategoryOther catch-all.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "security":
		return CategorySecurity
	case "style", "formatting", "readability":
		return CategoryStyle
	case "performance", "perf":
		return CategoryPerformance
	case "maintainability", "maintenance", "complexity":
		return CategoryMaintainability
	case "documentation", "docs":
		return CategoryDocumentation
	case "bug", "bugs", "correctness", "logic":
		return CategoryBugs
	case "best_practice", "best-practice", "best practice", "best_practices":
		return CategoryBestPractice
	default:
		return CategoryOther
	}
}

// Impact is the business consequence of a finding, independent of
// severity.
type Impact int

const (
	ImpactUnknown Impact = iota
	ImpactLow
	ImpactMedium
	ImpactHigh
)

func (i Impact) String() string {
	switch i {
	case ImpactLow:
		return "low"
	case ImpactMedium:
		return "medium"
	case ImpactHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseImpact maps a free-form impact string to an Impact.
func ParseImpact(s string) Impact {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ImpactHigh
	case "medium", "med":
		return ImpactMedium
	case "low":
		return ImpactLow
	default:
		return ImpactUnknown
	}
}

// DefaultImpact returns the default impact for a severity when the
// upstream data carries none.
func DefaultImpact(s Severity) Impact {
	switch s {
	case SeverityCritical, SeverityError:
		return ImpactHigh
	case SeverityWarning:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// Grade is the letter grade derived from the overall score.
type Grade int

const (
	GradePoor Grade = iota
	GradeFair
	GradeGood
	GradeExcellent
)

func (g Grade) String() string {
	switch g {
	case GradeExcellent:
		return "EXCELLENT"
	case GradeGood:
		return "GOOD"
	case GradeFair:
		return "FAIR"
	default:
		return "POOR"
	}
}

// Finding is a single detected issue in one file.
type Finding struct {
	File       string   `json:"file"`
	LineStart  int      `json:"line_start"` // 1-based into the new version, 0 if file-level
	LineEnd    int      `json:"line_end"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Impact     Impact   `json:"impact"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Snippet    string   `json:"snippet,omitempty"` // relevant source excerpt, optional
	Source     string   `json:"source,omitempty"`  // what produced this: "ai", "static", "fallback"
}

// FileAnalysisResult holds all findings for one file in a review run.
// Created once per file, immutable afterwards.
type FileAnalysisResult struct {
	FilePath     string    `json:"file_path"`
	Language     string    `json:"language,omitempty"`
	LinesAdded   int       `json:"lines_added"`
	LinesDeleted int       `json:"lines_deleted"`
	Findings     []Finding `json:"findings"`
}

// FileChange is a changed file as supplied by a git hosting provider.
type FileChange struct {
	Path         string `json:"path"`
	Status       string `json:"status"` // added, modified, deleted, renamed
	LinesAdded   int    `json:"lines_added"`
	LinesDeleted int    `json:"lines_deleted"`
	Patch        string `json:"patch,omitempty"` // unified diff fragment for this file
}

// Comment is a review comment destined for a git hosting provider.
// Line is 0 for PR-level summary comments.
type Comment struct {
	Body string `json:"body"`
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`
}

// MarshalText lets severities serialize by name in JSON.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts any spelling ParseSeverity accepts.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

func (i Impact) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Impact) UnmarshalText(text []byte) error {
	*i = ParseImpact(string(text))
	return nil
}

func (g Grade) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Grade) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "EXCELLENT":
		*g = GradeExcellent
	case "GOOD":
		*g = GradeGood
	case "FAIR":
		*g = GradeFair
	default:
		*g = GradePoor
	}
	return nil
}
