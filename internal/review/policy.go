// Package review implements the scoring and aggregation engine that
// turns per-file findings into an overall review report.
package review

import "github.com/sprite-ai/prrev/internal/model"

// Policy carries every weight and threshold the engine uses. All
// knobs are explicit so independent runs can score with different
// policies concurrently.
type Policy struct {
	// SeverityPenalties is the per-finding score deduction by severity.
	SeverityPenalties map[model.Severity]float64

	// CategoryWeights is the fraction of the overall score each
	// category contributes. Categories absent from the map (and the
	// catch-all "other" bucket) are counted but not weighted.
	CategoryWeights map[model.Category]float64

	// GradeThresholds are inclusive lower bounds on the overall score.
	GradeThresholds GradeThresholds

	MaxPriorityActions int
	MaxKeyIssues       int
}

// GradeThresholds maps overall score bands to grades. A score at or
// above Excellent grades EXCELLENT, and so on down; below Fair is POOR.
type GradeThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultPolicy returns the stock scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		SeverityPenalties: map[model.Severity]float64{
			model.SeverityCritical: 25,
			model.SeverityError:    15,
			model.SeverityWarning:  5,
			model.SeverityInfo:     1,
		},
		CategoryWeights: map[model.Category]float64{
			model.CategorySecurity:        0.35,
			model.CategoryMaintainability: 0.25,
			model.CategoryStyle:           0.20,
			model.CategoryPerformance:     0.20,
		},
		GradeThresholds: GradeThresholds{
			Excellent: 0.9,
			Good:      0.7,
			Fair:      0.5,
		},
		MaxPriorityActions: 5,
		MaxKeyIssues:       10,
	}
}

// GradeFor derives the grade for an overall score.
func (t GradeThresholds) GradeFor(score float64) model.Grade {
	switch {
	case score >= t.Excellent:
		return model.GradeExcellent
	case score >= t.Good:
		return model.GradeGood
	case score >= t.Fair:
		return model.GradeFair
	default:
		return model.GradePoor
	}
}
