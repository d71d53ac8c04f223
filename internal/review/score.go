package review

import "github.com/sprite-ai/prrev/internal/model"

// Score converts a set of findings into a 0-100 sub-score by
// subtracting a penalty per finding from a perfect 100. The sum is
// commutative, so the result does not depend on finding order. An
// empty set scores exactly 100.
func Score(findings []model.Finding, penalties map[model.Severity]float64) float64 {
	score := 100.0
	for _, f := range findings {
		score -= penalties[f.Severity]
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreCategory scores only the findings in the given category.
func ScoreCategory(findings []model.Finding, c model.Category, penalties map[model.Severity]float64) float64 {
	var scoped []model.Finding
	for _, f := range findings {
		if f.Category == c {
			scoped = append(scoped, f)
		}
	}
	return Score(scoped, penalties)
}
