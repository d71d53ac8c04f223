// Package analysis implements static analysis passes over diffs.
// Passes run alongside the AI backend and feed the same aggregation
// pipeline.
package analysis

import (
	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/model"
)

// Pass is a function that analyzes a diff and returns findings.
type Pass func(ds *diff.DiffSet) []model.Finding

type registeredPass struct {
	Name string
	Fn   Pass
}

// Passes lists all passes in the order they run. Findings are emitted
// in this order, so results are stable across runs.
var Passes = []registeredPass{
	{"security", SecurityPass},
	{"structure", StructurePass},
}

// Run executes all passes (or a subset) and returns the combined
// findings.
func Run(ds *diff.DiffSet, skip []string) []model.Finding {
	skipSet := make(map[string]bool)
	for _, s := range skip {
		skipSet[s] = true
	}

	var findings []model.Finding
	for _, p := range Passes {
		if skipSet[p.Name] {
			continue
		}
		findings = append(findings, p.Fn(ds)...)
	}
	return findings
}

// ForFile filters findings down to one file path.
func ForFile(findings []model.Finding, path string) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.File == path {
			out = append(out, f)
		}
	}
	return out
}
