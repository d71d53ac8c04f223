package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/model"
)

const maxLineLength = 160

var (
	broadExceptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)except\s*:`),
		regexp.MustCompile(`(?i)except\s+Exception\s*:`),
		regexp.MustCompile(`(?i)catch\s*\(\s*(Exception|Error|Throwable)\b`),
		regexp.MustCompile(`(?i)rescue\s+StandardError`),
		regexp.MustCompile(`\.catch\(\s*(?:_|\(\s*\))\s*=>`),
	}

	commentedCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(?://|#)\s*(?:func |def |class |if |for |while |return |import |from |const |let |var )`),
	}

	todoPattern = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX)\b`)
)

// StructurePass flags maintainability and style smells on added lines.
func StructurePass(ds *diff.DiffSet) []model.Finding {
	var findings []model.Finding

	for _, f := range ds.Files {
		name := f.Name()
		eachAddedLine(f, func(lineNum int, text string) {
			trimmed := strings.TrimSpace(text)

			for _, pat := range broadExceptPatterns {
				if pat.MatchString(text) {
					findings = append(findings, model.Finding{
						File:       name,
						LineStart:  lineNum,
						LineEnd:    lineNum,
						Severity:   model.SeverityWarning,
						Category:   model.CategoryMaintainability,
						Impact:     model.ImpactMedium,
						Message:    fmt.Sprintf("broad exception handling: %s", trimmed),
						Suggestion: "Catch the narrowest exception type the code can handle",
						Snippet:    trimmed,
						Source:     "static",
					})
					break
				}
			}

			for _, pat := range commentedCodePatterns {
				if pat.MatchString(text) {
					findings = append(findings, model.Finding{
						File:       name,
						LineStart:  lineNum,
						LineEnd:    lineNum,
						Severity:   model.SeverityInfo,
						Category:   model.CategoryMaintainability,
						Impact:     model.ImpactLow,
						Message:    fmt.Sprintf("commented-out code: %s", trimmed),
						Suggestion: "Delete dead code; version control keeps the history",
						Snippet:    trimmed,
						Source:     "static",
					})
					break
				}
			}

			if todoPattern.MatchString(text) {
				findings = append(findings, model.Finding{
					File:      name,
					LineStart: lineNum,
					LineEnd:   lineNum,
					Severity:  model.SeverityInfo,
					Category:  model.CategoryDocumentation,
					Impact:    model.ImpactLow,
					Message:   fmt.Sprintf("marker comment left in change: %s", trimmed),
					Snippet:   trimmed,
					Source:    "static",
				})
			}

			if len(text) > maxLineLength {
				findings = append(findings, model.Finding{
					File:       name,
					LineStart:  lineNum,
					LineEnd:    lineNum,
					Severity:   model.SeverityInfo,
					Category:   model.CategoryStyle,
					Impact:     model.ImpactLow,
					Message:    fmt.Sprintf("line exceeds %d characters", maxLineLength),
					Suggestion: "Wrap or extract the expression",
					Source:     "static",
				})
			}
		})
	}

	return dedupe(findings)
}
