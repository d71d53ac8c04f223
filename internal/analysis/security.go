package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/model"
)

// Security patterns grouped by what they indicate.
var securityChecks = []struct {
	name     string
	patterns []*regexp.Regexp
	severity model.Severity
	advice   string
}{
	{
		name: "hardcoded secret",
		patterns: compilePatterns(
			`(?i)(api.?key|secret|password|token)\s*[:=]\s*["'][^"']{8,}["']`,
			`(?i)(PRIVATE|SECRET|PASSWORD|TOKEN)_?KEY\s*=\s*["']`,
		),
		severity: model.SeverityCritical,
		advice:   "Move the credential to environment or secret storage",
	},
	{
		name: "SQL string concatenation",
		patterns: compilePatterns(
			`(?i)(query|exec|queryrow|execute)\s*\(\s*["'][^"']*["']\s*\+`,
			`(?i)["']\s*\+\s*\w+\s*\)?.*\b(SELECT|INSERT|UPDATE|DELETE)\b`,
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[^"']*["']\s*\+`,
		),
		severity: model.SeverityError,
		advice:   "Use a parameterized query instead of string concatenation",
	},
	{
		name: "dynamic code execution",
		patterns: compilePatterns(
			`(?i)\b(eval|exec)\s*\(`,
			`(?i)(os\.system|subprocess\.call|shell_exec|child_process)`,
		),
		severity: model.SeverityError,
		advice:   "Avoid executing dynamically constructed code or commands",
	},
	{
		name: "disabled TLS verification",
		patterns: compilePatterns(
			`(?i)InsecureSkipVerify\s*:\s*true`,
			`(?i)(verify\s*=\s*False|disable.?ssl|CURLOPT_SSL_VERIFYPEER.*(false|0))`,
		),
		severity: model.SeverityError,
		advice:   "Keep certificate verification enabled",
	},
	{
		name: "auth-sensitive change",
		patterns: compilePatterns(
			`(?i)\b(authenticate|authorize|login|logout|session|jwt|oauth|rbac|is.?admin)\b`,
		),
		severity: model.SeverityWarning,
		advice:   "Double-check authentication and authorization logic",
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// SecurityPass flags security-relevant added lines.
func SecurityPass(ds *diff.DiffSet) []model.Finding {
	var findings []model.Finding

	for _, f := range ds.Files {
		name := f.Name()
		eachAddedLine(f, func(lineNum int, text string) {
			trimmed := strings.TrimSpace(text)
			if isComment(trimmed) {
				return
			}
			for _, check := range securityChecks {
				for _, re := range check.patterns {
					if re.MatchString(text) {
						findings = append(findings, model.Finding{
							File:       name,
							LineStart:  lineNum,
							LineEnd:    lineNum,
							Severity:   check.severity,
							Category:   model.CategorySecurity,
							Impact:     model.DefaultImpact(check.severity),
							Message:    fmt.Sprintf("%s: %s", check.name, trimmed),
							Suggestion: check.advice,
							Snippet:    trimmed,
							Source:     "static",
						})
						break // one finding per check per line
					}
				}
			}
		})
	}

	return dedupe(findings)
}

// eachAddedLine walks added lines with their new-file line numbers.
func eachAddedLine(f *diff.File, fn func(lineNum int, text string)) {
	for _, frag := range f.Fragments {
		lineNum := int(frag.NewPosition)
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpAdd {
				fn(lineNum, strings.TrimSuffix(line.Line, "\n"))
			}
			if line.Op == gitdiff.OpAdd || line.Op == gitdiff.OpContext {
				lineNum++
			}
		}
	}
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

// dedupe removes findings with the same file+line+message.
func dedupe(findings []model.Finding) []model.Finding {
	seen := make(map[string]bool)
	var result []model.Finding
	for _, f := range findings {
		key := fmt.Sprintf("%s:%d:%s", f.File, f.LineStart, f.Message)
		if !seen[key] {
			seen[key] = true
			result = append(result, f)
		}
	}
	return result
}
