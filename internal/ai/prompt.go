package ai

import (
	"fmt"
	"strings"
)

// SystemPrompt is the shared system instruction for per-file analysis.
const SystemPrompt = `You are an expert code reviewer. Analyze the provided code change and report concrete, actionable issues covering security, style, performance, maintainability, documentation, bugs, and best practices.

You MUST respond with ONLY a JSON object of this exact shape. No markdown, no prose outside the JSON.

{
  "feedback": [
    {
      "category": "security|style|performance|maintainability|documentation|bugs|best_practice",
      "severity": "info|warning|error|critical",
      "impact": "high|medium|low",
      "line_start": 1,
      "line_end": 1,
      "message": "What is wrong and why it matters",
      "suggestion": "Concrete, imperative fix"
    }
  ]
}

If the change has no issues, respond with {"feedback": []}.`

// BuildFilePrompt constructs the per-file analysis prompt.
func BuildFilePrompt(path, language, patch string, linesAdded, linesDeleted int) string {
	var b strings.Builder

	b.WriteString("Review the following file change from a pull request.\n\n")
	fmt.Fprintf(&b, "File: %s\n", path)
	if language != "" {
		fmt.Fprintf(&b, "Language: %s\n", language)
	}
	fmt.Fprintf(&b, "Lines added: %d, lines deleted: %d\n", linesAdded, linesDeleted)
	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(patch)
	b.WriteString("\n--- END DIFF ---\n")
	b.WriteString("\nOnly report issues introduced by this change. Reference line numbers in the new version of the file.\n")

	return b.String()
}
