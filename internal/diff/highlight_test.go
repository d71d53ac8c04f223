package diff

import (
	"strings"
	"testing"
)

func plainText(line []Span) string {
	var b strings.Builder
	for _, s := range line {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlightSnippet(t *testing.T) {
	snippet := "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}"

	lines := HighlightSnippet("main.go", snippet)

	if len(lines) != 5 {
		t.Fatalf("expected 5 highlighted lines, got %d", len(lines))
	}
	if len(lines[0]) == 0 {
		t.Error("expected spans in first line")
	}
	if plainText(lines[0]) != "package main" {
		t.Errorf("plain text mismatch: %q", plainText(lines[0]))
	}
	if plainText(lines[4]) != "}" {
		t.Errorf("last line mismatch: %q", plainText(lines[4]))
	}
}

func TestHighlightSnippetUnknownLanguage(t *testing.T) {
	lines := HighlightSnippet("unknown.xyz123", "some content\nmore content")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if plainText(lines[0]) != "some content" {
		t.Errorf("expected plain passthrough, got %q", plainText(lines[0]))
	}
}

func TestHighlightSnippetTrailingNewline(t *testing.T) {
	lines := HighlightSnippet("main.go", "x := 1\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}
