package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Span is a colored chunk of one snippet line.
type Span struct {
	Text  string
	Color string // hex color string, empty for default
}

// HighlightSnippet tokenizes a source excerpt for terminal display,
// returning one span slice per line. Files chroma cannot identify
// come back as plain single-span lines.
func HighlightSnippet(filename, snippet string) [][]Span {
	lines := strings.Split(strings.TrimRight(snippet, "\n"), "\n")

	lexer := lexerForFile(filename)
	if lexer == nil {
		return plainSpans(lines)
	}
	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plainSpans(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([][]Span, 1, len(lines))
	for _, token := range iterator.Tokens() {
		// Tokens can span multiple lines.
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, nil)
			}
			if part == "" {
				continue
			}
			last := len(result) - 1
			result[last] = append(result[last], Span{
				Text:  part,
				Color: tokenColor(style, token.Type),
			})
		}
	}
	// Lexers that force a trailing newline produce one empty line too
	// many; the result always matches the input line count.
	for len(result) < len(lines) {
		result = append(result, nil)
	}
	return result[:len(lines)]
}

func plainSpans(lines []string) [][]Span {
	result := make([][]Span, len(lines))
	for i, line := range lines {
		result[i] = []Span{{Text: line}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
