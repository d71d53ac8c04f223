// Package diff parses unified diffs into the per-file change records
// the review pipeline consumes.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/prrev/internal/model"
)

// File represents a single file in a diff with its parsed fragments.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int
}

// Name returns the display name for the file.
func (f *File) Name() string {
	if f.IsNew {
		return f.NewName
	}
	if f.IsDeleted {
		return f.OldName
	}
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// Status returns the change status in provider vocabulary.
func (f *File) Status() string {
	switch {
	case f.IsNew:
		return "added"
	case f.IsDeleted:
		return "deleted"
	case f.IsRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Patch reconstructs the unified diff text for this file alone.
func (f *File) Patch() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", f.OldName, f.NewName)
	for _, frag := range f.Fragments {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		for _, line := range frag.Lines {
			b.WriteString(opChar(line.Op))
			b.WriteString(strings.TrimSuffix(line.Line, "\n"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func opChar(op gitdiff.LineOp) string {
	switch op {
	case gitdiff.OpAdd:
		return "+"
	case gitdiff.OpDelete:
		return "-"
	default:
		return " "
	}
}

// DiffSet holds the parsed diff for all files.
type DiffSet struct {
	Files []*File
	Raw   string
}

// Stats returns aggregate statistics.
func (ds *DiffSet) Stats() (files, added, deleted int) {
	files = len(ds.Files)
	for _, f := range ds.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// FileChanges converts the diff set into provider-shaped change
// records, ready for the analysis pipeline. Binary files are skipped.
func (ds *DiffSet) FileChanges() []model.FileChange {
	var changes []model.FileChange
	for _, f := range ds.Files {
		if f.IsBinary {
			continue
		}
		changes = append(changes, model.FileChange{
			Path:         f.Name(),
			Status:       f.Status(),
			LinesAdded:   f.AddedLines,
			LinesDeleted: f.DeletedLines,
			Patch:        f.Patch(),
		})
	}
	return changes
}

// Parse reads a unified diff string and returns a DiffSet.
func Parse(raw string) (*DiffSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	ds := &DiffSet{Raw: raw}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			df.Fragments = append(df.Fragments, frag)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					df.AddedLines++
				case gitdiff.OpDelete:
					df.DeletedLines++
				}
			}
		}

		ds.Files = append(ds.Files, df)
	}

	return ds, nil
}

// LanguageForPath infers the language from the file extension.
// Returns "" when the extension is unknown.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".rb":
		return "ruby"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".c", ".h":
		return "c"
	case ".cc", ".cpp", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".sh", ".bash":
		return "shell"
	case ".sql":
		return "sql"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".html":
		return "html"
	case ".css":
		return "css"
	default:
		return ""
	}
}

// GitDiff runs `git diff` with the given arguments and returns the
// raw output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// GitDiffRange returns the diff for a commit range like "main...HEAD".
func GitDiffRange(repoDir, commitRange string, contextLines int) (string, error) {
	return GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), commitRange)
}

// GitDiffWorktree returns the diff of the working tree against HEAD.
func GitDiffWorktree(repoDir string, contextLines int) (string, error) {
	return GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), "HEAD")
}
