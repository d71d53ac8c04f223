package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/engine"
	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check [commit-range]",
	Short: "Review local changes and output a scored report",
	Long: `Review the local diff and output a scored report. By default checks
uncommitted changes against HEAD; optionally specify a commit range
or pipe a diff in.

Examples:
  prrev check                     # working tree vs HEAD
  prrev check main...HEAD         # branch vs main
  git diff | prrev check -        # pipe any diff

Exit codes:
  0 — EXCELLENT or GOOD
  1 — FAIR
  2 — POOR`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	checkCmd.Flags().Bool("no-ai", false, "skip AI analysis, static checks only")
	checkCmd.Flags().StringP("output", "o", "", "also write the full result as JSON to a file")
	checkCmd.Flags().IntP("context", "C", 3, "lines of context around changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		cfg.AI.Enabled = false
	}
	disableAIWithoutKey(&cfg)

	contextLines, _ := cmd.Flags().GetInt("context")
	raw, err := getDiff(cmd, args, contextLines)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Println("No changes to check.")
		return nil
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	res, err := eng.ReviewDiff(cmd.Context(), raw)
	if err != nil {
		return err
	}
	if res.Report.FilesReviewed == 0 {
		fmt.Println("No changes to check.")
		return nil
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		out, err := render.JSON(res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Result written to %s\n", outPath)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		out, err := render.JSON(res)
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "markdown":
		fmt.Print(render.Markdown(res.Report, ""))
	default:
		fmt.Print(render.Text(res.Report, ""))
	}

	// Set exit code
	switch res.Report.Grade {
	case model.GradePoor:
		os.Exit(2)
	case model.GradeFair:
		os.Exit(1)
	}
	return nil
}

func getDiff(cmd *cobra.Command, args []string, contextLines int) (string, error) {
	// Read from stdin if "-" is passed
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	repoDir, err := gitRepoRoot()
	if err != nil {
		return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	if len(args) == 1 {
		return diff.GitDiffRange(repoDir, args[0], contextLines)
	}

	return diff.GitDiffWorktree(repoDir, contextLines)
}

func gitRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
