// Package engine runs the review pipeline: fetch changes, analyze
// each file, and aggregate everything into a single report.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/prrev/internal/ai"
	"github.com/sprite-ai/prrev/internal/analysis"
	"github.com/sprite-ai/prrev/internal/config"
	"github.com/sprite-ai/prrev/internal/diff"
	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/provider"
	"github.com/sprite-ai/prrev/internal/review"
)

// Event reports pipeline progress, one per analyzed file plus a
// final done event.
type Event struct {
	Type     string `json:"type"` // file_start, file_done, done
	File     string `json:"file,omitempty"`
	Findings int    `json:"findings,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Result is the outcome of one review run.
type Result struct {
	PR       *provider.PullRequest      `json:"pull_request,omitempty"`
	Files    []model.FileAnalysisResult `json:"files"`
	Report   review.Report              `json:"report"`
	Degraded []string                   `json:"degraded,omitempty"` // files that fell back
}

// Engine drives reviews with a fixed configuration. A nil backend
// means static analysis only.
type Engine struct {
	cfg      config.Config
	backend  ai.Backend
	progress func(Event)
}

// New builds an Engine from configuration, constructing the AI
// backend when enabled.
func New(cfg config.Config) (*Engine, error) {
	e := &Engine{cfg: cfg}
	if cfg.AI.Enabled {
		b, err := ai.New(cfg.AI.Provider, cfg.AI.Model, cfg.AI.APIKey)
		if err != nil {
			return nil, fmt.Errorf("creating AI backend: %w", err)
		}
		e.backend = b
	}
	return e, nil
}

// NewWithBackend builds an Engine around an explicit backend. Used by
// tests and the offline demo path.
func NewWithBackend(cfg config.Config, b ai.Backend) *Engine {
	return &Engine{cfg: cfg, backend: b}
}

// OnProgress registers a callback invoked for every pipeline event.
// The callback may run from multiple goroutines.
func (e *Engine) OnProgress(fn func(Event)) { e.progress = fn }

func (e *Engine) emit(ev Event) {
	if e.progress != nil {
		e.progress(ev)
	}
}

// ReviewPull fetches a pull request and its changed files from the
// provider and reviews them.
func (e *Engine) ReviewPull(ctx context.Context, client provider.Client, owner, repo string, number int) (*Result, error) {
	pr, err := client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request: %w", err)
	}
	files, err := client.ListFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	res, err := e.ReviewChanges(ctx, files)
	if err != nil {
		return nil, err
	}
	res.PR = pr
	return res, nil
}

// ReviewDiff reviews a raw unified diff, as produced by git diff.
func (e *Engine) ReviewDiff(ctx context.Context, raw string) (*Result, error) {
	ds, err := diff.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	return e.ReviewChanges(ctx, ds.FileChanges())
}

// ReviewChanges analyzes every changed file and aggregates the
// findings. AI analysis runs concurrently up to the configured limit;
// a file whose analysis fails still lands in the report via a
// placeholder finding, so one bad response never sinks the run.
func (e *Engine) ReviewChanges(ctx context.Context, files []model.FileChange) (*Result, error) {
	staticFindings := e.staticFindings(files)

	results := make([]model.FileAnalysisResult, len(files))
	degraded := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.cfg.AI.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, fc := range files {
		g.Go(func() error {
			e.emit(Event{Type: "file_start", File: fc.Path})

			findings := analysis.ForFile(staticFindings, fc.Path)
			if e.backend != nil && fc.Patch != "" {
				aiRes, err := e.analyzeFile(gctx, fc)
				if err != nil {
					return err
				}
				findings = append(findings, aiRes.Findings...)
				degraded[i] = aiRes.Degraded
			}

			results[i] = model.FileAnalysisResult{
				FilePath:     fc.Path,
				Language:     diff.LanguageForPath(fc.Path),
				LinesAdded:   fc.LinesAdded,
				LinesDeleted: fc.LinesDeleted,
				Findings:     findings,
			}
			e.emit(Event{Type: "file_done", File: fc.Path, Findings: len(findings), Degraded: degraded[i]})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Files:  results,
		Report: review.Aggregate(results, e.cfg.Policy()),
	}
	for i, d := range degraded {
		if d {
			res.Degraded = append(res.Degraded, files[i].Path)
		}
	}
	e.emit(Event{Type: "done"})
	return res, nil
}

// analyzeFile runs one AI completion for a file under the per-file
// timeout. Auth failures abort the run; anything else degrades to the
// placeholder finding.
func (e *Engine) analyzeFile(ctx context.Context, fc model.FileChange) (ai.ParseResult, error) {
	if e.cfg.AI.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.AI.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	raw, err := e.backend.Complete(ctx, ai.Request{
		System:      ai.SystemPrompt,
		Prompt:      ai.BuildFilePrompt(fc.Path, diff.LanguageForPath(fc.Path), fc.Patch, fc.LinesAdded, fc.LinesDeleted),
		MaxTokens:   e.cfg.AI.MaxTokens,
		Temperature: e.cfg.AI.Temperature,
	})
	if err != nil {
		if ai.IsAuthError(err) {
			return ai.ParseResult{}, err
		}
		return ai.Degraded(fc.Path), nil
	}
	return ai.ParseFindings(raw, fc.Path), nil
}

// staticFindings runs the static passes over a diff reassembled from
// the file patches. Provider APIs hand back bare hunks, so headers
// are synthesized before parsing.
func (e *Engine) staticFindings(files []model.FileChange) []model.Finding {
	var b strings.Builder
	for _, fc := range files {
		if fc.Patch == "" {
			continue
		}
		if !strings.HasPrefix(fc.Patch, "diff --git") {
			fmt.Fprintf(&b, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n", fc.Path, fc.Path, fc.Path, fc.Path)
		}
		b.WriteString(fc.Patch)
		if !strings.HasSuffix(fc.Patch, "\n") {
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		return nil
	}
	ds, err := diff.Parse(b.String())
	if err != nil {
		return nil
	}
	return analysis.Run(ds, nil)
}
