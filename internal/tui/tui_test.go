package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/prrev/internal/engine"
	"github.com/sprite-ai/prrev/internal/model"
	"github.com/sprite-ai/prrev/internal/review"
)

func setupModel(t *testing.T) Model {
	t.Helper()
	files := []model.FileAnalysisResult{
		{
			FilePath: "internal/db.go",
			Findings: []model.Finding{
				{
					File:       "internal/db.go",
					LineStart:  14,
					Severity:   model.SeverityCritical,
					Category:   model.CategorySecurity,
					Impact:     model.ImpactHigh,
					Message:    "Hardcoded database password",
					Suggestion: "Read the password from the environment",
					Snippet:    `password := "hunter2hunter2"`,
				},
				{
					File:      "internal/db.go",
					LineStart: 30,
					Severity:  model.SeverityInfo,
					Category:  model.CategoryStyle,
					Impact:    model.ImpactLow,
					Message:   "Variable name could be clearer",
				},
			},
		},
		{
			FilePath: "internal/web.go",
			Findings: []model.Finding{
				{
					File:      "internal/web.go",
					LineStart: 8,
					Severity:  model.SeverityWarning,
					Category:  model.CategoryMaintainability,
					Impact:    model.ImpactMedium,
					Message:   "Handler mixes transport and business logic",
				},
			},
		},
	}
	res := &engine.Result{
		Files:  files,
		Report: review.Aggregate(files, review.DefaultPolicy()),
	}
	m := New(res)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m := setupModel(t)

	if m.index != 0 {
		t.Errorf("expected index 0, got %d", m.index)
	}
	if len(m.issues) != 3 {
		t.Errorf("expected 3 issues, got %d", len(m.issues))
	}
	// Worst severity first.
	if m.issues[0].Severity != model.SeverityCritical {
		t.Errorf("expected critical first, got %v", m.issues[0].Severity)
	}
}

func TestNavigation(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newM.(Model)
	if m.index != 1 {
		t.Errorf("expected index 1 after down, got %d", m.index)
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = newM.(Model)
	if m.index != 0 {
		t.Errorf("expected index 0 after up, got %d", m.index)
	}

	// Moving above the top stays put.
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = newM.(Model)
	if m.index != 0 {
		t.Errorf("expected index 0 at top, got %d", m.index)
	}
}

func TestSeverityFilter(t *testing.T) {
	m := setupModel(t)

	// First press skips past info: warning and above.
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newM.(Model)
	if len(m.issues) != 2 {
		t.Errorf("expected 2 issues at warning+, got %d", len(m.issues))
	}

	// error+
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newM.(Model)
	if len(m.issues) != 1 {
		t.Errorf("expected 1 issue at error+, got %d", len(m.issues))
	}

	// critical, then back to all
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newM.(Model)
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = newM.(Model)
	if len(m.issues) != 3 {
		t.Errorf("expected all 3 issues after cycling, got %d", len(m.issues))
	}
}

func TestView(t *testing.T) {
	m := setupModel(t)
	out := m.View()

	if !strings.Contains(out, "Hardcoded database password") {
		t.Error("expected selected issue in view")
	}
	if !strings.Contains(out, "finding(s)") {
		t.Error("expected status bar in view")
	}
}

func TestViewHelp(t *testing.T) {
	m := setupModel(t)
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newM.(Model)

	out := m.View()
	if !strings.Contains(out, "severity filter") {
		t.Error("expected help content in view")
	}
}

func TestViewBeforeSize(t *testing.T) {
	files := []model.FileAnalysisResult{}
	res := &engine.Result{Files: files, Report: review.Aggregate(files, review.DefaultPolicy())}
	m := New(res)
	if m.View() != "Loading..." {
		t.Errorf("unexpected pre-size view: %q", m.View())
	}
}

func TestRenderSnippet(t *testing.T) {
	out := renderSnippet("main.go", "x := 1\ny := 2")
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Errorf("snippet content missing: %q", out)
	}
}
