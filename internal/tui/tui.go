// Package tui implements the Bubble Tea report browser.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prrev/internal/engine"
	"github.com/sprite-ai/prrev/internal/model"
)

// Model is the top-level Bubble Tea model for browsing a review
// result.
type Model struct {
	result *engine.Result

	// All findings across files, worst first.
	all []model.Finding

	// Findings after the severity filter.
	issues []model.Finding

	// UI state
	width  int
	height int

	index int // currently selected issue

	// minSeverity hides findings below it. -1 shows everything.
	minSeverity int

	showHelp bool
}

// New creates a new TUI model from a review result.
func New(res *engine.Result) Model {
	m := Model{
		result:      res,
		minSeverity: -1,
	}
	for _, fr := range res.Files {
		m.all = append(m.all, fr.Findings...)
	}
	sort.SliceStable(m.all, func(i, j int) bool {
		if m.all[i].Severity != m.all[j].Severity {
			return m.all[i].Severity > m.all[j].Severity
		}
		if m.all[i].File != m.all[j].File {
			return m.all[i].File < m.all[j].File
		}
		return m.all[i].LineStart < m.all[j].LineStart
	})
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	m.issues = m.issues[:0]
	for _, f := range m.all {
		if int(f.Severity) >= m.minSeverity {
			m.issues = append(m.issues, f)
		}
	}
	if m.index >= len(m.issues) {
		m.index = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.index < len(m.issues)-1 {
				m.index++
			}

		case key.Matches(msg, keys.Up):
			if m.index > 0 {
				m.index--
			}

		case key.Matches(msg, keys.Filter):
			// Cycle: all -> warning+ -> error+ -> critical -> all
			m.minSeverity++
			if m.minSeverity > int(model.SeverityCritical) {
				m.minSeverity = -1
			}
			if m.minSeverity == int(model.SeverityInfo) {
				m.minSeverity++
			}
			m.applyFilter()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.listWidth()
	detailWidth := m.width - listWidth - 1

	list := m.renderIssueList(listWidth, m.height-2)
	detail := m.renderDetail(detailWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) listWidth() int {
	w := m.width / 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) renderIssueList(width, height int) string {
	var b strings.Builder

	if len(m.issues) == 0 {
		return issueListStyle.Width(width).Height(height - 2).Render("No findings")
	}

	// Keep the selected issue visible.
	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.index >= visible {
		start = m.index - visible + 1
	}
	end := start + visible
	if end > len(m.issues) {
		end = len(m.issues)
	}

	for i := start; i < end; i++ {
		f := m.issues[i]
		sev := severityStyle(f.Severity).Render(fmt.Sprintf("%-8s", strings.ToUpper(f.Severity.String())))
		line := fmt.Sprintf("%s %s", sev, truncate(issueTitle(f), width-14))

		if i == m.index {
			line = issueItemSelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return issueListStyle.Width(width).Height(height - 2).Render(b.String())
}

func issueTitle(f model.Finding) string {
	if f.LineStart > 0 {
		return fmt.Sprintf("%s:%d %s", f.File, f.LineStart, f.Message)
	}
	return fmt.Sprintf("%s %s", f.File, f.Message)
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func (m Model) renderDetail(width, height int) string {
	if len(m.issues) == 0 {
		return detailStyle.Width(width).Height(height - 2).Render("")
	}

	f := m.issues[m.index]
	var b strings.Builder

	b.WriteString(detailHeaderStyle.Render(issueTitle(f)) + "\n\n")
	b.WriteString(detailLabelStyle.Render("severity  ") + severityStyle(f.Severity).Render(f.Severity.String()) + "\n")
	b.WriteString(detailLabelStyle.Render("category  ") + f.Category.String() + "\n")
	b.WriteString(detailLabelStyle.Render("impact    ") + f.Impact.String() + "\n")
	if f.Source != "" {
		b.WriteString(detailLabelStyle.Render("source    ") + f.Source + "\n")
	}
	b.WriteString("\n" + wrap(f.Message, width-6) + "\n")

	if f.Suggestion != "" {
		b.WriteString("\n" + suggestionStyle.Render(wrap(f.Suggestion, width-6)) + "\n")
	}

	if f.Snippet != "" {
		b.WriteString("\n" + snippetHeaderStyle.Render("snippet") + "\n")
		b.WriteString(renderSnippet(f.File, f.Snippet))
	}

	return detailStyle.Width(width).Height(height - 2).Render(b.String())
}

func wrap(s string, width int) string {
	if width < 10 {
		return s
	}
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(s) {
		if lineLen > 0 && lineLen+len(word)+1 > width {
			b.WriteByte('\n')
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	rep := m.result.Report
	score := fmt.Sprintf("%.1f/100", rep.OverallScore*100)
	grade := gradeStyles[rep.Grade].Render(rep.Grade.String())

	filter := "all"
	if m.minSeverity >= 0 {
		filter = model.Severity(m.minSeverity).String() + "+"
	}

	left := fmt.Sprintf(" %s %s  %d finding(s)  filter:%s ", score, grade, len(m.issues), filter)
	right := statusKeyStyle.Render("?") + " help " + statusKeyStyle.Render("q") + " quit "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	help := []struct{ key, desc string }{
		{"↑/k, ↓/j", "move between findings"},
		{"s", "cycle severity filter"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render("prrev report browser") + "\n\n")
	for _, h := range help {
		fmt.Fprintf(&b, "  %s  %s\n", statusKeyStyle.Render(fmt.Sprintf("%-10s", h.key)), h.desc)
	}
	b.WriteString("\n" + helpStyle.Render("press ? to close"))
	return b.String()
}

// Run starts the interactive browser.
func Run(res *engine.Result) error {
	p := tea.NewProgram(New(res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
