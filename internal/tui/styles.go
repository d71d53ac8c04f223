package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/prrev/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Issue list styles
	issueListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	issueItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	issueItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	// Detail pane styles
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	detailHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	snippetHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPurple).
				Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorBgLight)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	severityStyles = map[model.Severity]lipgloss.Style{
		model.SeverityCritical: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		model.SeverityError:    lipgloss.NewStyle().Foreground(colorOrange),
		model.SeverityWarning:  lipgloss.NewStyle().Foreground(colorYellow),
		model.SeverityInfo:     lipgloss.NewStyle().Foreground(colorDim),
	}

	gradeStyles = map[model.Grade]lipgloss.Style{
		model.GradeExcellent: lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		model.GradeGood:      lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		model.GradeFair:      lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		model.GradePoor:      lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}
)

func severityStyle(s model.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return issueItemStyle
}
