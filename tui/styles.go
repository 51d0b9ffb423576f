// ABOUTME: Lipgloss style constants for the diagnostics viewer.
// ABOUTME: Severity colors match the styled CLI output so both surfaces read the same.

package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	PassStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	FailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	LineRefStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
