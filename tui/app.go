// ABOUTME: Bubble Tea model for the interactive diagnostics viewer.
// ABOUTME: Runs a validation, shows warnings and errors in a scrollable viewport, revalidates on "r".

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/galley/tex"
	"github.com/2389-research/galley/texlog"
)

// reportMsg carries the result of one validation run into the update loop.
type reportMsg struct {
	report *texlog.Report
	err    error
}

// AppModel is the top-level Bubble Tea model for `galley tui`.
type AppModel struct {
	docPath string
	runner  *tex.Runner

	viewport   viewport.Model
	spin       spinner.Model
	report     *texlog.Report
	err        error
	validating bool
	ready      bool
	width      int
	height     int
}

// NewAppModel creates the viewer for one document.
func NewAppModel(runner *tex.Runner, docPath string) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return AppModel{
		docPath:    docPath,
		runner:     runner,
		spin:       sp,
		validating: true,
	}
}

// validateCmd runs the engine off the update loop.
func (m AppModel) validateCmd() tea.Cmd {
	runner := m.runner
	docPath := m.docPath
	return func() tea.Msg {
		rep, err := runner.Validate(context.Background(), docPath)
		return reportMsg{report: rep, err: err}
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.validateCmd())
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if !m.validating {
				m.validating = true
				m.err = nil
				return m, tea.Batch(m.spin.Tick, m.validateCmd())
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - 4
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		m.syncContent()
		return m, nil

	case reportMsg:
		m.validating = false
		m.report = msg.report
		m.err = msg.err
		m.syncContent()
		return m, nil

	case spinner.TickMsg:
		if !m.validating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncContent refreshes the viewport from the current report state.
func (m *AppModel) syncContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.contentView())
}

// View implements tea.Model.
func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(TitleStyle.Render("galley") + " " + m.docPath))
	b.WriteString("\n")

	switch {
	case m.validating:
		b.WriteString(m.spin.View() + " validating...\n")
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.report != nil:
		verdict := PassStyle.Render("PASS")
		if !m.report.Success {
			verdict = FailStyle.Render("FAIL")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", verdict, m.report.Summary))
	}

	if m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("r revalidate • q quit"))
	return b.String()
}

// contentView renders the diagnostics list shown inside the viewport.
func (m AppModel) contentView() string {
	if m.report == nil {
		return ""
	}

	var b strings.Builder
	for _, rec := range m.report.Errors {
		b.WriteString(renderRecord(ErrorStyle, "error", rec))
	}
	for _, rec := range m.report.Warnings {
		b.WriteString(renderRecord(WarningStyle, "warning", rec))
	}
	if b.Len() == 0 {
		return HelpStyle.Render("no diagnostics")
	}
	return b.String()
}

func renderRecord(style lipgloss.Style, label string, rec texlog.Record) string {
	line := style.Render(label) + "  " + rec.Message
	if ref := rec.Ref.String(); ref != "" {
		line += "  " + LineRefStyle.Render(ref)
	}
	return line + "\n"
}
