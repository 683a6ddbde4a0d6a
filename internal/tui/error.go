package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shazow/wifiswitch/wifi"
)

type ErrorModel struct {
	err error
}

func NewErrorModel(err error) *ErrorModel {
	return &ErrorModel{err: err}
}

func (m *ErrorModel) Init() tea.Cmd { return nil }

func (m *ErrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		// Any key press dismisses the error
		return m, func() tea.Msg { return PopMsg{} }
	}
	return m, nil
}

func (m *ErrorModel) View() string {
	errorViewStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), true).
		BorderForeground(CurrentTheme.Error).
		Padding(1, 2)

	body := fmt.Sprintf("Error: %s", m.err)
	if steps := wifi.FailedSteps(m.err); len(steps) > 0 {
		body += fmt.Sprintf("\n\nFailed steps: %v", steps)
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(errorViewStyle.Render(body))
}
