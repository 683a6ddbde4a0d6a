package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifiswitch/internal/log"
)

// LogViewModel shows the most recent log records.
type LogViewModel struct {
	logs func() []slog.Record
}

// NewLogViewModel creates a LogViewModel reading from the default logger.
func NewLogViewModel() *LogViewModel {
	return &LogViewModel{logs: wifilog.Logs}
}

func (m *LogViewModel) Init() tea.Cmd {
	return nil
}

func (m *LogViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "l":
			return m, func() tea.Msg { return PopMsg{} }
		}
	}
	return m, nil
}

func (m *LogViewModel) View() string {
	var s strings.Builder
	s.WriteString("Latest logs (press 'q' to return):\n\n")

	for _, log := range m.logs() {
		var style lipgloss.Style
		switch {
		case log.Level >= slog.LevelError:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Error)
		case log.Level < slog.LevelInfo:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Subtle)
		default:
			style = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
		}
		s.WriteString(style.Render(fmt.Sprintf("%s [%s] %s", log.Time.Format("15:04:05"), log.Level, log.Message)))
		log.Attrs(func(a slog.Attr) bool {
			s.WriteString(style.Render(fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())))
			return true
		})
		s.WriteString("\n")
	}

	return lipgloss.NewStyle().Margin(1, 2).Render(s.String())
}
