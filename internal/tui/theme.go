package tui

import "github.com/charmbracelet/lipgloss"

// Theme contains the colors and icons for the application.
type Theme struct {
	Primary    lipgloss.TerminalColor
	Subtle     lipgloss.TerminalColor
	Success    lipgloss.TerminalColor
	Error      lipgloss.TerminalColor
	Normal     lipgloss.TerminalColor
	Disabled   lipgloss.TerminalColor
	Border     lipgloss.TerminalColor
	SignalHigh lipgloss.TerminalColor
	SignalLow  lipgloss.TerminalColor

	TitleIcon string
	APIcon    string
	STAIcon   string
	OtherIcon string
	MatchIcon string
}

// CurrentTheme is the active theme for the application.
var CurrentTheme = NewDefaultTheme()

// NewDefaultTheme creates a new default theme.
func NewDefaultTheme() Theme {
	return Theme{
		Primary:    lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#D359E3"}, // Purple/Pink
		Subtle:     lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"}, // Gray
		Success:    lipgloss.AdaptiveColor{Light: "#388E3C", Dark: "#81C784"}, // Green
		Error:      lipgloss.AdaptiveColor{Light: "#D32F2F", Dark: "#E57373"}, // Red
		Normal:     lipgloss.AdaptiveColor{Light: "#212121", Dark: "#FFFFFF"}, // Black/White
		Disabled:   lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#757575"},
		Border:     lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"},
		SignalHigh: lipgloss.AdaptiveColor{Light: "#00B300", Dark: "#00FF00"},
		SignalLow:  lipgloss.AdaptiveColor{Light: "#D05F00", Dark: "#BC3C00"},

		TitleIcon: "📡 ",
		APIcon:    "⇪ ",
		STAIcon:   "⇣ ",
		OtherIcon: "  ",
		MatchIcon: "●",
	}
}

// hexColor resolves a terminal color to a hex string for the current
// background, or "" if it is not a hex color.
func hexColor(c lipgloss.TerminalColor) string {
	switch c := c.(type) {
	case lipgloss.Color:
		return string(c)
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return c.Dark
		}
		return c.Light
	}
	return ""
}
