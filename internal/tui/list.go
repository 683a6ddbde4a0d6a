package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/shazow/wifiswitch/wifi"
)

const ssidColumnWidth = 30

// networkItem is one configured section in the list.
type networkItem struct {
	wifi.Network
	// seen is the matching scan entry when the network is in range.
	seen *wifi.Network
}

func (i networkItem) Title() string { return i.SSID }
func (i networkItem) Description() string {
	state := "enabled"
	if i.Disabled {
		state = "disabled"
	}
	return fmt.Sprintf("%-4s %-8s %-8s", i.Mode, i.Encryption, state)
}
func (i networkItem) FilterValue() string { return i.SSID + " " + i.Section }

// signalColor blends between the low and high signal colors.
func signalColor(signal uint8) lipgloss.TerminalColor {
	start, err1 := colorful.Hex(hexColor(CurrentTheme.SignalLow))
	end, err2 := colorful.Hex(hexColor(CurrentTheme.SignalHigh))
	if err1 != nil || err2 != nil {
		return CurrentTheme.Success
	}
	blend := start.BlendRgb(end, float64(signal)/100.0)
	return lipgloss.Color(blend.Hex())
}

// itemDelegate is our custom list delegate
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(networkItem)
	if !ok {
		// Fallback to default render for any other item types
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}

	var icon string
	switch i.Mode {
	case wifi.ModeAP:
		icon = CurrentTheme.APIcon
	case wifi.ModeSTA:
		icon = CurrentTheme.STAIcon
	default:
		icon = CurrentTheme.OtherIcon
	}
	title := []rune(icon + i.Title())

	if len(title) > ssidColumnWidth {
		title = append(title[:ssidColumnWidth-1], '…')
	}
	padding := strings.Repeat(" ", ssidColumnWidth-len(title))

	var titleStyle lipgloss.Style
	switch {
	case i.Disabled:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Disabled)
	case i.seen != nil:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Success)
	default:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	}
	rendered := titleStyle.Render(string(title))

	desc := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(i.Description())
	if i.seen != nil {
		seen := fmt.Sprintf("%s %d%%", CurrentTheme.MatchIcon, i.seen.Signal)
		desc += " " + lipgloss.NewStyle().Foreground(signalColor(i.seen.Signal)).Render(seen)
	}

	var line string
	if index == m.Index() {
		line = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render("▶ ") + rendered + padding + " " + desc
	} else {
		line = "  " + rendered + padding + " " + desc
	}
	fmt.Fprint(w, line)
}

// ListModel lists the configured sections and marks the ones in range.
type ListModel struct {
	list       list.Model
	configured []wifi.Network
	seen       map[string]wifi.Network // section -> scan entry
	scanner    *ScanSchedule
	autoScan   time.Duration

	// primaryAP and strictAP select the access point 'a' toggles, as in
	// wifi.PrimaryAP.
	primaryAP string
	strictAP  bool
}

func NewListModel(scanner *ScanSchedule, autoScan time.Duration) *ListModel {
	m := &ListModel{
		scanner:  scanner,
		autoScan: autoScan,
		seen:     map[string]wifi.Network{},
	}
	l := list.New([]list.Item{}, itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}, 0, 0)
	l.Title = fmt.Sprintf("%-27s %s", CurrentTheme.TitleIcon+"Configured network", "Mode Security State")
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle ap")),
			key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle sta")),
		}
	}
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return append([]key.Binding{
			key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload wireless")),
			key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "auto scan")),
			key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
		}, l.AdditionalShortHelpKeys()...)
	}

	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	m.list = l
	return m
}

func (m *ListModel) Init() tea.Cmd {
	if m.autoScan > 0 {
		return m.scanner.SetSchedule(m.autoScan)
	}
	return nil
}

// IsConsumingInput returns whether the list is filtering.
func (m *ListModel) IsConsumingInput() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *ListModel) setNetworks(configured []wifi.Network, matches []wifi.Match) {
	if configured != nil {
		m.configured = configured
	}
	m.seen = make(map[string]wifi.Network, len(matches))
	for _, match := range matches {
		// Keep the strongest sighting of each section.
		if prev, ok := m.seen[match.Configured.Section]; ok && prev.Signal >= match.Scanned.Signal {
			continue
		}
		m.seen[match.Configured.Section] = match.Scanned
	}

	items := make([]list.Item, len(m.configured))
	for i, n := range m.configured {
		item := networkItem{Network: n}
		if s, ok := m.seen[n.Section]; ok {
			item.seen = &s
		}
		items[i] = item
	}
	m.list.SetItems(items)
}

// anyEnabled reports whether any configured section of mode is enabled.
func (m *ListModel) anyEnabled(mode wifi.Mode) (found, enabled bool) {
	for _, n := range m.configured {
		if n.Mode != mode {
			continue
		}
		found = true
		if !n.Disabled {
			enabled = true
		}
	}
	return found, enabled
}

func (m *ListModel) toggleCmd(mode wifi.Mode) tea.Cmd {
	notFound := func() tea.Msg { return SetStatusMsg(fmt.Sprintf("No %s sections configured", mode)) }
	if mode == wifi.ModeAP {
		// Only the primary access point is toggled, so its state decides.
		ap, ok, err := wifi.PrimaryAP(m.configured, m.primaryAP, m.strictAP)
		if err != nil {
			return func() tea.Msg { return ShowErrorMsg{Err: err} }
		}
		if !ok {
			return notFound
		}
		return func() tea.Msg { return toggleMsg{mode: wifi.TraverseAP, enabled: ap.Disabled} }
	}

	found, enabled := m.anyEnabled(mode)
	if !found {
		return notFound
	}
	return func() tea.Msg { return toggleMsg{mode: wifi.TraverseAllSTA, enabled: !enabled} }
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
		bh, bv := listBorderStyle.GetFrameSize()
		extraVerticalSpace := 4
		m.list.SetSize(msg.Width-h-bh, msg.Height-v-bv-extraVerticalSpace)
		return m, nil
	case configLoadedMsg:
		m.setNetworks(msg.configured, msg.matches)
		return m, nil
	case scanFinishedMsg:
		m.setNetworks(nil, msg.matches)
		return m, nil
	case toggledMsg:
		m.setNetworks(msg.configured, msg.matches)
		return m, nil
	case tickMsg:
		return m, m.scanner.Update(msg)
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			return m, func() tea.Msg { return scanMsg{} }
		case "a":
			return m, m.toggleCmd(wifi.ModeAP)
		case "t":
			return m, m.toggleCmd(wifi.ModeSTA)
		case "R":
			return m, func() tea.Msg { return reloadMsg{} }
		case "l":
			return m, func() tea.Msg { return showLogsMsg{} }
		case "A":
			interval := m.autoScan
			if interval <= 0 {
				interval = ScanSlow
			}
			enabled, cmd := m.scanner.Toggle(interval)
			status := "Auto scan off"
			if enabled {
				status = fmt.Sprintf("Auto scan every %s", interval)
			}
			return m, tea.Batch(cmd, func() tea.Msg { return SetStatusMsg(status) })
		}
	}

	newList, cmd := m.list.Update(msg)
	m.list = newList
	return m, cmd
}

func (m *ListModel) View() string {
	var viewBuilder strings.Builder
	listBorderStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	help := fmt.Sprintf("\n\n %s ", m.list.Help.View(m))
	viewBuilder.WriteString(listBorderStyle.Render(m.list.View() + help))

	statusText := ""
	if len(m.list.Items()) > 0 {
		statusText = fmt.Sprintf("%d/%d  %d in range", m.list.Index()+1, len(m.list.Items()), len(m.seen))
	}
	viewBuilder.WriteString("\n")
	viewBuilder.WriteString(statusText)
	return lipgloss.NewStyle().Margin(1, 2).Render(viewBuilder.String())
}

func (m *ListModel) FullHelp() [][]key.Binding {
	return m.list.FullHelp()
}

func (m *ListModel) ShortHelp() []key.Binding {
	h := m.list.ShortHelp()
	// Remove up/down from short help
	if len(h) > 2 {
		return h[2:]
	}
	return h
}
