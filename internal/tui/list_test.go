package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifiswitch/wifi"
)

func testNetworks() []wifi.Network {
	return []wifi.Network{
		{SSID: "Omega-ABCD", Mode: wifi.ModeAP, Encryption: wifi.EncryptionWPA2, Section: "default_radio0"},
		{SSID: "Home", Mode: wifi.ModeSTA, Encryption: wifi.EncryptionWPA2, Section: "sta_home", Disabled: true},
		{SSID: "Cafe", Mode: wifi.ModeSTA, Encryption: wifi.EncryptionNone, Section: "sta_cafe", Disabled: true},
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListModel_ToggleKeys(t *testing.T) {
	m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)
	m.setNetworks(testNetworks(), nil)

	// The AP is enabled, so 'a' disables it.
	_, cmd := m.Update(keyPress("a"))
	msg, ok := cmd().(toggleMsg)
	if !ok {
		t.Fatalf("expected a toggleMsg")
	}
	if msg.mode != wifi.TraverseAP || msg.enabled {
		t.Errorf("expected to disable the AP, got %+v", msg)
	}

	// Every STA is disabled, so 't' enables them.
	_, cmd = m.Update(keyPress("t"))
	msg, ok = cmd().(toggleMsg)
	if !ok {
		t.Fatalf("expected a toggleMsg")
	}
	if msg.mode != wifi.TraverseAllSTA || !msg.enabled {
		t.Errorf("expected to enable all STA, got %+v", msg)
	}
}

func TestListModel_TogglePrimaryAP(t *testing.T) {
	networks := []wifi.Network{
		{SSID: "Main", Mode: wifi.ModeAP, Section: "ap0", Disabled: true},
		{SSID: "Guest", Mode: wifi.ModeAP, Section: "ap1"},
	}

	tests := []struct {
		name      string
		primaryAP string
		enabled   bool
	}{
		{"first ap is disabled", "", true},
		{"named ap is enabled", "ap1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)
			m.primaryAP = tt.primaryAP
			m.setNetworks(networks, nil)

			msg, ok := m.toggleCmd(wifi.ModeAP)().(toggleMsg)
			if !ok {
				t.Fatalf("expected a toggleMsg")
			}
			if msg.mode != wifi.TraverseAP || msg.enabled != tt.enabled {
				t.Errorf("expected enabled=%t, got %+v", tt.enabled, msg)
			}
		})
	}

	m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)
	m.strictAP = true
	m.setNetworks(networks, nil)
	if _, ok := m.toggleCmd(wifi.ModeAP)().(ShowErrorMsg); !ok {
		t.Errorf("expected an error with several access points in strict mode")
	}
}

func TestListModel_ToggleWithoutSections(t *testing.T) {
	m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)
	m.setNetworks([]wifi.Network{{SSID: "Home", Mode: wifi.ModeSTA, Section: "sta_home"}}, nil)

	_, cmd := m.Update(keyPress("a"))
	if _, ok := cmd().(SetStatusMsg); !ok {
		t.Errorf("expected a status message when no AP is configured")
	}
}

func TestListModel_Keys(t *testing.T) {
	m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"s", scanMsg{}},
		{"R", reloadMsg{}},
		{"l", showLogsMsg{}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(keyPress(tt.key))
		if cmd == nil {
			t.Fatalf("%q: expected a command", tt.key)
		}
		if got := cmd(); got != tt.want {
			t.Errorf("%q: expected %T, got %T", tt.key, tt.want, got)
		}
	}
}

func TestListModel_MarksMatches(t *testing.T) {
	m := NewListModel(NewScanSchedule(func() tea.Msg { return scanMsg{} }), 0)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	networks := testNetworks()
	matches := []wifi.Match{
		{Configured: networks[1], Scanned: wifi.Network{SSID: "Home", Signal: 40}},
		{Configured: networks[1], Scanned: wifi.Network{SSID: "Home", Signal: 80}},
	}
	m.Update(configLoadedMsg{configured: networks, matches: matches})

	if len(m.seen) != 1 {
		t.Fatalf("expected 1 section in range, got %d", len(m.seen))
	}
	if got := m.seen["sta_home"].Signal; got != 80 {
		t.Errorf("expected the strongest sighting, got %d", got)
	}

	view := m.View()
	for _, want := range []string{"Omega-ABCD", "Home", "Cafe", "80%", "1 in range"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q in\n%s", want, view)
		}
	}

	// A scan without matches clears the markers but keeps the sections.
	m.Update(scanFinishedMsg{})
	if len(m.seen) != 0 {
		t.Errorf("expected no sections in range after an empty scan")
	}
	if len(m.list.Items()) != 3 {
		t.Errorf("expected 3 items, got %d", len(m.list.Items()))
	}
}

func TestScanSchedule(t *testing.T) {
	s := NewScanSchedule(func() tea.Msg { return scanMsg{} })

	if cmd := s.Update(tickMsg{}); cmd != nil {
		t.Errorf("an idle schedule should ignore ticks")
	}

	enabled, cmd := s.Toggle(ScanSlow)
	if !enabled || cmd == nil {
		t.Fatalf("expected the schedule to start")
	}
	if cmd := s.Update(tickMsg{generation: s.generation - 1}); cmd != nil {
		t.Errorf("a stale tick should be ignored")
	}
	if cmd := s.Update(tickMsg{generation: s.generation}); cmd == nil {
		t.Errorf("a current tick should schedule a scan")
	}

	enabled, _ = s.Toggle(ScanSlow)
	if enabled || s.Enabled() {
		t.Errorf("expected the schedule to stop")
	}
}
