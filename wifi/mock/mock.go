package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shazow/wifiswitch/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// Backend is an in-memory implementation of every wifi backend interface for
// testing. Staged option changes only reach Packages on Commit.
type Backend struct {
	mu sync.Mutex

	// Packages maps a package name to its sections, in order.
	Packages map[string][]wifi.Section
	// Visible is returned by Scan.
	Visible []wifi.Network
	Up      bool

	OpenError   error
	SetErrors   map[string]error // keyed by section name
	CommitError error
	CloseError  error
	ScanError   error
	StatusError error
	ReloadError error

	// Calls logs every backend call in order, e.g. "open", "set cfg1.disabled=1",
	// "commit wireless", "close".
	Calls []string
	// OpenSessions counts sessions that were opened but not yet closed.
	OpenSessions int
	Reloads      int

	// ActionSleep is a delay before every action, to better emulate a real-world backend for the frontend. Set to 0 during testing.
	ActionSleep time.Duration
}

// New creates a mock backend with a typical router configuration: one access
// point, a few station uplinks and a scan that can see some of them.
func New() *Backend {
	return &Backend{
		Packages: map[string][]wifi.Section{
			wifi.WirelessPackage: {
				{Name: "radio0", Type: "wifi-device", Options: map[string]string{"type": "mac80211", "channel": "11"}},
				{Name: "default_radio0", Type: wifi.InterfaceSectionType, Options: map[string]string{
					"device": "radio0", "network": "lan", "mode": "ap", "ssid": "Omega-ABCD", "encryption": "psk2", "key": "12345678",
				}},
				{Name: "sta_home", Type: wifi.InterfaceSectionType, Options: map[string]string{
					"device": "radio0", "network": "wwan", "mode": "sta", "ssid": "HideYoKidsHideYoWiFi", "encryption": "psk2", "key": "hidden", "disabled": "1",
				}},
				{Name: "sta_cafe", Type: wifi.InterfaceSectionType, Options: map[string]string{
					"device": "radio0", "network": "wwan", "mode": "sta", "ssid": "Unencrypted_Honeypot", "encryption": "none", "disabled": "1",
				}},
				{Name: "sta_office", Type: wifi.InterfaceSectionType, Options: map[string]string{
					"device": "radio0", "network": "wwan", "mode": "sta", "ssid": "Dunder MiffLAN", "encryption": "psk", "disabled": "1",
				}},
			},
		},
		Visible: []wifi.Network{
			{SSID: "HideYoKidsHideYoWiFi", Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, BSSID: "00:11:22:33:44:55", Channel: 6, Signal: 82},
			{SSID: "Unencrypted_Honeypot", Encryption: wifi.EncryptionNone, Mode: wifi.ModeAP, BSSID: "AA:BB:CC:DD:EE:FF", Channel: 1, Signal: 40},
			{SSID: "Dunder MiffLAN", Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, BSSID: "11:22:33:44:55:66", Channel: 11, Signal: 67},
			{SSID: "TacoBoutAGoodSignal", Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, BSSID: "22:33:44:55:66:77", Channel: 36, Signal: 99},
			{SSID: wifi.NoSSID, Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, BSSID: "33:44:55:66:77:88", Channel: 44, Signal: 30},
		},
		Up:          true,
		ActionSleep: DefaultActionSleep,
	}
}

// NewWithNetworks creates an empty mock backend whose wireless package holds
// one wifi-iface section per configured network.
func NewWithNetworks(configured []wifi.Network, visible []wifi.Network) *Backend {
	sections := make([]wifi.Section, 0, len(configured))
	for i, n := range configured {
		name := n.Section
		if name == "" {
			name = fmt.Sprintf("cfg%02d", i)
		}
		opts := map[string]string{
			"mode":       n.Mode.String(),
			"encryption": encryptionOption(n.Encryption),
		}
		if n.SSID != wifi.NoSSID {
			opts["ssid"] = n.SSID
		}
		if n.Disabled {
			opts["disabled"] = "1"
		}
		if n.Hidden {
			opts["hidden"] = "1"
		}
		sections = append(sections, wifi.Section{Name: name, Type: wifi.InterfaceSectionType, Options: opts})
	}
	return &Backend{
		Packages: map[string][]wifi.Section{wifi.WirelessPackage: sections},
		Visible:  visible,
		Up:       true,
	}
}

func encryptionOption(e wifi.EncryptionType) string {
	switch e {
	case wifi.EncryptionWEP:
		return "wep-open"
	case wifi.EncryptionWPA:
		return "psk"
	case wifi.EncryptionWPA2:
		return "psk2"
	case wifi.EncryptionWPA3:
		return "sae"
	case wifi.EncryptionNone:
		return "none"
	default:
		return "bogus"
	}
}

func (m *Backend) record(call string) {
	m.Calls = append(m.Calls, call)
}

// CallsWithPrefix returns the logged calls that start with prefix.
func (m *Backend) CallsWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []string
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			calls = append(calls, c)
		}
	}
	return calls
}

// Option returns the committed value of an option.
func (m *Backend) Option(pkg, section, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Packages[pkg] {
		if s.Name == section {
			v, ok := s.Options[key]
			return v, ok
		}
	}
	return "", false
}

// Open implements wifi.ConfigBackend.
func (m *Backend) Open(ctx context.Context) (wifi.ConfigSession, error) {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("open")
	if m.OpenError != nil {
		return nil, m.OpenError
	}
	m.OpenSessions++
	return &session{backend: m, staged: map[string]map[string]map[string]string{}}, nil
}

// Scan implements wifi.ScanBackend.
func (m *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("scan")
	if m.ScanError != nil {
		return nil, m.ScanError
	}
	return append([]wifi.Network(nil), m.Visible...), nil
}

// WirelessUp implements wifi.StatusBackend.
func (m *Backend) WirelessUp(ctx context.Context) (bool, error) {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("status")
	if m.StatusError != nil {
		return false, m.StatusError
	}
	return m.Up, nil
}

// Reload implements wifi.Reloader.
func (m *Backend) Reload(ctx context.Context) error {
	time.Sleep(m.ActionSleep)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("reload")
	if m.ReloadError != nil {
		return m.ReloadError
	}
	m.Reloads++
	return nil
}

type session struct {
	backend *Backend
	closed  bool
	// staged maps package -> section -> option -> value.
	staged map[string]map[string]map[string]string
}

func (s *session) Sections(ctx context.Context, pkg string) ([]wifi.Section, error) {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("sections " + pkg)
	if s.closed {
		return nil, wifi.ErrSessionClosed
	}
	sections, ok := m.Packages[pkg]
	if !ok {
		return nil, fmt.Errorf("package %s: %w", pkg, wifi.ErrLookup)
	}
	out := make([]wifi.Section, len(sections))
	for i, sec := range sections {
		opts := make(map[string]string, len(sec.Options))
		for k, v := range sec.Options {
			opts[k] = v
		}
		out[i] = wifi.Section{Name: sec.Name, Type: sec.Type, Options: opts}
	}
	return out, nil
}

func (s *session) SetOption(ctx context.Context, pkg, section, key, value string) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("set %s.%s=%s", section, key, value))
	if s.closed {
		return wifi.ErrSessionClosed
	}
	if err := m.SetErrors[section]; err != nil {
		return err
	}
	found := false
	for _, sec := range m.Packages[pkg] {
		if sec.Name == section {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("section %s.%s: %w", pkg, section, wifi.ErrNotFound)
	}
	if s.staged[pkg] == nil {
		s.staged[pkg] = map[string]map[string]string{}
	}
	if s.staged[pkg][section] == nil {
		s.staged[pkg][section] = map[string]string{}
	}
	s.staged[pkg][section][key] = value
	return nil
}

func (s *session) Commit(ctx context.Context, pkg string) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("commit " + pkg)
	if s.closed {
		return wifi.ErrSessionClosed
	}
	if m.CommitError != nil {
		return m.CommitError
	}
	for i, sec := range m.Packages[pkg] {
		for k, v := range s.staged[pkg][sec.Name] {
			if m.Packages[pkg][i].Options == nil {
				m.Packages[pkg][i].Options = map[string]string{}
			}
			m.Packages[pkg][i].Options[k] = v
		}
	}
	delete(s.staged, pkg)
	return nil
}

func (s *session) Close() error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	m.OpenSessions--
	m.record("close")
	return m.CloseError
}
