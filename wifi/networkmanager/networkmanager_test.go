//go:build linux

package networkmanager

import (
	"context"
	"errors"
	"testing"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"

	"github.com/shazow/wifiswitch/wifi"
)

type mockNM struct {
	gonetworkmanager.NetworkManager
	getDevicesFunc                 func() ([]gonetworkmanager.Device, error)
	getPropertyWirelessEnabledFunc func() (bool, error)
}

func (m *mockNM) GetDevices() ([]gonetworkmanager.Device, error) {
	if m.getDevicesFunc != nil {
		return m.getDevicesFunc()
	}
	return nil, nil
}

func (m *mockNM) GetPropertyWirelessEnabled() (bool, error) {
	if m.getPropertyWirelessEnabledFunc != nil {
		return m.getPropertyWirelessEnabledFunc()
	}
	return true, nil
}

type mockDeviceWireless struct {
	gonetworkmanager.DeviceWireless
	iface        string
	accessPoints []gonetworkmanager.AccessPoint
	scans        int
}

func (m *mockDeviceWireless) GetPropertyInterface() (string, error) { return m.iface, nil }
func (m *mockDeviceWireless) RequestScan() error {
	m.scans++
	return nil
}
func (m *mockDeviceWireless) GetAccessPoints() ([]gonetworkmanager.AccessPoint, error) {
	return m.accessPoints, nil
}

type mockAccessPoint struct {
	gonetworkmanager.AccessPoint
	ssid     string
	bssid    string
	strength uint8
	freq     uint32
	flags    uint32
	wpa      uint32
	rsn      uint32
}

func (m *mockAccessPoint) GetPropertySSID() (string, error)      { return m.ssid, nil }
func (m *mockAccessPoint) GetPropertyHWAddress() (string, error) { return m.bssid, nil }
func (m *mockAccessPoint) GetPropertyStrength() (uint8, error)   { return m.strength, nil }
func (m *mockAccessPoint) GetPropertyFrequency() (uint32, error) { return m.freq, nil }
func (m *mockAccessPoint) GetPropertyFlags() (uint32, error)     { return m.flags, nil }
func (m *mockAccessPoint) GetPropertyWPAFlags() (uint32, error)  { return m.wpa, nil }
func (m *mockAccessPoint) GetPropertyRSNFlags() (uint32, error)  { return m.rsn, nil }

func TestGetWirelessDevice_Caching(t *testing.T) {
	callCount := 0
	mockDev := &mockDeviceWireless{iface: "wlan0"}

	nm := &mockNM{
		getDevicesFunc: func() ([]gonetworkmanager.Device, error) {
			callCount++
			return []gonetworkmanager.Device{mockDev}, nil
		},
	}

	b := &Backend{NM: nm}

	dev, err := b.getWirelessDevice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev != mockDev {
		t.Errorf("expected device %v, got %v", mockDev, dev)
	}

	dev2, err := b.getWirelessDevice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev2 != mockDev {
		t.Errorf("expected device %v, got %v", mockDev, dev2)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestGetWirelessDevice_Interface(t *testing.T) {
	wlan0 := &mockDeviceWireless{iface: "wlan0"}
	wlan1 := &mockDeviceWireless{iface: "wlan1"}
	nm := &mockNM{
		getDevicesFunc: func() ([]gonetworkmanager.Device, error) {
			return []gonetworkmanager.Device{wlan0, wlan1}, nil
		},
	}

	b := &Backend{NM: nm, Interface: "wlan1"}
	dev, err := b.getWirelessDevice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev != wlan1 {
		t.Errorf("expected wlan1, got %v", dev)
	}

	// No interface picks the first wireless device, whatever its name.
	b = &Backend{NM: nm}
	dev, err = b.getWirelessDevice()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev != wlan0 {
		t.Errorf("expected the first device, got %v", dev)
	}

	b = &Backend{NM: nm, Interface: "wlan9"}
	if _, err := b.getWirelessDevice(); !errors.Is(err, wifi.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScan(t *testing.T) {
	dev := &mockDeviceWireless{
		iface: "wlan0",
		accessPoints: []gonetworkmanager.AccessPoint{
			&mockAccessPoint{ssid: "Weak", bssid: "00:00:00:00:00:01", strength: 20, freq: 2437, rsn: secKeyMgmtPSK},
			&mockAccessPoint{ssid: "Strong", bssid: "00:00:00:00:00:02", strength: 90, freq: 5180, rsn: secKeyMgmtSAE},
			&mockAccessPoint{ssid: "", bssid: "00:00:00:00:00:03", strength: 95, freq: 2412},
		},
	}
	nm := &mockNM{
		getDevicesFunc: func() ([]gonetworkmanager.Device, error) {
			return []gonetworkmanager.Device{dev}, nil
		},
	}
	b := &Backend{NM: nm, ScanWait: -1}

	networks, err := b.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev.scans != 1 {
		t.Errorf("expected 1 scan request, got %d", dev.scans)
	}
	if len(networks) != 3 {
		t.Fatalf("expected 3 networks, got %d", len(networks))
	}

	want := []wifi.Network{
		{SSID: "Strong", Encryption: wifi.EncryptionWPA3, Mode: wifi.ModeAP, BSSID: "00:00:00:00:00:02", Channel: 36, Signal: 90},
		{SSID: "Weak", Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, BSSID: "00:00:00:00:00:01", Channel: 6, Signal: 20},
		{SSID: wifi.NoSSID, Encryption: wifi.EncryptionNone, Mode: wifi.ModeAP, BSSID: "00:00:00:00:00:03", Channel: 1, Signal: 95},
	}
	for i := range want {
		if networks[i] != want[i] {
			t.Errorf("network %d: expected %+v, got %+v", i, want[i], networks[i])
		}
	}
}

func TestScan_WirelessDisabled(t *testing.T) {
	nm := &mockNM{
		getPropertyWirelessEnabledFunc: func() (bool, error) { return false, nil },
	}
	b := &Backend{NM: nm}

	_, err := b.Scan(context.Background())
	if !errors.Is(err, wifi.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestScan_StatusError(t *testing.T) {
	expectedErr := errors.New("dbus went away")
	nm := &mockNM{
		getPropertyWirelessEnabledFunc: func() (bool, error) { return false, expectedErr },
	}
	b := &Backend{NM: nm}

	if _, err := b.Scan(context.Background()); err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestClassifySecurity(t *testing.T) {
	tests := []struct {
		name    string
		privacy bool
		wpa     uint32
		rsn     uint32
		want    wifi.EncryptionType
	}{
		{"open", false, 0, 0, wifi.EncryptionNone},
		{"wep", true, 0, 0, wifi.EncryptionWEP},
		{"wpa", true, secKeyMgmtPSK, 0, wifi.EncryptionWPA},
		{"wpa2", true, 0, secKeyMgmtPSK, wifi.EncryptionWPA2},
		{"wpa2/wpa3 transition", true, 0, secKeyMgmtPSK | secKeyMgmtSAE, wifi.EncryptionWPA3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySecurity(tt.privacy, tt.wpa, tt.rsn); got != tt.want {
				t.Errorf("classifySecurity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrequencyToChannel(t *testing.T) {
	for mhz, want := range map[uint32]int{2412: 1, 2437: 6, 2484: 14, 5180: 36, 5745: 149, 5975: 5, 900: 0} {
		if got := frequencyToChannel(mhz); got != want {
			t.Errorf("frequencyToChannel(%d) = %d, want %d", mhz, got, want)
		}
	}
}
