package iwd

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifiswitch/wifi"
)

func testObjects() managedObjects {
	return managedObjects{
		"/net/connman/iwd/0/4": {
			iwdDeviceIface: {
				"Name":    dbus.MakeVariant("wlan0"),
				"Powered": dbus.MakeVariant(true),
			},
			iwdStationIface: {
				"State": dbus.MakeVariant("disconnected"),
			},
		},
		"/net/connman/iwd/0/5": {
			iwdDeviceIface: {
				"Name":    dbus.MakeVariant("wlan1"),
				"Powered": dbus.MakeVariant(false),
			},
		},
		"/net/connman/iwd/0/4/486f6d65_psk": {
			iwdNetworkIface: {
				"Name": dbus.MakeVariant("Home"),
				"Type": dbus.MakeVariant("psk"),
			},
		},
		"/net/connman/iwd/0/4/436166e9_open": {
			iwdNetworkIface: {
				"Name": dbus.MakeVariant("Cafe"),
				"Type": dbus.MakeVariant("open"),
			},
		},
	}
}

func TestFindStation(t *testing.T) {
	objects := testObjects()

	p, err := findStation(objects, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "/net/connman/iwd/0/4" {
		t.Errorf("expected wlan0 station, got %s", p)
	}

	// wlan1 has no station interface.
	if _, err := findStation(objects, "wlan1"); !errors.Is(err, wifi.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDevicePowered(t *testing.T) {
	objects := testObjects()

	tests := []struct {
		device  string
		want    bool
		wantErr error
	}{
		{"", true, nil},
		{"wlan0", true, nil},
		{"wlan1", false, nil},
		{"wlan2", false, wifi.ErrNotFound},
	}
	for _, tt := range tests {
		got, err := devicePowered(objects, tt.device)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("devicePowered(%q) error = %v, want %v", tt.device, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("devicePowered(%q) = %v, want %v", tt.device, got, tt.want)
		}
	}
}

func TestNetworksFromObjects(t *testing.T) {
	ordered := []orderedNetwork{
		{Path: "/net/connman/iwd/0/4/436166e9_open", Signal: -4500},
		{Path: "/net/connman/iwd/0/4/486f6d65_psk", Signal: -7000},
		{Path: "/net/connman/iwd/0/4/gone", Signal: -8000},
	}

	got := networksFromObjects(testObjects(), ordered)
	want := []wifi.Network{
		{SSID: "Cafe", Encryption: wifi.EncryptionNone, Mode: wifi.ModeAP, Signal: 100},
		{SSID: "Home", Encryption: wifi.EncryptionWPA2, Mode: wifi.ModeAP, Signal: 60},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d networks, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("network %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestParseNetworkType(t *testing.T) {
	for in, want := range map[string]wifi.EncryptionType{
		"open":  wifi.EncryptionNone,
		"wep":   wifi.EncryptionWEP,
		"psk":   wifi.EncryptionWPA2,
		"8021x": wifi.EncryptionUnknown,
	} {
		if got := parseNetworkType(in); got != want {
			t.Errorf("parseNetworkType(%q) = %v, want %v", in, got, want)
		}
	}
}
