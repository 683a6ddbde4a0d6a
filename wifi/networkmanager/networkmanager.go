//go:build linux

// Package networkmanager scans and reports radio status through
// NetworkManager on D-Bus. It is read-only: the persisted router
// configuration is always managed through uci.
package networkmanager

import (
	"context"
	"fmt"
	"time"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"

	"github.com/shazow/wifiswitch/wifi"
)

// DefaultScanWait is how long Scan waits for NetworkManager to refresh its
// access point list after requesting a scan.
const DefaultScanWait = 2 * time.Second

// Backend implements wifi.ScanBackend and wifi.StatusBackend.
type Backend struct {
	NM gonetworkmanager.NetworkManager
	// Interface selects a wireless device by name. Empty means the first one.
	Interface string
	// ScanWait overrides DefaultScanWait. Negative means don't wait.
	ScanWait time.Duration

	wireless gonetworkmanager.DeviceWireless
}

// New connects to NetworkManager.
func New(iface string) (*Backend, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager client: %w: %w", wifi.ErrBackendInit, err)
	}
	return &Backend{NM: nm, Interface: iface}, nil
}

func (b *Backend) getWirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	if b.wireless != nil {
		return b.wireless, nil
	}
	devices, err := b.NM.GetDevices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		dev, ok := device.(gonetworkmanager.DeviceWireless)
		if !ok {
			continue
		}
		if b.Interface != "" {
			name, err := dev.GetPropertyInterface()
			if err != nil || name != b.Interface {
				continue
			}
		}
		b.wireless = dev
		return dev, nil
	}
	return nil, fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
}

// Scan requests a scan and returns the visible access points.
func (b *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	enabled, err := b.WirelessUp(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, fmt.Errorf("wireless is disabled: %w", wifi.ErrNoData)
	}

	dev, err := b.getWirelessDevice()
	if err != nil {
		return nil, err
	}
	if err := dev.RequestScan(); err != nil {
		return nil, fmt.Errorf("request scan: %w", err)
	}

	wait := b.ScanWait
	if wait == 0 {
		wait = DefaultScanWait
	}
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	accessPoints, err := dev.GetAccessPoints()
	if err != nil {
		return nil, err
	}

	networks := make([]wifi.Network, 0, len(accessPoints))
	for _, ap := range accessPoints {
		networks = append(networks, accessPointNetwork(ap))
	}
	wifi.SortNetworks(networks)
	return networks, nil
}

func accessPointNetwork(ap gonetworkmanager.AccessPoint) wifi.Network {
	n := wifi.Network{
		SSID: wifi.NoSSID,
		Mode: wifi.ModeAP,
	}
	if ssid, err := ap.GetPropertySSID(); err == nil && ssid != "" {
		n.SSID = ssid
	}
	n.Signal, _ = ap.GetPropertyStrength()
	n.BSSID, _ = ap.GetPropertyHWAddress()
	if freq, err := ap.GetPropertyFrequency(); err == nil {
		n.Channel = frequencyToChannel(freq)
	}

	flags, _ := ap.GetPropertyFlags()
	wpaFlags, _ := ap.GetPropertyWPAFlags()
	rsnFlags, _ := ap.GetPropertyRSNFlags()
	n.Encryption = classifySecurity(
		uint32(flags)&uint32(gonetworkmanager.Nm80211APFlagsPrivacy) != 0,
		uint32(wpaFlags),
		uint32(rsnFlags),
	)
	return n
}

// WirelessUp reports whether NetworkManager has wireless enabled.
func (b *Backend) WirelessUp(ctx context.Context) (bool, error) {
	return b.NM.GetPropertyWirelessEnabled()
}
