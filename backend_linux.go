//go:build linux && !mock

package main

import (
	"fmt"

	"github.com/shazow/wifiswitch/wifi"
	"github.com/shazow/wifiswitch/wifi/iwd"
	"github.com/shazow/wifiswitch/wifi/networkmanager"
)

// GetBackend returns the backends for opts.Kind. The NetworkManager and iwd
// backends only replace scanning and status; the configuration is always
// managed through uci.
func GetBackend(opts backendOptions) (backends, error) {
	b := openwrtBackends(opts)
	switch opts.Kind {
	case "", backendOpenWrt:
		return b, nil
	case backendNetworkManager:
		nm, err := networkmanager.New(opts.Device)
		if err != nil {
			return backends{}, err
		}
		b.Scanner, b.Status = nm, nm
		return b, nil
	case backendIWD:
		d, err := iwd.New(opts.Device)
		if err != nil {
			return backends{}, err
		}
		b.Scanner, b.Status = d, d
		return b, nil
	}
	return backends{}, fmt.Errorf("unknown backend %q: %w", opts.Kind, wifi.ErrNotSupported)
}
