package main

import (
	"github.com/shazow/wifiswitch/wifi"
	"github.com/shazow/wifiswitch/wifi/openwrt"
)

const (
	backendOpenWrt        = "openwrt"
	backendNetworkManager = "networkmanager"
	backendIWD            = "iwd"
)

// backendOptions selects and configures the backends.
type backendOptions struct {
	Kind string
	// Device is the interface to scan on. Empty lets each backend pick its
	// default: openwrt.DefaultDevice for iwinfo, the first wireless device for
	// NetworkManager and iwd.
	Device  string
	ConfDir string
	Radio   string
}

// backends is the set of implementations a wifi.Tool drives.
type backends struct {
	Config   wifi.ConfigBackend
	Scanner  wifi.ScanBackend
	Status   wifi.StatusBackend
	Reloader wifi.Reloader
}

// openwrtBackends drives everything through uci, iwinfo, ubus and /sbin/wifi.
func openwrtBackends(opts backendOptions) backends {
	b := openwrt.New(openwrt.Options{
		Device:  opts.Device,
		ConfDir: opts.ConfDir,
		Radio:   opts.Radio,
	})
	return backends{Config: b, Scanner: b, Status: b, Reloader: b}
}

func (b backends) tool() *wifi.Tool {
	return &wifi.Tool{
		Config:   b.Config,
		Scanner:  b.Scanner,
		Status:   b.Status,
		Reloader: b.Reloader,
	}
}
