//go:build !linux && !mock

package main

import (
	"fmt"

	"github.com/shazow/wifiswitch/wifi"
)

// GetBackend only supports the openwrt backend outside of linux, e.g. against
// a copied configuration directory with -uci-confdir.
func GetBackend(opts backendOptions) (backends, error) {
	switch opts.Kind {
	case "", backendOpenWrt:
		return openwrtBackends(opts), nil
	}
	return backends{}, fmt.Errorf("backend %q on this operating system: %w", opts.Kind, wifi.ErrNotSupported)
}
