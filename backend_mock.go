//go:build mock

package main

import (
	"github.com/shazow/wifiswitch/wifi/mock"
)

// GetBackend ignores opts and returns an in-memory router.
func GetBackend(opts backendOptions) (backends, error) {
	b := mock.New()
	return backends{Config: b, Scanner: b, Status: b, Reloader: b}, nil
}
