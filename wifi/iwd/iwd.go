//go:build linux

// Package iwd scans and reports radio status through iwd on D-Bus.
package iwd

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifiswitch/wifi"
)

// DefaultScanWait is how long Scan waits for iwd to finish a scan.
const DefaultScanWait = 3 * time.Second

const (
	iwdDest            = "net.connman.iwd"
	iwdPath            = "/"
	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
)

// Backend implements wifi.ScanBackend and wifi.StatusBackend.
type Backend struct {
	Conn *dbus.Conn
	// Device selects a device by interface name. Empty means the first station.
	Device string
	// ScanWait overrides DefaultScanWait. Negative means don't wait.
	ScanWait time.Duration
}

// New connects to the system bus and checks that iwd is running.
func New(device string) (*Backend, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w: %w", wifi.ErrBackendInit, err)
	}
	b := &Backend{Conn: conn, Device: device}
	if _, err := b.managedObjects(); err != nil {
		return nil, fmt.Errorf("iwd is not available: %w: %w", wifi.ErrBackendInit, err)
	}
	return b, nil
}

func (b *Backend) managedObjects() (managedObjects, error) {
	var objects managedObjects
	err := b.Conn.Object(iwdDest, iwdPath).Call(objectManagerIface+".GetManagedObjects", 0).Store(&objects)
	return objects, err
}

// Scan triggers a station scan and returns the networks iwd knows about,
// strongest first.
func (b *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	objects, err := b.managedObjects()
	if err != nil {
		return nil, err
	}
	station, err := findStation(objects, b.Device)
	if err != nil {
		return nil, err
	}
	stationObj := b.Conn.Object(iwdDest, station)

	// iwd refuses a new scan while one is running; the ordered list is still
	// usable in that case.
	if call := stationObj.CallWithContext(ctx, iwdStationIface+".Scan", 0); call.Err == nil {
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
		if objects, err = b.managedObjects(); err != nil {
			return nil, err
		}
	}

	var ordered []orderedNetwork
	err = stationObj.CallWithContext(ctx, iwdStationIface+".GetOrderedNetworks", 0).Store(&ordered)
	if err != nil {
		return nil, fmt.Errorf("get ordered networks: %w", err)
	}
	return networksFromObjects(objects, ordered), nil
}

// WirelessUp reports whether the device is powered.
func (b *Backend) WirelessUp(ctx context.Context) (bool, error) {
	objects, err := b.managedObjects()
	if err != nil {
		return false, err
	}
	return devicePowered(objects, b.Device)
}
