package iwd

import (
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifiswitch/wifi"
)

const (
	iwdDeviceIface  = "net.connman.iwd.Device"
	iwdNetworkIface = "net.connman.iwd.Network"
	iwdStationIface = "net.connman.iwd.Station"
)

// managedObjects is the reply of ObjectManager.GetManagedObjects.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// orderedNetwork is one entry of Station.GetOrderedNetworks, signal in 100*dBm.
type orderedNetwork struct {
	Path   dbus.ObjectPath
	Signal int16
}

func stringProp(props map[string]dbus.Variant, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func sortedPaths(objects managedObjects) []dbus.ObjectPath {
	paths := make([]dbus.ObjectPath, 0, len(objects))
	for p := range objects {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// findDevice returns the path of the device named name, or the first device
// implementing iface when name is empty.
func findDevice(objects managedObjects, name, iface string) (dbus.ObjectPath, error) {
	for _, p := range sortedPaths(objects) {
		ifaces := objects[p]
		if _, ok := ifaces[iface]; !ok {
			continue
		}
		if name == "" || stringProp(ifaces[iwdDeviceIface], "Name") == name {
			return p, nil
		}
	}
	if name == "" {
		return "", fmt.Errorf("no iwd device with %s: %w", iface, wifi.ErrNotFound)
	}
	return "", fmt.Errorf("iwd device %s: %w", name, wifi.ErrNotFound)
}

func findStation(objects managedObjects, name string) (dbus.ObjectPath, error) {
	return findDevice(objects, name, iwdStationIface)
}

func devicePowered(objects managedObjects, name string) (bool, error) {
	p, err := findDevice(objects, name, iwdDeviceIface)
	if err != nil {
		return false, err
	}
	v, ok := objects[p][iwdDeviceIface]["Powered"]
	if !ok {
		return false, fmt.Errorf("device %s has no Powered property: %w", p, wifi.ErrNoData)
	}
	powered, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("device %s: unexpected Powered type %s", p, v.Signature())
	}
	return powered, nil
}

// parseNetworkType maps the iwd Network.Type property. iwd does not tell
// WPA generations apart, so psk is reported as WPA2.
func parseNetworkType(t string) wifi.EncryptionType {
	switch t {
	case "open":
		return wifi.EncryptionNone
	case "wep":
		return wifi.EncryptionWEP
	case "psk":
		return wifi.EncryptionWPA2
	default:
		return wifi.EncryptionUnknown
	}
}

// signalToPercent converts 100*dBm to a 0-100 quality.
func signalToPercent(signal int16) uint8 {
	q := 2 * (int(signal)/100 + 100)
	switch {
	case q < 0:
		return 0
	case q > 100:
		return 100
	}
	return uint8(q)
}

func networksFromObjects(objects managedObjects, ordered []orderedNetwork) []wifi.Network {
	networks := make([]wifi.Network, 0, len(ordered))
	for _, o := range ordered {
		props, ok := objects[o.Path][iwdNetworkIface]
		if !ok {
			continue
		}
		n := wifi.Network{
			SSID:       stringProp(props, "Name"),
			Encryption: parseNetworkType(stringProp(props, "Type")),
			Mode:       wifi.ModeAP,
			Signal:     signalToPercent(o.Signal),
		}
		if n.SSID == "" {
			n.SSID = wifi.NoSSID
		}
		networks = append(networks, n)
	}
	return networks
}
