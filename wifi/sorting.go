package wifi

import "sort"

// SortNetworks sorts scanned networks in place for display.
// The sorting order is:
// 1. Networks with an SSID before hidden ones.
// 2. Signal strength (strongest first).
// 3. Fallback to SSID alphabetically, then BSSID.
func SortNetworks(networks []Network) {
	sort.SliceStable(networks, func(i, j int) bool {
		a := networks[i]
		b := networks[j]

		if a.HasSSID() != b.HasSSID() {
			return a.HasSSID()
		}

		if a.Signal != b.Signal {
			return a.Signal > b.Signal
		}

		if a.SSID != b.SSID {
			return a.SSID < b.SSID
		}
		return a.BSSID < b.BSSID
	})
}
