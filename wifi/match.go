package wifi

import (
	"fmt"
	"log/slog"
)

// Match is a configured network that is currently visible.
type Match struct {
	Configured Network
	Scanned    Network
}

// Matches reports whether two networks are the same network: both carry an
// SSID, and the SSID and encryption type are equal.
func Matches(a, b Network) bool {
	if !a.HasSSID() || !b.HasSSID() {
		return false
	}
	return a.SSID == b.SSID && a.Encryption == b.Encryption
}

// Reconcile compares every configured non-AP network against every scanned
// network and returns the matches in configured order.
//
// Access points are never compared: they host a network rather than join one.
// An empty input list returns ErrNoData without comparing anything.
func Reconcile(configured, scanned []Network) ([]Match, error) {
	if len(scanned) == 0 {
		return nil, fmt.Errorf("no scanned networks: %w", ErrNoData)
	}
	if len(configured) == 0 {
		return nil, fmt.Errorf("no configured networks: %w", ErrNoData)
	}

	var matches []Match
	for _, c := range configured {
		if c.Mode == ModeAP {
			continue
		}
		for _, s := range scanned {
			slog.Debug("comparing networks", "configured", c.SSID, "configured_encryption", c.Encryption, "scanned", s.SSID, "scanned_encryption", s.Encryption)
			if !Matches(c, s) {
				continue
			}
			slog.Info("match for network", "ssid", c.SSID, "section", c.Section, "bssid", s.BSSID)
			matches = append(matches, Match{Configured: c, Scanned: s})
		}
	}
	return matches, nil
}
