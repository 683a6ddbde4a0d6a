package wifi

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseSections converts the wifi-iface sections of the wireless package into
// configured networks, keeping store order. Other section types are ignored.
func ParseSections(sections []Section) []Network {
	var networks []Network
	for _, s := range sections {
		if s.Type != InterfaceSectionType {
			continue
		}
		n := Network{
			SSID:    NoSSID,
			Section: s.Name,
		}
		if ssid, ok := s.Option("ssid"); ok && ssid != "" {
			n.SSID = ssid
		}
		encryption, _ := s.Option("encryption")
		n.Encryption = ParseEncryption(encryption)
		mode, _ := s.Option("mode")
		n.Mode = ParseMode(mode)
		disabled, _ := s.Option("disabled")
		n.Disabled = parseBool(disabled)
		n.Device, _ = s.Option("device")
		n.Key, _ = s.Option("key")
		hidden, _ := s.Option("hidden")
		n.Hidden = parseBool(hidden)
		networks = append(networks, n)
	}
	return networks
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "enabled":
		return true
	}
	return false
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// PrimaryAP selects the access point that AP operations act on.
//
// If section is set, the AP with that section name is returned. Otherwise the
// first AP in list order is used; with strict set, more than one AP is an
// error instead. ok is false when there is no AP at all.
func PrimaryAP(networks []Network, section string, strict bool) (ap Network, ok bool, err error) {
	var aps []Network
	for _, n := range networks {
		if n.Mode == ModeAP {
			aps = append(aps, n)
		}
	}

	if section != "" {
		for _, n := range aps {
			if n.Section == section {
				return n, true, nil
			}
		}
		return Network{}, false, fmt.Errorf("primary access point %q: %w", section, ErrNotFound)
	}

	switch {
	case len(aps) == 0:
		return Network{}, false, nil
	case len(aps) > 1 && strict:
		return Network{}, false, fmt.Errorf("%d sections in ap mode: %w", len(aps), ErrMultipleAP)
	case len(aps) > 1:
		slog.Warn("multiple access points configured, using the first", "section", aps[0].Section, "count", len(aps))
	}
	return aps[0], true, nil
}
