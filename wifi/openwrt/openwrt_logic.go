package openwrt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shazow/wifiswitch/wifi"
)

// parseUCIShow parses the output of `uci -X show <package>` into sections, in
// the order they are declared.
//
//	wireless.radio0=wifi-device
//	wireless.radio0.channel='11'
//	wireless.cfg033579=wifi-iface
//	wireless.cfg033579.ssid='Omega-ABCD'
func parseUCIShow(pkg, output string) ([]wifi.Section, error) {
	var sections []wifi.Section
	index := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("malformed uci line: %q", line)
		}
		parts := strings.Split(key, ".")
		if parts[0] != pkg {
			continue
		}

		switch len(parts) {
		case 2:
			index[parts[1]] = len(sections)
			sections = append(sections, wifi.Section{
				Name:    parts[1],
				Type:    unquoteUCI(value),
				Options: map[string]string{},
			})
		case 3:
			i, ok := index[parts[1]]
			if !ok {
				return nil, fmt.Errorf("option for undeclared section: %q", line)
			}
			sections[i].Options[parts[2]] = unquoteUCI(value)
		default:
			return nil, fmt.Errorf("malformed uci key: %q", key)
		}
	}
	return sections, scanner.Err()
}

// unquoteUCI undoes the shell-style quoting of `uci show`. A quote inside a
// value is written as `'\''`. List values are joined with a single space.
func unquoteUCI(s string) string {
	var (
		b       strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case inQuote && r == '\'':
			inQuote = false
		case inQuote:
			b.WriteRune(r)
		case r == '\'':
			inQuote = true
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	cellRe       = regexp.MustCompile(`^Cell \d+ - Address:\s*([0-9A-Fa-f:]+)`)
	essidRe      = regexp.MustCompile(`^ESSID:\s*(.*)$`)
	channelRe    = regexp.MustCompile(`Channel:\s*(\d+)`)
	qualityRe    = regexp.MustCompile(`Quality:\s*(\d+)/(\d+)`)
	encryptionRe = regexp.MustCompile(`^Encryption:\s*(.+)$`)
)

// parseIWInfoScan parses the output of `iwinfo <device> scan`.
//
//	Cell 01 - Address: 00:11:22:33:44:55
//	          ESSID: "Home"
//	          Mode: Master  Channel: 6
//	          Signal: -52 dBm  Quality: 58/70
//	          Encryption: WPA2 PSK (CCMP)
func parseIWInfoScan(output string) []wifi.Network {
	var networks []wifi.Network
	var current *wifi.Network

	flush := func() {
		if current != nil {
			networks = append(networks, *current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if matches := cellRe.FindStringSubmatch(line); len(matches) > 1 {
			flush()
			current = &wifi.Network{
				SSID:       wifi.NoSSID,
				Mode:       wifi.ModeAP,
				Encryption: wifi.EncryptionUnknown,
				BSSID:      strings.ToUpper(matches[1]),
			}
			continue
		}
		if current == nil {
			continue
		}

		if matches := essidRe.FindStringSubmatch(line); len(matches) > 1 {
			essid := strings.TrimSpace(matches[1])
			if essid != "unknown" && essid != "" {
				if unquoted, err := strconv.Unquote(essid); err == nil {
					essid = unquoted
				}
				current.SSID = essid
			}
		}
		if matches := channelRe.FindStringSubmatch(line); len(matches) > 1 {
			current.Channel, _ = strconv.Atoi(matches[1])
		}
		if matches := qualityRe.FindStringSubmatch(line); len(matches) > 2 {
			current.Signal = qualityToSignal(matches[1], matches[2])
		}
		if matches := encryptionRe.FindStringSubmatch(line); len(matches) > 1 {
			current.Encryption = parseScanEncryption(matches[1])
		}
	}
	flush()
	return networks
}

func qualityToSignal(q, outOf string) uint8 {
	quality, err := strconv.Atoi(q)
	if err != nil {
		return 0
	}
	maxQuality, err := strconv.Atoi(outOf)
	if err != nil || maxQuality <= 0 {
		return 0
	}
	signal := quality * 100 / maxQuality
	if signal > 100 {
		signal = 100
	}
	return uint8(signal)
}

// parseScanEncryption classifies the human readable encryption column of
// iwinfo, e.g. "mixed WPA/WPA2 PSK (TKIP, CCMP)".
func parseScanEncryption(s string) wifi.EncryptionType {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none":
		return wifi.EncryptionNone
	case strings.Contains(s, "wpa3") || strings.Contains(s, "sae"):
		return wifi.EncryptionWPA3
	case strings.Contains(s, "wpa2"):
		return wifi.EncryptionWPA2
	case strings.Contains(s, "wpa"):
		return wifi.EncryptionWPA
	case strings.Contains(s, "wep"):
		return wifi.EncryptionWEP
	default:
		return wifi.EncryptionUnknown
	}
}

type radioStatus struct {
	Up      bool `json:"up"`
	Pending bool `json:"pending"`
}

// parseWirelessStatus interprets `ubus call network.wireless status`. With a
// radio name only that radio is considered, otherwise any radio being up is
// enough.
func parseWirelessStatus(data []byte, radio string) (bool, error) {
	var radios map[string]radioStatus
	if err := json.Unmarshal(data, &radios); err != nil {
		return false, fmt.Errorf("decode network.wireless status: %w", err)
	}
	if radio != "" {
		r, ok := radios[radio]
		if !ok {
			return false, fmt.Errorf("radio %s: %w", radio, wifi.ErrNotFound)
		}
		return r.Up, nil
	}
	if len(radios) == 0 {
		return false, fmt.Errorf("no radios reported: %w", wifi.ErrNotFound)
	}
	for _, r := range radios {
		if r.Up {
			return true, nil
		}
	}
	return false, nil
}
