package wifi

import "strings"

// NoSSID is the placeholder SSID for a record that carries no usable identity,
// such as a section without an ssid option or a hidden scan entry.
const NoSSID = "(none)"

// Mode is the role of a wireless interface.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeAP
	ModeSTA
)

func (m Mode) String() string {
	switch m {
	case ModeAP:
		return "ap"
	case ModeSTA:
		return "sta"
	default:
		return "other"
	}
}

// ParseMode converts a uci `mode` option value into a Mode.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ap":
		return ModeAP
	case "sta":
		return ModeSTA
	default:
		return ModeUnknown
	}
}

// EncryptionType classifies the security scheme of a network.
type EncryptionType int

const (
	EncryptionUnknown EncryptionType = iota
	EncryptionNone
	EncryptionWEP
	EncryptionWPA
	EncryptionWPA2
	EncryptionWPA3
)

func (e EncryptionType) String() string {
	switch e {
	case EncryptionNone:
		return "none"
	case EncryptionWEP:
		return "wep"
	case EncryptionWPA:
		return "wpa"
	case EncryptionWPA2:
		return "wpa2"
	case EncryptionWPA3:
		return "wpa3"
	default:
		return "unknown"
	}
}

// ParseEncryption converts a uci `encryption` option value into an
// EncryptionType. An empty value means the section is unencrypted.
func ParseEncryption(s string) EncryptionType {
	s = strings.ToLower(strings.TrimSpace(s))
	// Cipher suffixes like "psk2+ccmp" don't change the classification.
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	switch {
	case s == "" || s == "none":
		return EncryptionNone
	case strings.HasPrefix(s, "wep"):
		return EncryptionWEP
	case strings.HasPrefix(s, "sae"):
		return EncryptionWPA3
	case s == "psk2", strings.HasPrefix(s, "psk-mixed"), strings.HasPrefix(s, "wpa2"), s == "wpa-mixed":
		return EncryptionWPA2
	case s == "psk", s == "wpa":
		return EncryptionWPA
	default:
		return EncryptionUnknown
	}
}

// Network describes one wireless network, either read from the persisted
// configuration or heard during a scan.
type Network struct {
	SSID       string
	Encryption EncryptionType
	Mode       Mode

	// Disabled is only meaningful for configured networks. Scanned networks
	// are always present.
	Disabled bool

	// Section names the configuration section this network was read from.
	// It is only used to route mutations back to the ConfigBackend.
	Section string
	Device  string
	Key     string

	// Hidden is set for configured access points that do not broadcast
	// their SSID.
	Hidden bool

	BSSID   string
	Channel int
	Signal  uint8 // 0-100
}

// HasSSID reports whether the network carries a usable identity.
func (n Network) HasSSID() bool {
	return n.SSID != NoSSID
}
