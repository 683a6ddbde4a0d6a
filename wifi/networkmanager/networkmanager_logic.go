package networkmanager

import "github.com/shazow/wifiswitch/wifi"

// Key management bits of the AP WpaFlags and RsnFlags properties.
const (
	secKeyMgmtPSK = 0x0000_0100
	secKeyMgmtSAE = 0x0000_0400
)

// classifySecurity maps the NetworkManager access point flags onto an
// EncryptionType. RSN flags mean WPA2 unless SAE is offered.
func classifySecurity(privacy bool, wpaFlags, rsnFlags uint32) wifi.EncryptionType {
	switch {
	case rsnFlags&secKeyMgmtSAE != 0:
		return wifi.EncryptionWPA3
	case rsnFlags != 0:
		return wifi.EncryptionWPA2
	case wpaFlags != 0:
		return wifi.EncryptionWPA
	case privacy:
		return wifi.EncryptionWEP
	default:
		return wifi.EncryptionNone
	}
}

// frequencyToChannel converts a center frequency in MHz to an IEEE channel
// number, or 0 if the frequency is not in a known band.
func frequencyToChannel(mhz uint32) int {
	switch {
	case mhz == 2484:
		return 14
	case mhz >= 2412 && mhz < 2484:
		return int(mhz-2407) / 5
	case mhz >= 5000 && mhz < 5925:
		return int(mhz-5000) / 5
	case mhz >= 5955 && mhz <= 7115:
		return int(mhz-5950) / 5
	default:
		return 0
	}
}
