package main

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/shazow/wifiswitch/wifi"
)

// EscapeWifiString handles the special character escaping for SSID and Password.
func EscapeWifiString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`;`, `\;`,
		`,`, `\,`,
		`:`, `\:`,
		`"`, `\"`,
	)
	return r.Replace(s)
}

// WifiString builds the Wi-Fi join string understood by phone cameras.
func WifiString(n wifi.Network) string {
	var b strings.Builder

	b.WriteString("WIFI:S:")
	b.WriteString(EscapeWifiString(n.SSID))
	b.WriteString(";")

	switch n.Encryption {
	case wifi.EncryptionWPA, wifi.EncryptionWPA2:
		b.WriteString("T:WPA;P:")
		b.WriteString(EscapeWifiString(n.Key))
		b.WriteString(";")
	case wifi.EncryptionWPA3:
		b.WriteString("T:SAE;P:")
		b.WriteString(EscapeWifiString(n.Key))
		b.WriteString(";")
	case wifi.EncryptionWEP:
		b.WriteString("T:WEP;P:")
		b.WriteString(EscapeWifiString(n.Key))
		b.WriteString(";")
	case wifi.EncryptionNone:
		b.WriteString("T:nopass;")
	default:
		// Don't set T if security is unknown, most readers will assume WPA.
	}

	if n.Hidden {
		b.WriteString("H:true;")
	}

	b.WriteString(";")
	return b.String()
}

// GenerateWifiQRCode returns a terminal-friendly QR code for joining the network.
func GenerateWifiQRCode(n wifi.Network) (string, error) {
	q, err := qrcode.New(WifiString(n), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
