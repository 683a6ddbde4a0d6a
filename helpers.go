package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shazow/wifiswitch/wifi"
)

// formatDuration takes a time and returns a human-readable string like "2 hours ago"
func formatDuration(t time.Time) string {
	d := time.Since(t)
	var s string
	switch {
	case d < time.Minute*2:
		s = fmt.Sprintf("%0.f seconds", d.Seconds())
	case d < time.Hour*2:
		s = fmt.Sprintf("%0.f minutes", d.Minutes())
	case d < time.Hour*48:
		s = fmt.Sprintf("%0.1f hours", d.Hours())
	case d < time.Hour*24*9:
		s = fmt.Sprintf("%0.1f days", d.Hours()/24)
	default:
		s = fmt.Sprintf("%0.f days", d.Hours()/24)
	}
	return fmt.Sprintf("%s ago", s)
}

// formatScanned describes a network heard in a scan.
func formatScanned(n wifi.Network) string {
	parts := []string{fmt.Sprintf("%d%%", n.Signal), n.Encryption.String()}
	if n.Channel > 0 {
		parts = append(parts, fmt.Sprintf("channel %d", n.Channel))
	}
	if n.BSSID != "" {
		parts = append(parts, n.BSSID)
	}
	return strings.Join(parts, ", ")
}

// formatConfigured describes a configured section.
func formatConfigured(n wifi.Network) string {
	state := "enabled"
	if n.Disabled {
		state = "disabled"
	}
	parts := []string{n.Mode.String(), n.Encryption.String(), state}
	if n.Device != "" {
		parts = append(parts, n.Device)
	}
	return strings.Join(parts, ", ")
}

// formatReport summarizes a traversal.
func formatReport(r wifi.TraversalReport) string {
	if len(r.Targeted) == 0 {
		return fmt.Sprintf("%s: no sections to update", r.Mode)
	}
	verb := "enabled"
	if r.Disabled {
		verb = "disabled"
	}
	s := fmt.Sprintf("%s: %s %s", r.Mode, verb, strings.Join(r.Mutated, ", "))
	if len(r.Mutated) == 0 {
		s = fmt.Sprintf("%s: nothing %s", r.Mode, verb)
	}
	if len(r.Failed) > 0 {
		s += fmt.Sprintf(" (failed: %s)", strings.Join(r.Failed, ", "))
	}
	if !r.Committed {
		s += " (not committed)"
	}
	return s
}
