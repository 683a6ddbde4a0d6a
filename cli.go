package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shazow/wifiswitch/internal/history"
	"github.com/shazow/wifiswitch/wifi"
)

// Exit codes by error kind.
const (
	exitOK          = 0
	exitFailure     = 1
	exitBackendInit = 2
	exitLookup      = 3
	exitNoData      = 4
	exitMutation    = 5
)

// exitCode maps an error to the process exit code. For joined errors the
// first error with a known kind decides.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if code := exitCode(e); code != exitFailure {
				return code
			}
		}
		return exitFailure
	}
	if inner := errors.Unwrap(err); inner != nil {
		return exitCode(inner)
	}
	switch {
	case errors.Is(err, wifi.ErrBackendInit):
		return exitBackendInit
	case errors.Is(err, wifi.ErrLookup):
		return exitLookup
	case errors.Is(err, wifi.ErrNoData):
		return exitNoData
	case errors.Is(err, wifi.ErrMutation):
		return exitMutation
	}
	return exitFailure
}

// parseState reads the enable|disable argument of the ap and sta commands.
func parseState(args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("expected one argument: enable or disable")
	}
	switch args[0] {
	case "enable", "on":
		return true, nil
	case "disable", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid state %q: expected enable or disable", args[0])
}

func runScan(ctx context.Context, w io.Writer, tool *wifi.Tool) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{Scan: true})
	if err != nil {
		return out, fmt.Errorf("failed to scan: %w", err)
	}
	networks := append([]wifi.Network(nil), out.Scanned...)
	wifi.SortNetworks(networks)
	for _, n := range networks {
		fmt.Fprintf(w, "%s\t%s\n", n.SSID, formatScanned(n))
	}
	return out, nil
}

func runList(ctx context.Context, w io.Writer, tool *wifi.Tool) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{ReadConfig: true})
	if err != nil {
		return out, fmt.Errorf("failed to read configuration: %w", err)
	}
	for _, n := range out.Configured {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.Section, n.SSID, formatConfigured(n))
	}
	return out, nil
}

// runMatch scans, reads the configuration and reports the configured networks
// in range. With a store, the matches are recorded.
func runMatch(ctx context.Context, w io.Writer, tool *wifi.Tool, store *history.Store) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{Scan: true, ReadConfig: true, Match: true})
	if err != nil {
		return out, fmt.Errorf("failed to check configured networks: %w", err)
	}
	if len(out.Matches) == 0 {
		fmt.Fprintln(w, "No configured networks in range")
		return out, nil
	}
	for _, m := range out.Matches {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Configured.Section, m.Configured.SSID, formatScanned(m.Scanned))
	}
	if store != nil {
		if _, err := store.Add(out.Matches); err != nil {
			return out, fmt.Errorf("failed to record matches: %w", err)
		}
	}
	return out, nil
}

func runHistory(w io.Writer, store *history.Store, limit int) error {
	records, err := store.List(limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No matches recorded")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n", r.Section, r.SSID, r.Encryption, r.Signal, formatDuration(r.Time))
	}
	return nil
}

// runToggle enables or disables the sections selected by mode, then
// optionally reloads the wireless subsystem and reports its status.
func runToggle(ctx context.Context, w io.Writer, tool *wifi.Tool, mode wifi.TraversalMode, enabled, reload bool) (wifi.Outcome, error) {
	plan := wifi.Plan{ReadConfig: true, Reload: reload, Status: reload}
	switch mode {
	case wifi.TraverseAP:
		plan.AP = &enabled
	default:
		plan.STA = &enabled
	}

	out, err := tool.Run(ctx, plan)
	for _, r := range []*wifi.TraversalReport{out.AP, out.STA} {
		if r != nil {
			fmt.Fprintln(w, formatReport(*r))
		}
	}
	if out.WirelessUp != nil {
		fmt.Fprintln(w, formatStatus(*out.WirelessUp))
	}
	if err != nil {
		return out, fmt.Errorf("failed to update %s sections: %w", mode, err)
	}
	return out, nil
}

func runReload(ctx context.Context, w io.Writer, tool *wifi.Tool) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{Reload: true, Status: true})
	if err != nil {
		return out, fmt.Errorf("failed to reload: %w", err)
	}
	fmt.Fprintln(w, formatStatus(*out.WirelessUp))
	return out, nil
}

func runStatus(ctx context.Context, w io.Writer, tool *wifi.Tool) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{Status: true})
	if err != nil {
		return out, fmt.Errorf("failed to read status: %w", err)
	}
	fmt.Fprintln(w, formatStatus(*out.WirelessUp))
	return out, nil
}

func formatStatus(up bool) string {
	if up {
		return "wireless: up"
	}
	return "wireless: down"
}

// runQR prints a QR code for joining the primary access point.
func runQR(ctx context.Context, w io.Writer, tool *wifi.Tool) (wifi.Outcome, error) {
	out, err := tool.Run(ctx, wifi.Plan{ReadConfig: true})
	if err != nil {
		return out, fmt.Errorf("failed to read configuration: %w", err)
	}
	ap, ok, err := wifi.PrimaryAP(out.Configured, tool.PrimaryAP, tool.StrictAP)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, fmt.Errorf("no access point configured: %w", wifi.ErrNotFound)
	}
	code, err := GenerateWifiQRCode(ap)
	if err != nil {
		return out, fmt.Errorf("failed to generate QR code: %w", err)
	}
	fmt.Fprintf(w, "%s (%s)\n", ap.SSID, ap.Section)
	fmt.Fprint(w, code)
	return out, nil
}
