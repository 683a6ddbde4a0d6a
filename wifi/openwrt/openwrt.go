// Package openwrt implements the wifi backends on top of the OpenWrt command
// line tools: uci for the persisted configuration, iwinfo for scanning, ubus
// for the live status and /sbin/wifi for reloading.
package openwrt

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/shazow/wifiswitch/wifi"
)

const (
	DefaultUCICommand    = "uci"
	DefaultIWInfoCommand = "iwinfo"
	DefaultUbusCommand   = "ubus"
	DefaultReloadCommand = "/sbin/wifi"
	DefaultDevice        = "wlan0"
)

// Options configures New.
type Options struct {
	// Device is the interface to scan on.
	Device string
	// ConfDir overrides the uci configuration directory.
	ConfDir string
	// Radio restricts the status check to one radio, e.g. "radio0".
	Radio string
	// Run replaces command execution, for testing.
	Run Runner
}

// Backend bundles the OpenWrt implementations of every wifi backend interface.
type Backend struct {
	*UCI
	*IWInfo
	*Ubus
	*WifiReloader
}

// New creates a Backend from opts.
func New(opts Options) *Backend {
	return &Backend{
		UCI:          &UCI{ConfDir: opts.ConfDir, Runner: opts.Run},
		IWInfo:       &IWInfo{Device: opts.Device, Runner: opts.Run},
		Ubus:         &Ubus{Radio: opts.Radio, Runner: opts.Run},
		WifiReloader: &WifiReloader{Runner: opts.Run},
	}
}

// UCI implements wifi.ConfigBackend with the uci command line tool.
type UCI struct {
	Command string
	ConfDir string
	Runner  Runner
}

func (u *UCI) command() string {
	if u.Command != "" {
		return u.Command
	}
	return DefaultUCICommand
}

// Open checks that uci is available and returns a session. Changes staged by
// a session stay in the uci delta directory until committed.
func (u *UCI) Open(ctx context.Context) (wifi.ConfigSession, error) {
	if u.Runner == nil {
		if _, err := exec.LookPath(u.command()); err != nil {
			return nil, fmt.Errorf("uci is not available: %w: %w", wifi.ErrBackendInit, err)
		}
	}
	return &uciSession{uci: u}, nil
}

func (u *UCI) run(ctx context.Context, args ...string) ([]byte, error) {
	if u.ConfDir != "" {
		args = append([]string{"-c", u.ConfDir}, args...)
	}
	return run(ctx, u.Runner, u.command(), args...)
}

type uciSession struct {
	uci *UCI

	mu     sync.Mutex
	closed bool
}

func (s *uciSession) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wifi.ErrSessionClosed
	}
	return nil
}

func (s *uciSession) Sections(ctx context.Context, pkg string) ([]wifi.Section, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	out, err := s.uci.run(ctx, "-X", "show", pkg)
	if err != nil {
		if strings.Contains(err.Error(), "Entry not found") {
			return nil, fmt.Errorf("package %s: %w", pkg, wifi.ErrLookup)
		}
		return nil, err
	}
	return parseUCIShow(pkg, string(out))
}

func (s *uciSession) SetOption(ctx context.Context, pkg, section, key, value string) error {
	if err := s.check(); err != nil {
		return err
	}
	_, err := s.uci.run(ctx, "set", fmt.Sprintf("%s.%s.%s=%s", pkg, section, key, value))
	return err
}

func (s *uciSession) Commit(ctx context.Context, pkg string) error {
	if err := s.check(); err != nil {
		return err
	}
	_, err := s.uci.run(ctx, "commit", pkg)
	return err
}

func (s *uciSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// IWInfo implements wifi.ScanBackend with `iwinfo <device> scan`.
type IWInfo struct {
	Command string
	Device  string
	Runner  Runner
}

// Scan runs a scan on the configured device.
func (i *IWInfo) Scan(ctx context.Context) ([]wifi.Network, error) {
	command := i.Command
	if command == "" {
		command = DefaultIWInfoCommand
	}
	device := i.Device
	if device == "" {
		device = DefaultDevice
	}
	out, err := run(ctx, i.Runner, command, device, "scan")
	if err != nil {
		return nil, err
	}
	return parseIWInfoScan(string(out)), nil
}

// Ubus implements wifi.StatusBackend with `ubus call network.wireless status`.
type Ubus struct {
	Command string
	Radio   string
	Runner  Runner
}

// WirelessUp reports whether the radio (or any radio) is up.
func (u *Ubus) WirelessUp(ctx context.Context) (bool, error) {
	command := u.Command
	if command == "" {
		command = DefaultUbusCommand
	}
	out, err := run(ctx, u.Runner, command, "call", "network.wireless", "status")
	if err != nil {
		return false, err
	}
	return parseWirelessStatus(out, u.Radio)
}

// WifiReloader implements wifi.Reloader by running /sbin/wifi.
type WifiReloader struct {
	Command string
	Args    []string
	Runner  Runner
}

// Reload starts the reload. It does not wait for the radios to come back.
func (w *WifiReloader) Reload(ctx context.Context) error {
	command := w.Command
	if command == "" {
		command = DefaultReloadCommand
	}
	_, err := run(ctx, w.Runner, command, w.Args...)
	return err
}
