package wifi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSettle is how long the radio hardware takes to come back after a
// reload.
const DefaultSettle = 10 * time.Second

// Step names one stage of a Plan.
type Step string

const (
	StepScan       Step = "scan"
	StepReadConfig Step = "read-config"
	StepMatch      Step = "match"
	StepAP         Step = "ap"
	StepSTA        Step = "sta"
	StepReload     Step = "reload"
	StepStatus     Step = "status"
)

// Steps lists every step in the order Tool.Run performs them.
var Steps = []Step{StepScan, StepReadConfig, StepMatch, StepAP, StepSTA, StepReload, StepStatus}

// Plan selects which steps Tool.Run performs. Nil AP or STA leaves that
// section kind untouched; otherwise the value is the desired enabled state.
type Plan struct {
	Scan       bool
	ReadConfig bool
	Match      bool
	AP         *bool
	STA        *bool
	Reload     bool
	Status     bool
}

// Outcome collects the results of the steps that succeeded.
type Outcome struct {
	Scanned    []Network
	Configured []Network
	Matches    []Match
	AP         *TraversalReport
	STA        *TraversalReport
	WirelessUp *bool
}

// Tool drives the backends: it scans, reads the configuration, reports which
// configured networks are visible and enables or disables sections.
//
// Operations are serialized; a Tool is safe to share between goroutines but
// never runs two backend operations at once.
type Tool struct {
	Config   ConfigBackend
	Scanner  ScanBackend
	Status   StatusBackend
	Reloader Reloader

	// Settle is the wait after a reload. Zero means DefaultSettle; a negative
	// value disables the wait.
	Settle time.Duration

	PrimaryAP string
	StrictAP  bool

	Logger *slog.Logger

	mu         sync.Mutex
	scanList   []Network
	configList []Network
}

func (t *Tool) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// ScanList returns a copy of the networks found by the last scan.
func (t *Tool) ScanList() []Network {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Network(nil), t.scanList...)
}

// ConfigList returns a copy of the networks read by the last ReadConfig.
func (t *Tool) ConfigList() []Network {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Network(nil), t.configList...)
}

// Scan replaces the scan list with a fresh scan.
func (t *Tool) Scan(ctx context.Context) ([]Network, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scan(ctx)
}

func (t *Tool) scan(ctx context.Context) ([]Network, error) {
	if t.Scanner == nil {
		return nil, fmt.Errorf("no scan backend: %w", ErrBackendInit)
	}
	t.logger().Info("scanning for available networks")
	// A failed scan leaves no scan list behind.
	t.scanList = nil
	networks, err := t.Scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	t.scanList = networks
	t.logger().Debug("scan finished", "count", len(networks))
	return append([]Network(nil), networks...), nil
}

// ReadConfig replaces the config list with the wifi-iface sections of the
// wireless package.
func (t *Tool) ReadConfig(ctx context.Context) ([]Network, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readConfig(ctx)
}

func (t *Tool) readConfig(ctx context.Context) (networks []Network, err error) {
	if t.Config == nil {
		return nil, fmt.Errorf("no configuration backend: %w", ErrBackendInit)
	}
	log := t.logger()
	log.Info("reading configured networks")
	t.configList = nil

	session, err := t.Config.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open configuration: %w: %w", ErrBackendInit, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close configuration: %w", cerr))
		}
	}()

	sections, err := session.Sections(ctx, WirelessPackage)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", WirelessPackage, err)
	}
	networks = ParseSections(sections)
	for _, n := range networks {
		log.Debug("configured network", "section", n.Section, "ssid", n.SSID, "mode", n.Mode, "encryption", n.Encryption, "disabled", n.Disabled)
	}
	t.configList = networks
	log.Debug("configuration read", "count", len(networks))
	return append([]Network(nil), networks...), nil
}

// CheckConfigured reports which configured networks were seen by the last scan.
func (t *Tool) CheckConfigured(ctx context.Context) ([]Match, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger().Info("checking for available configured networks")
	return Reconcile(t.configList, t.scanList)
}

// SetAPEnabled enables or disables the primary access point.
func (t *Tool) SetAPEnabled(ctx context.Context, enabled bool) (TraversalReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.traverse(ctx, TraverseAP, enabled)
}

// SetAllSTAEnabled enables or disables every station section.
func (t *Tool) SetAllSTAEnabled(ctx context.Context, enabled bool) (TraversalReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.traverse(ctx, TraverseAllSTA, enabled)
}

func (t *Tool) traverse(ctx context.Context, mode TraversalMode, enabled bool) (TraversalReport, error) {
	verb := "disabling"
	if enabled {
		verb = "enabling"
	}
	t.logger().Info(verb+" networks", "mode", mode.String())

	if t.Config == nil {
		return TraversalReport{Mode: mode, Disabled: !enabled}, fmt.Errorf("no configuration backend: %w", ErrBackendInit)
	}
	tr := Traversal{
		Backend:   t.Config,
		PrimaryAP: t.PrimaryAP,
		StrictAP:  t.StrictAP,
		Logger:    t.Logger,
	}
	return tr.Run(ctx, mode, t.configList, !enabled)
}

// Reload restarts the wireless subsystem and waits for it to settle.
func (t *Tool) Reload(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reload(ctx)
}

func (t *Tool) reload(ctx context.Context) error {
	if t.Reloader == nil {
		return fmt.Errorf("no reloader: %w", ErrNotSupported)
	}
	t.logger().Info("reloading wireless")
	if err := t.Reloader.Reload(ctx); err != nil {
		return err
	}

	settle := t.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	if settle < 0 {
		return nil
	}
	t.logger().Debug("waiting for wireless to settle", "duration", settle)
	timer := time.NewTimer(settle)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WirelessUp queries whether the wireless subsystem is up.
func (t *Tool) WirelessUp(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wirelessUp(ctx)
}

func (t *Tool) wirelessUp(ctx context.Context) (bool, error) {
	if t.Status == nil {
		return false, fmt.Errorf("no status backend: %w", ErrNotSupported)
	}
	t.logger().Info("checking wireless status")
	up, err := t.Status.WirelessUp(ctx)
	if err != nil {
		return false, err
	}
	t.logger().Info("wireless status", "up", up)
	return up, nil
}

// Run performs the steps of the plan in order: scan, read-config, match, ap,
// sta, reload, status.
//
// A failing step does not stop the plan, but steps that depend on it are
// skipped: match needs both lists, and the traversals need the configuration.
// Every failure is returned as a *StepError joined into one error.
func (t *Tool) Run(ctx context.Context, p Plan) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out Outcome
	var errs []error
	fail := func(step Step, err error) {
		t.logger().Error("step failed", "step", string(step), "error", err)
		errs = append(errs, &StepError{Step: step, Err: err})
	}

	scanOK, configOK := !p.Scan, !p.ReadConfig
	if p.Scan {
		networks, err := t.scan(ctx)
		if err != nil {
			fail(StepScan, err)
		} else {
			out.Scanned = networks
			scanOK = true
		}
	}
	if p.ReadConfig {
		networks, err := t.readConfig(ctx)
		if err != nil {
			fail(StepReadConfig, err)
		} else {
			out.Configured = networks
			configOK = true
		}
	}
	if p.Match && scanOK && configOK {
		t.logger().Info("checking for available configured networks")
		matches, err := Reconcile(t.configList, t.scanList)
		if err != nil {
			fail(StepMatch, err)
		} else {
			out.Matches = matches
		}
	}
	if p.AP != nil && configOK {
		report, err := t.traverse(ctx, TraverseAP, *p.AP)
		out.AP = &report
		if err != nil {
			fail(StepAP, err)
		}
	}
	if p.STA != nil && configOK {
		report, err := t.traverse(ctx, TraverseAllSTA, *p.STA)
		out.STA = &report
		if err != nil {
			fail(StepSTA, err)
		}
	}
	if p.Reload {
		if err := t.reload(ctx); err != nil {
			fail(StepReload, err)
		}
	}
	if p.Status {
		up, err := t.wirelessUp(ctx)
		if err != nil {
			fail(StepStatus, err)
		} else {
			out.WirelessUp = &up
		}
	}

	return out, errors.Join(errs...)
}
