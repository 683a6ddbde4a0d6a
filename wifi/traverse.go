package wifi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// TraversalMode selects which configured sections a Traversal mutates.
type TraversalMode int

const (
	// TraverseAP updates the primary access point only.
	TraverseAP TraversalMode = iota
	// TraverseAllSTA updates every station section.
	TraverseAllSTA
)

func (m TraversalMode) String() string {
	switch m {
	case TraverseAP:
		return "ap"
	case TraverseAllSTA:
		return "all-sta"
	default:
		return fmt.Sprintf("TraversalMode(%d)", int(m))
	}
}

// TraversalReport summarizes a Traversal run.
type TraversalReport struct {
	Mode     TraversalMode
	Disabled bool

	Targeted  []string
	Mutated   []string
	Failed    []string
	Committed bool
}

// Traversal applies a disabled flag across configured networks and commits the
// result.
type Traversal struct {
	Backend ConfigBackend

	// PrimaryAP and StrictAP pick the access point for TraverseAP. See PrimaryAP.
	PrimaryAP string
	StrictAP  bool

	Logger *slog.Logger
}

func (t *Traversal) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// targets returns the sections the mode applies to, in list order.
func (t *Traversal) targets(mode TraversalMode, networks []Network) ([]Network, error) {
	switch mode {
	case TraverseAP:
		ap, ok, err := PrimaryAP(networks, t.PrimaryAP, t.StrictAP)
		if err != nil || !ok {
			return nil, err
		}
		return []Network{ap}, nil
	case TraverseAllSTA:
		var stas []Network
		for _, n := range networks {
			if n.Mode == ModeSTA {
				stas = append(stas, n)
			}
		}
		return stas, nil
	default:
		return nil, fmt.Errorf("traversal mode %s: %w", mode, ErrNotSupported)
	}
}

// Run sets the disabled option of every section selected by mode.
//
// The backend session is held for the whole pass and released on every return
// path. A failing section does not stop the pass. When at least one section was
// targeted, the wireless package is committed exactly once afterwards. An empty
// pass touches nothing and succeeds.
func (t *Traversal) Run(ctx context.Context, mode TraversalMode, networks []Network, disabled bool) (report TraversalReport, err error) {
	report = TraversalReport{Mode: mode, Disabled: disabled}
	log := t.logger().With("mode", mode.String(), "disabled", disabled)

	targets, err := t.targets(mode, networks)
	if err != nil {
		return report, err
	}

	session, err := t.Backend.Open(ctx)
	if err != nil {
		return report, fmt.Errorf("open configuration: %w: %w", ErrBackendInit, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close configuration: %w", cerr))
		}
	}()

	var errs []error
	for _, n := range targets {
		report.Targeted = append(report.Targeted, n.Section)
		serr := session.SetOption(ctx, WirelessPackage, n.Section, "disabled", formatBool(disabled))
		log.Debug("set section disabled", "section", n.Section, "ssid", n.SSID, "error", serr)
		if serr != nil {
			report.Failed = append(report.Failed, n.Section)
			errs = append(errs, &MutationError{Section: n.Section, Err: serr})
			continue
		}
		report.Mutated = append(report.Mutated, n.Section)
	}

	if len(report.Targeted) == 0 {
		log.Info("no sections to update")
		return report, nil
	}

	if cerr := session.Commit(ctx, WirelessPackage); cerr != nil {
		errs = append(errs, fmt.Errorf("commit %s: %w", WirelessPackage, cerr))
	} else {
		report.Committed = true
	}
	log.Info("traversal finished", "mutated", len(report.Mutated), "failed", len(report.Failed), "committed", report.Committed)

	return report, errors.Join(errs...)
}
