// Package tui is a terminal dashboard over a wifi.Tool: configured sections,
// which of them are in range, and keys to toggle them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	wifilog "github.com/shazow/wifiswitch/internal/log"
	"github.com/shazow/wifiswitch/wifi"
)

// Options configures Run.
type Options struct {
	// AutoScan starts the periodic scan at this interval. Zero starts with it
	// off; it can still be toggled with 'A'.
	AutoScan time.Duration
	// OnOutcome is called with the outcome of every operation, e.g. to persist
	// matches or export metrics.
	OnOutcome func(wifi.Outcome, error)
}

// Bubbletea messages are used to communicate between the stack and commands.
type (
	// From the tool
	configLoadedMsg struct {
		configured []wifi.Network
		matches    []wifi.Match
	}
	scanFinishedMsg struct {
		scanned []wifi.Network
		matches []wifi.Match
	}
	toggledMsg struct {
		report     *wifi.TraversalReport
		configured []wifi.Network
		matches    []wifi.Match
	}
	reloadedMsg struct{ up bool }
	errorMsg    struct{ err error }

	// To the stack
	scanMsg   struct{}
	toggleMsg struct {
		mode    wifi.TraversalMode
		enabled bool
	}
	reloadMsg   struct{}
	showLogsMsg struct{}
)

// --- Commands that interact with the tool ---

// currentMatches reconciles the cached lists, treating missing data as no
// matches.
func currentMatches(ctx context.Context, tool *wifi.Tool) ([]wifi.Match, error) {
	matches, err := tool.CheckConfigured(ctx)
	if errors.Is(err, wifi.ErrNoData) {
		return nil, nil
	}
	return matches, err
}

func loadConfig(tool *wifi.Tool, report func(wifi.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		configured, err := tool.ReadConfig(ctx)
		if err != nil {
			report(wifi.Outcome{}, &wifi.StepError{Step: wifi.StepReadConfig, Err: err})
			return errorMsg{fmt.Errorf("failed to read configuration: %w", err)}
		}
		matches, err := currentMatches(ctx, tool)
		report(wifi.Outcome{Configured: configured, Matches: matches}, err)
		if err != nil {
			return errorMsg{err}
		}
		return configLoadedMsg{configured: configured, matches: matches}
	}
}

func scanNetworks(tool *wifi.Tool, report func(wifi.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		scanned, err := tool.Scan(ctx)
		if err != nil {
			report(wifi.Outcome{}, &wifi.StepError{Step: wifi.StepScan, Err: err})
			return errorMsg{fmt.Errorf("failed to scan: %w", err)}
		}
		matches, err := currentMatches(ctx, tool)
		report(wifi.Outcome{Scanned: scanned, Matches: matches}, err)
		if err != nil {
			return errorMsg{err}
		}
		return scanFinishedMsg{scanned: scanned, matches: matches}
	}
}

func toggle(tool *wifi.Tool, mode wifi.TraversalMode, enabled bool, report func(wifi.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			r    wifi.TraversalReport
			err  error
			out  wifi.Outcome
			step wifi.Step
		)
		switch mode {
		case wifi.TraverseAP:
			r, err = tool.SetAPEnabled(ctx, enabled)
			out.AP, step = &r, wifi.StepAP
		default:
			r, err = tool.SetAllSTAEnabled(ctx, enabled)
			out.STA, step = &r, wifi.StepSTA
		}
		if err != nil {
			report(out, &wifi.StepError{Step: step, Err: err})
			return errorMsg{fmt.Errorf("failed to update %s sections: %w", mode, err)}
		}

		configured, err := tool.ReadConfig(ctx)
		if err != nil {
			report(out, &wifi.StepError{Step: wifi.StepReadConfig, Err: err})
			return errorMsg{fmt.Errorf("failed to read configuration: %w", err)}
		}
		out.Configured = configured
		matches, err := currentMatches(ctx, tool)
		out.Matches = matches
		report(out, err)
		return toggledMsg{report: &r, configured: configured, matches: matches}
	}
}

func reload(tool *wifi.Tool, report func(wifi.Outcome, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := tool.Reload(ctx); err != nil {
			report(wifi.Outcome{}, &wifi.StepError{Step: wifi.StepReload, Err: err})
			return errorMsg{fmt.Errorf("failed to reload: %w", err)}
		}
		up, err := tool.WirelessUp(ctx)
		if err != nil {
			report(wifi.Outcome{}, &wifi.StepError{Step: wifi.StepStatus, Err: err})
			return errorMsg{fmt.Errorf("failed to read status: %w", err)}
		}
		report(wifi.Outcome{WirelessUp: &up}, nil)
		return reloadedMsg{up: up}
	}
}

// NewModel creates the root model for tool.
func NewModel(tool *wifi.Tool, opts Options) *Stack {
	schedule := NewScanSchedule(func() tea.Msg { return scanMsg{} })
	list := NewListModel(schedule, opts.AutoScan)
	list.primaryAP, list.strictAP = tool.PrimaryAP, tool.StrictAP
	return NewStack(tool, list, opts.OnOutcome)
}

// Run runs the dashboard until the user quits.
func Run(tool *wifi.Tool, opts Options) error {
	m := NewModel(tool, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	logs := make(chan tea.Msg, 16)
	done := make(chan struct{})
	wifilog.SetOutput(logs)
	defer func() {
		wifilog.SetOutput(nil)
		close(done)
	}()
	go func() {
		for {
			select {
			case msg := <-logs:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
