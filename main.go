package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/shazow/wifiswitch/internal/history"
	wifilog "github.com/shazow/wifiswitch/internal/log"
	"github.com/shazow/wifiswitch/internal/telemetry"
	"github.com/shazow/wifiswitch/internal/tui"
	"github.com/shazow/wifiswitch/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// main is the entry point of the application
func main() {
	var (
		rootFlagSet = flag.NewFlagSet("wifiswitch", flag.ExitOnError)
		backendKind = rootFlagSet.String("backend", backendOpenWrt, "scan and status backend: openwrt, networkmanager or iwd")
		device      = rootFlagSet.String("device", "", "wireless interface to scan on (default: wlan0 for openwrt, the first wireless device otherwise)")
		confDir     = rootFlagSet.String("uci-confdir", "", "uci configuration directory (default: uci's own)")
		radio       = rootFlagSet.String("radio", "", "radio checked by status, e.g. radio0 (default: any)")
		primaryAP   = rootFlagSet.String("primary-ap", "", "section name of the access point to toggle (default: the first)")
		strictAP    = rootFlagSet.Bool("strict-ap", false, "fail when more than one access point is configured")
		settle      = rootFlagSet.Duration("settle", wifi.DefaultSettle, "wait after a reload for the radio to come back, negative to skip")
		historyPath = rootFlagSet.String("history", "", "path to the match history database")
		textfile    = rootFlagSet.String("textfile", "", "write prometheus metrics to this file after every command")
		theme       = rootFlagSet.String("theme", "", "path to theme toml file")
		logLevel    = rootFlagSet.String("log-level", "info", "log level: debug, info, warn or error")
		version     = rootFlagSet.Bool("version", false, "display version")
		_           = rootFlagSet.String("config", "", "config file with one flag per line")
	)

	var (
		tool    *wifi.Tool
		metrics = telemetry.New()
		level   slog.Level
	)

	// finish exports the outcome of a command.
	finish := func(out wifi.Outcome, err error) error {
		metrics.Observe(out, err, time.Now())
		if *textfile != "" {
			if werr := metrics.WriteTextfile(*textfile); werr != nil {
				slog.Warn("failed to write metrics", "path", *textfile, "error", werr)
			}
		}
		return err
	}

	openHistory := func() (*history.Store, error) {
		if *historyPath == "" {
			return nil, nil
		}
		return history.Open(*historyPath)
	}

	runTUI := func(autoScan time.Duration) error {
		// The dashboard owns the terminal; logs are kept for the log view only.
		wifilog.Init(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}))

		store, err := openHistory()
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		if store != nil {
			defer store.Close()
		}
		return tui.Run(tool, tui.Options{
			AutoScan: autoScan,
			OnOutcome: func(out wifi.Outcome, err error) {
				finish(out, err)
				if store == nil || out.Scanned == nil || len(out.Matches) == 0 {
					return
				}
				if _, err := store.Add(out.Matches); err != nil {
					slog.Error("failed to record matches", "error", err)
				}
			},
		})
	}

	scanCmd := &ffcli.Command{
		Name:       "scan",
		ShortUsage: "wifiswitch scan",
		ShortHelp:  "List the networks in range",
		Exec: func(ctx context.Context, args []string) error {
			return finish(runScan(ctx, os.Stdout, tool))
		},
	}

	listCmd := &ffcli.Command{
		Name:       "list",
		ShortUsage: "wifiswitch list",
		ShortHelp:  "List the configured wireless sections",
		Exec: func(ctx context.Context, args []string) error {
			return finish(runList(ctx, os.Stdout, tool))
		},
	}

	matchFlagSet := flag.NewFlagSet("match", flag.ExitOnError)
	matchRecord := matchFlagSet.Bool("record", false, "record the matches in the history database")
	matchCmd := &ffcli.Command{
		Name:       "match",
		ShortUsage: "wifiswitch match [-record]",
		ShortHelp:  "Report which configured networks are in range",
		FlagSet:    matchFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			var store *history.Store
			if *matchRecord {
				if *historyPath == "" {
					return errors.New("-record requires -history")
				}
				s, err := openHistory()
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				defer s.Close()
				store = s
			}
			return finish(runMatch(ctx, os.Stdout, tool, store))
		},
	}

	historyFlagSet := flag.NewFlagSet("history", flag.ExitOnError)
	historyLimit := historyFlagSet.Int("limit", 20, "number of records to show, 0 for all")
	historyCmd := &ffcli.Command{
		Name:       "history",
		ShortUsage: "wifiswitch -history <path> history [-limit n]",
		ShortHelp:  "List the recorded matches, newest first",
		FlagSet:    historyFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if *historyPath == "" {
				return errors.New("history requires -history")
			}
			store, err := openHistory()
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()
			return runHistory(os.Stdout, store, *historyLimit)
		},
	}

	toggleCmd := func(name string, mode wifi.TraversalMode, help string) *ffcli.Command {
		fs := flag.NewFlagSet(name, flag.ExitOnError)
		reload := fs.Bool("reload", false, "reload the wireless subsystem afterwards")
		return &ffcli.Command{
			Name:       name,
			ShortUsage: fmt.Sprintf("wifiswitch %s [-reload] enable|disable", name),
			ShortHelp:  help,
			FlagSet:    fs,
			Exec: func(ctx context.Context, args []string) error {
				enabled, err := parseState(args)
				if err != nil {
					return err
				}
				return finish(runToggle(ctx, os.Stdout, tool, mode, enabled, *reload))
			},
		}
	}

	reloadCmd := &ffcli.Command{
		Name:       "reload",
		ShortUsage: "wifiswitch reload",
		ShortHelp:  "Reload the wireless subsystem and report its status",
		Exec: func(ctx context.Context, args []string) error {
			return finish(runReload(ctx, os.Stdout, tool))
		},
	}

	statusCmd := &ffcli.Command{
		Name:       "status",
		ShortUsage: "wifiswitch status",
		ShortHelp:  "Report whether the wireless subsystem is up",
		Exec: func(ctx context.Context, args []string) error {
			return finish(runStatus(ctx, os.Stdout, tool))
		},
	}

	qrCmd := &ffcli.Command{
		Name:       "qr",
		ShortUsage: "wifiswitch qr",
		ShortHelp:  "Show a QR code for joining the access point",
		Exec: func(ctx context.Context, args []string) error {
			return finish(runQR(ctx, os.Stdout, tool))
		},
	}

	tuiFlagSet := flag.NewFlagSet("tui", flag.ExitOnError)
	tuiAutoScan := tuiFlagSet.Duration("autoscan", 0, "scan at this interval from the start, e.g. 30s")
	tuiCmd := &ffcli.Command{
		Name:       "tui",
		ShortUsage: "wifiswitch tui [-autoscan interval]",
		ShortHelp:  "Open the dashboard (default)",
		FlagSet:    tuiFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			return runTUI(*tuiAutoScan)
		},
	}

	root := &ffcli.Command{
		ShortUsage: "wifiswitch [flags] <subcommand> [args...]",
		FlagSet:    rootFlagSet,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("WIFISWITCH"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
		},
		Subcommands: []*ffcli.Command{
			scanCmd,
			listCmd,
			matchCmd,
			historyCmd,
			toggleCmd("ap", wifi.TraverseAP, "Enable or disable the access point"),
			toggleCmd("sta", wifi.TraverseAllSTA, "Enable or disable every station uplink"),
			reloadCmd,
			statusCmd,
			qrCmd,
			tuiCmd,
		},
		Exec: func(ctx context.Context, args []string) error {
			return runTUI(0)
		},
	}

	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	wifilog.Init(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := tui.LoadThemeFile(*theme); err != nil {
		fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
		os.Exit(1)
	}

	b, err := GetBackend(backendOptions{
		Kind:    *backendKind,
		Device:  *device,
		ConfDir: *confDir,
		Radio:   *radio,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
	tool = b.tool()
	tool.Settle = *settle
	tool.PrimaryAP = *primaryAP
	tool.StrictAP = *strictAP

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = root.Run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
