package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifiswitch/wifi"
	"github.com/shazow/wifiswitch/wifi/mock"
)

func newTestTool() (*wifi.Tool, *mock.Backend) {
	b := mock.New()
	b.ActionSleep = 0
	return &wifi.Tool{Config: b, Scanner: b, Status: b, Reloader: b, Settle: -1}, b
}

// run executes cmd and feeds its message back into the stack.
func run(t *testing.T, s *Stack, cmd tea.Cmd) *Stack {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	updated, _ := s.Update(cmd())
	return updated.(*Stack)
}

func TestStack_LoadScanToggle(t *testing.T) {
	tool, b := newTestTool()

	var outcomes []wifi.Outcome
	s := NewModel(tool, Options{OnOutcome: func(o wifi.Outcome, err error) { outcomes = append(outcomes, o) }})
	updated, _ := s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	s = updated.(*Stack)

	s = run(t, s, loadConfig(tool, s.onOutcome))
	view := s.View()
	for _, want := range []string{"Omega-ABCD", "HideYoKidsHideYoWiFi", "4 sections"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q in\n%s", want, view)
		}
	}

	updated, cmd := s.Update(scanMsg{})
	s = updated.(*Stack)
	s = run(t, s, cmd)
	if !strings.Contains(s.View(), "2 configured in range") {
		t.Errorf("expected two matches after a scan in\n%s", s.View())
	}

	updated, cmd = s.Update(toggleMsg{mode: wifi.TraverseAllSTA, enabled: true})
	s = updated.(*Stack)
	s = run(t, s, cmd)
	if !strings.Contains(s.View(), "Updated 3 sections") {
		t.Errorf("expected toggle status in\n%s", s.View())
	}
	if v, _ := b.Option(wifi.WirelessPackage, "sta_home", "disabled"); v != "0" {
		t.Errorf("expected sta_home to be enabled, got disabled=%q", v)
	}

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[2].STA == nil || len(outcomes[2].STA.Mutated) != 3 {
		t.Errorf("expected the STA report in the last outcome, got %+v", outcomes[2])
	}
}

func TestStack_ErrorView(t *testing.T) {
	tool, b := newTestTool()
	b.OpenError = errors.New("uci exploded")

	s := NewModel(tool, Options{})
	s = run(t, s, loadConfig(tool, s.onOutcome))

	if _, ok := s.Top().(*ErrorModel); !ok {
		t.Fatalf("expected the error view on top, got %T", s.Top())
	}
	if !strings.Contains(s.View(), "uci exploded") {
		t.Errorf("expected the error in\n%s", s.View())
	}

	// Any key dismisses it.
	updated, cmd := s.Update(keyPress("x"))
	s = updated.(*Stack)
	s = run(t, s, cmd)
	if _, ok := s.Top().(*ListModel); !ok {
		t.Errorf("expected the list after dismissing, got %T", s.Top())
	}
}

func TestStack_ResultsReachCoveredList(t *testing.T) {
	tool, _ := newTestTool()
	s := NewModel(tool, Options{})

	updated, _ := s.Update(showLogsMsg{})
	s = updated.(*Stack)
	if _, ok := s.Top().(*LogViewModel); !ok {
		t.Fatalf("expected the log view on top, got %T", s.Top())
	}

	s = run(t, s, loadConfig(tool, s.onOutcome))
	list := s.views[0].(*ListModel)
	if len(list.list.Items()) != 4 {
		t.Errorf("expected the covered list to be updated, got %d items", len(list.list.Items()))
	}
}

func TestStack_Reload(t *testing.T) {
	tool, b := newTestTool()
	s := NewModel(tool, Options{})

	updated, cmd := s.Update(reloadMsg{})
	s = updated.(*Stack)
	s = run(t, s, cmd)

	if b.Reloads != 1 {
		t.Errorf("expected 1 reload, got %d", b.Reloads)
	}
	if !strings.Contains(s.View(), "radio is up") {
		t.Errorf("expected reload status in\n%s", s.View())
	}
}
