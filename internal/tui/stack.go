package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifiswitch/internal/log"
	"github.com/shazow/wifiswitch/wifi"
)

//- Messages for stack navigation ----------------------------------------------

// PushMsg is a message to push a new view onto the stack.
type PushMsg struct{ Model tea.Model }

// PopMsg is a message to pop a view from the stack.
type PopMsg struct{}

//- Messages for global state --------------------------------------------------

// SetStatusMsg is a message to set the status message on the root model.
type SetStatusMsg string

// SetLoadingMsg is a message to control the loading spinner on the root model.
type SetLoadingMsg struct {
	Loading bool
	Message string
}

// ShowErrorMsg is a message to show the error view.
type ShowErrorMsg struct{ Err error }

//- The stack model ------------------------------------------------------------

// Stack is a tea.Model that manages a stack of other tea.Models. The bottom
// view is the network list; it also receives results while covered.
type Stack struct {
	views         []tea.Model
	tool          *wifi.Tool
	onOutcome     func(wifi.Outcome, error)
	spinner       spinner.Model
	loading       bool
	statusMessage string
	width, height int
}

// NewStack creates a new stack with an initial view.
func NewStack(tool *wifi.Tool, initialView tea.Model, onOutcome func(wifi.Outcome, error)) *Stack {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	if onOutcome == nil {
		onOutcome = func(wifi.Outcome, error) {}
	}

	return &Stack{
		tool:          tool,
		onOutcome:     onOutcome,
		views:         []tea.Model{initialView},
		spinner:       s,
		loading:       true,
		statusMessage: "Reading configuration...",
	}
}

// Init initializes the model at the top of the stack and loads the
// configuration.
func (s *Stack) Init() tea.Cmd {
	cmds := []tea.Cmd{s.spinner.Tick, loadConfig(s.tool, s.onOutcome)}
	if s.Top() != nil {
		cmds = append(cmds, s.Top().Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the stack.
func (s *Stack) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	// Handle stack-specific messages
	case PopMsg:
		s.Pop()
		if s.Top() == nil {
			return s, tea.Quit
		}
		return s, nil
	case PushMsg:
		s.Push(msg.Model)
		return s, s.Top().Init()

	// Handle global state messages
	case SetStatusMsg:
		s.statusMessage = string(msg)
		s.loading = false
		return s, nil
	case SetLoadingMsg:
		s.loading = msg.Loading
		s.statusMessage = msg.Message
		return s, nil
	case ShowErrorMsg:
		s.loading = false
		s.statusMessage = ""
		s.Push(NewErrorModel(msg.Err))
		return s, nil
	case errorMsg:
		s.loading = false
		s.statusMessage = ""
		s.Push(NewErrorModel(msg.err))
		return s, nil

	// Requests from views
	case scanMsg:
		s.loading = true
		s.statusMessage = "Scanning for networks..."
		return s, scanNetworks(s.tool, s.onOutcome)
	case toggleMsg:
		s.loading = true
		verb := "Disabling"
		if msg.enabled {
			verb = "Enabling"
		}
		s.statusMessage = fmt.Sprintf("%s %s sections...", verb, msg.mode)
		return s, toggle(s.tool, msg.mode, msg.enabled, s.onOutcome)
	case reloadMsg:
		s.loading = true
		s.statusMessage = "Reloading wireless..."
		return s, reload(s.tool, s.onOutcome)
	case showLogsMsg:
		s.Push(NewLogViewModel())
		return s, nil
	case wifilog.LogMsg:
		// Nothing to update; the log view reads the records on render.
		return s, nil

	// Results are delivered to the list even when it is covered.
	case configLoadedMsg:
		s.loading = false
		s.statusMessage = fmt.Sprintf("%d sections, %d in range", len(msg.configured), len(msg.matches))
		return s, s.updateRoot(msg)
	case scanFinishedMsg:
		s.loading = false
		s.statusMessage = fmt.Sprintf("%d networks visible, %d configured in range", len(msg.scanned), len(msg.matches))
		return s, s.updateRoot(msg)
	case toggledMsg:
		s.loading = false
		s.statusMessage = fmt.Sprintf("Updated %d sections", len(msg.report.Mutated))
		return s, s.updateRoot(msg)
	case reloadedMsg:
		s.loading = false
		if msg.up {
			s.statusMessage = "Wireless reloaded, radio is up"
		} else {
			s.statusMessage = "Wireless reloaded, radio is down"
		}
		return s, nil
	case tickMsg:
		return s, s.updateRoot(msg)

	// Handle window size messages
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		// Propagate the window size message to all views on the stack
		for i, view := range s.views {
			updatedView, cmd := view.Update(msg)
			s.views[i] = updatedView
			cmds = append(cmds, cmd)
		}
		return s, tea.Batch(cmds...)
	}

	// Delegate all other messages to the top view
	if s.Top() != nil {
		var cmd tea.Cmd
		var model tea.Model
		model, cmd = s.Top().Update(msg)
		s.views[len(s.views)-1] = model
		cmds = append(cmds, cmd)
	}

	// Always update the spinner
	var spinCmd tea.Cmd
	s.spinner, spinCmd = s.spinner.Update(msg)
	cmds = append(cmds, spinCmd)

	return s, tea.Batch(cmds...)
}

func (s *Stack) updateRoot(msg tea.Msg) tea.Cmd {
	if len(s.views) == 0 {
		return nil
	}
	var cmd tea.Cmd
	s.views[0], cmd = s.views[0].Update(msg)
	return cmd
}

// View renders the view at the top of the stack.
func (s *Stack) View() string {
	var view strings.Builder
	if s.Top() != nil {
		view.WriteString(s.Top().View())
	}

	// Render global status/loading bar
	if s.loading {
		view.WriteString(fmt.Sprintf("\n\n%s %s", s.spinner.View(), lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(s.statusMessage)))
	} else if s.statusMessage != "" {
		view.WriteString(fmt.Sprintf("\n\n%s", lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(s.statusMessage)))
	}

	return view.String()
}

// Push adds a view to the top of the stack.
func (s *Stack) Push(v tea.Model) {
	s.views = append(s.views, v)
}

// Pop removes and returns the view from the top of the stack.
func (s *Stack) Pop() tea.Model {
	if len(s.views) == 0 {
		return nil
	}
	v := s.views[len(s.views)-1]
	s.views = s.views[:len(s.views)-1]
	return v
}

// Top returns the view at the top of the stack without removing it.
func (s *Stack) Top() tea.Model {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[len(s.views)-1]
}
