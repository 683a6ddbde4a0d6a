package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ScanOff  = 0
	ScanSlow = 30 * time.Second
)

// ScanSchedule triggers scans at a regular interval.
type ScanSchedule struct {
	callback func() tea.Msg
	interval time.Duration
	// generation invalidates ticks from a previous schedule.
	generation int
}

// NewScanSchedule creates a new ScanSchedule.
func NewScanSchedule(callback func() tea.Msg) *ScanSchedule {
	return &ScanSchedule{
		callback: callback,
	}
}

// Enabled reports whether scans are scheduled.
func (s *ScanSchedule) Enabled() bool {
	return s.interval != ScanOff
}

// Toggle enables or disables the scan schedule.
func (s *ScanSchedule) Toggle(interval time.Duration) (bool, tea.Cmd) {
	if s.Enabled() {
		return false, s.SetSchedule(ScanOff)
	}
	return true, s.SetSchedule(interval)
}

// SetSchedule sets the scan interval.
func (s *ScanSchedule) SetSchedule(interval time.Duration) tea.Cmd {
	isStarting := s.interval == ScanOff && interval != ScanOff
	s.interval = interval

	if isStarting {
		s.generation++
		return tea.Batch(s.callback, s.tick())
	}
	return nil
}

// Update handles messages for the ScanSchedule.
func (s *ScanSchedule) Update(msg tea.Msg) tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.generation != s.generation {
			return nil
		}
		return tea.Batch(s.callback, s.tick())
	}
	return nil
}

// internal message to trigger a tick
type tickMsg struct{ generation int }

func (s *ScanSchedule) tick() tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}
	generation := s.generation
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}
