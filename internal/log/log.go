package log

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultKeep is how many records a RecordHandler remembers.
const DefaultKeep = 50

// RecordHandler is a slog.Handler that remembers the most recent records and
// optionally forwards them to a tea.Program.
type RecordHandler struct {
	slog.Handler
	keep int

	mu   *sync.Mutex
	ch   *chan<- tea.Msg
	logs *[]slog.Record
}

// NewRecordHandler wraps handler, keeping the last keep records.
func NewRecordHandler(handler slog.Handler, keep int) *RecordHandler {
	if keep <= 0 {
		keep = DefaultKeep
	}
	var ch chan<- tea.Msg
	var logs []slog.Record
	return &RecordHandler{
		Handler: handler,
		keep:    keep,
		mu:      &sync.Mutex{},
		ch:      &ch,
		logs:    &logs,
	}
}

// Handle stores the record, forwards it to the TUI if attached and passes it
// on to the wrapped handler.
func (h *RecordHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	*h.logs = append(*h.logs, r.Clone())
	if len(*h.logs) > h.keep {
		*h.logs = (*h.logs)[len(*h.logs)-h.keep:]
	}
	ch := *h.ch
	h.mu.Unlock()

	if ch != nil {
		// Never block logging on a busy UI.
		select {
		case ch <- LogMsg(r):
		default:
		}
	}

	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

// Enabled accepts every level so the record history is complete; the wrapped
// handler still filters what it prints.
func (h *RecordHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *RecordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.Handler = h.Handler.WithAttrs(attrs)
	return &c
}

func (h *RecordHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.Handler = h.Handler.WithGroup(name)
	return &c
}

// Logs returns a copy of the stored records, oldest first.
func (h *RecordHandler) Logs() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]slog.Record(nil), *h.logs...)
}

// SetOutput sets the output channel for the handler. A nil channel detaches.
func (h *RecordHandler) SetOutput(ch chan<- tea.Msg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.ch = ch
}

// LogMsg is a tea.Msg that represents a log message.
type LogMsg slog.Record

var defaultHandler *RecordHandler

// Init installs a RecordHandler around handler as the default logger.
func Init(handler slog.Handler) *RecordHandler {
	defaultHandler = NewRecordHandler(handler, DefaultKeep)
	slog.SetDefault(slog.New(defaultHandler))
	return defaultHandler
}

// SetOutput sets the output channel for the default logger.
func SetOutput(ch chan<- tea.Msg) {
	if defaultHandler != nil {
		defaultHandler.SetOutput(ch)
	}
}

// Logs returns the stored log messages from the default logger.
func Logs() []slog.Record {
	if defaultHandler == nil {
		return nil
	}
	return defaultHandler.Logs()
}
