package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/auto-download/internal/download"
)

// eventBufferSize is large enough that the downloader rarely waits on the UI.
const eventBufferSize = 256

// EventBridge adapts download events to bubble tea messages.
// It implements download.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.RWMutex
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBufferSize),
	}
}

// Emit implements download.EventEmitter.
// FileProgress events are dropped when the UI lags behind; every other event
// is delivered.
func (b *EventBridge) Emit(event download.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	msg := DownloadEventMsg{Event: event}

	if _, ok := event.(download.FileProgress); ok {
		select {
		case b.eventChan <- msg:
		default:
		}

		return
	}

	b.eventChan <- msg
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// It yields nil once the bridge is closed and drained.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil
		}

		return msg
	}
}

// Close closes the event channel. Later events are ignored.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}
