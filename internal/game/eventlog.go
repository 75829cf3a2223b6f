package game

import (
	"sync"

	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// EventLog keeps the most recent events in a fixed-size ring.
type EventLog struct {
	mu    sync.RWMutex
	buf   []rules.Event
	start int
	n     int
}

// NewEventLog creates a ring holding up to size events.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventLogSize
	}
	return &EventLog{buf: make([]rules.Event, size)}
}

// Append adds an event, evicting the oldest when full.
func (l *EventLog) Append(evt rules.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.n < len(l.buf) {
		l.buf[(l.start+l.n)%len(l.buf)] = evt
		l.n++
		return
	}
	l.buf[l.start] = evt
	l.start = (l.start + 1) % len(l.buf)
}

// Events returns the retained events, oldest first.
func (l *EventLog) Events() []rules.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]rules.Event, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return out
}

// Last returns up to n most recent events, oldest first.
func (l *EventLog) Last(n int) []rules.Event {
	all := l.Events()
	if n >= len(all) || n < 0 {
		return all
	}
	return all[len(all)-n:]
}

// reset replaces the retained events.
func (l *EventLog) reset(events []rules.Event) {
	l.mu.Lock()
	l.start, l.n = 0, 0
	l.mu.Unlock()
	for _, evt := range events {
		l.Append(evt)
	}
}
