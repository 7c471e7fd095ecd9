package console

import (
	"sync"
	"time"

	"github.com/polyflowrobotics/robot-console/internal/status"
)

// DefaultHistorySize is how many transitions a page remembers
const DefaultHistorySize = 50

// Event is one save status transition, as listed on the Logs page
type Event struct {
	Time    time.Time
	State   status.State
	Message string
}

// history is a bounded list of recent transitions, oldest first
type history struct {
	mu     sync.Mutex
	max    int
	events []Event
}

func newHistory(max int) *history {
	return &history{max: max}
}

func (h *history) record(s status.SaveStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, Event{Time: time.Now(), State: s.State, Message: s.Message})
	if len(h.events) > h.max {
		h.events = h.events[len(h.events)-h.max:]
	}
}

// recent returns the recorded events, newest first
func (h *history) recent() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	for i, e := range h.events {
		out[len(h.events)-1-i] = e
	}
	return out
}
