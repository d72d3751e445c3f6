package audit

import (
	"context"
	"sync"
)

// CaptureHook records normalized events in memory. It backs test assertions
// and serves as a minimal in-process audit trail.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the event and returns any configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// ByVerb returns the recorded events carrying verb, oldest first.
func (h *CaptureHook) ByVerb(verb string) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, 0, len(h.Events))
	for _, event := range h.Events {
		if event.Verb == verb {
			out = append(out, event)
		}
	}
	return out
}

// Reset discards the recorded events.
func (h *CaptureHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = nil
}
