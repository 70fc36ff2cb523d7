package memory

import (
	"context"
	"sync"

	"vise/internal/audit"
)

// InMemoryStore keeps audit events in memory. It backs local runs and tests;
// capped so a long-lived process does not grow without bound.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	cap    int
}

const defaultCap = 1000

// NewInMemoryStore creates an empty in-memory audit sink.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cap: defaultCap}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.cap {
		s.events = s.events[len(s.events)-s.cap:]
	}
	return nil
}

// ListRecent returns the most recent events, newest last.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if limit <= 0 || start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

// Clear removes all stored events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
