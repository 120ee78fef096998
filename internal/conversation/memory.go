package conversation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps conversation state in a process-local map. It is the
// default backend; restarts drop every in-flight conversation.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*State
	now    func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*State),
		now:    time.Now,
	}
}

// Get returns a copy of the open conversation for the user.
func (s *MemoryStore) Get(ctx context.Context, userID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return nil, ErrStateNotFound
	}

	copied := *state
	return &copied, nil
}

// Set saves the conversation state for the user.
func (s *MemoryStore) Set(ctx context.Context, userID string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *state
	copied.UserID = userID
	copied.UpdatedAt = s.now().UTC()
	s.states[userID] = &copied

	return nil
}

// Delete removes the conversation state for the user.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)

	return nil
}

// evictBefore removes every state last touched before the cutoff and returns
// how many entries were dropped.
func (s *MemoryStore) evictBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, state := range s.states {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.states, userID)
			evicted++
		}
	}

	return evicted
}
