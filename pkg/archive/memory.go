package archive

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for development and testing.
// Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// Get retrieves a run by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if run.IsExpired() {
		return nil, ErrExpired
	}

	copied := *run
	return &copied, nil
}

// Put stores a run, replacing any existing record with the same ID.
func (s *MemoryStore) Put(ctx context.Context, run *Run) error {
	copied := *run
	s.mu.Lock()
	s.runs[run.ID] = &copied
	s.mu.Unlock()
	return nil
}

// Delete removes a run.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.runs, id)
	s.mu.Unlock()
	return nil
}

// Cleanup removes expired runs.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	for id, run := range s.runs {
		if run.IsExpired() {
			delete(s.runs, id)
		}
	}
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
