package report

import (
	"context"
	"sync"
)

// MemoryStore keeps reports in memory, for tests and ephemeral tooling.
type MemoryStore struct {
	mu      sync.Mutex
	reports []*Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores one report.
func (s *MemoryStore) Append(ctx context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// List returns the reports for a program name, oldest first.
func (s *MemoryStore) List(ctx context.Context, program string) ([]*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Report
	for _, r := range s.reports {
		if r.Program == program {
			out = append(out, r)
		}
	}
	return out, nil
}

// Close releases nothing for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
