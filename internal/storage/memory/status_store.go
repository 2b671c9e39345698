// Package memory provides in-process store implementations for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/JakeFAU/jobshare/internal/store"
)

// StatusStore keeps status checks in insertion order.
type StatusStore struct {
	mu     sync.RWMutex
	checks []store.StatusCheck
	ids    map[string]struct{}
}

// NewStatusStore constructs a StatusStore.
func NewStatusStore() *StatusStore {
	return &StatusStore{ids: make(map[string]struct{})}
}

// CreateStatusCheck appends a status check.
func (s *StatusStore) CreateStatusCheck(_ context.Context, check store.StatusCheck) error {
	if err := check.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[check.ID]; exists {
		return errors.New("status check already exists")
	}
	s.ids[check.ID] = struct{}{}
	s.checks = append(s.checks, check)
	return nil
}

// ListStatusChecks returns a copy of up to limit checks in insertion order.
func (s *StatusStore) ListStatusChecks(_ context.Context, limit int) ([]store.StatusCheck, error) {
	limit = store.ClampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(limit, len(s.checks))
	out := make([]store.StatusCheck, n)
	copy(out, s.checks[:n])
	return out, nil
}

// Ping always succeeds.
func (s *StatusStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *StatusStore) Close() {}
