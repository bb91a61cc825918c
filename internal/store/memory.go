package store

import (
	"context"
	"sync"

	"github.com/TebanMT/POC-SENTRY/internal/core"
)

// InMemoryStore is a CredentialStore kept in process memory, used by tests
// and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]core.Record
}

var _ core.CredentialStore = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]core.Record),
	}
}

func (s *InMemoryStore) QueryByIndex(_ context.Context, _, attributeName, attributeValue string) ([]core.Record, error) {
	if attributeValue == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]core.Record, 0)
	for _, rec := range s.records {
		if val, ok := rec[attributeName].(string); ok && val == attributeValue {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

func (s *InMemoryStore) GetItem(_ context.Context, key string) (core.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *InMemoryStore) PutItem(_ context.Context, key string, record core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = record
	return nil
}

func (s *InMemoryStore) DeleteItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}
