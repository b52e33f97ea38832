package repositories

import (
	"strings"
	"sync"
)

// MockKVStore is an in-memory implementation of KVStore.
type MockKVStore struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewMockKVStore creates a new instance of MockKVStore.
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		entries: make(map[string]string),
	}
}

// Get returns the value stored under key, and whether it was present.
func (s *MockKVStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	return value, ok, nil
}

// Set stores value under key, overwriting any previous value.
func (s *MockKVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// Remove deletes the key. Removing a missing key is not an error.
func (s *MockKVStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Keys returns all stored keys with the given prefix.
func (s *MockKVStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
