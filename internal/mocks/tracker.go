package mocks

import (
	"context"
	"sync"
)

// MockAttemptTracker counts failures in memory and locks a key at Max
type MockAttemptTracker struct {
	mu       sync.Mutex
	Max      int64
	Failures map[string]int64
	Err      error
}

func NewMockAttemptTracker(max int64) *MockAttemptTracker {
	return &MockAttemptTracker{Max: max, Failures: make(map[string]int64)}
}

func (m *MockAttemptTracker) Locked(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	return m.Failures[key] >= m.Max, nil
}

func (m *MockAttemptTracker) RecordFailure(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.Failures[key]++
	return m.Failures[key], nil
}

func (m *MockAttemptTracker) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Failures, key)
	return m.Err
}
