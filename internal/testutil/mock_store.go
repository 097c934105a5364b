// Package testutil provides test doubles for the query API.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// MockCollection is a configurable in-memory store.Collection that records
// how often it is queried.
type MockCollection[T any] struct {
	mu      sync.RWMutex
	records []T
	err     error
	delay   time.Duration
	gate    chan struct{}
	started chan struct{}

	// Tracking
	findCount int
}

// NewMockCollection creates a MockCollection holding recs.
func NewMockCollection[T any](recs ...T) *MockCollection[T] {
	return &MockCollection[T]{
		records: append([]T(nil), recs...),
		started: make(chan struct{}, 64),
	}
}

var _ store.Collection[struct{}] = (*MockCollection[struct{}])(nil)

// Find filters the configured records, after the configured delay or gate.
func (m *MockCollection[T]) Find(ctx context.Context, where *filter.Chain[T]) ([]T, error) {
	m.mu.Lock()
	m.findCount++
	delay, gate, err := m.delay, m.gate, m.err
	m.mu.Unlock()

	select {
	case m.started <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return where.Apply(m.records), nil
}

// SetRecords replaces the dataset.
func (m *MockCollection[T]) SetRecords(recs ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]T(nil), recs...)
}

// SetError makes every subsequent Find fail with err. Pass nil to clear.
func (m *MockCollection[T]) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every subsequent Find wait d before answering.
func (m *MockCollection[T]) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Hold makes subsequent Find calls block until the returned release func is
// called.
func (m *MockCollection[T]) Hold() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.gate = nil
			m.mu.Unlock()
			close(gate)
		})
	}
}

// Started is signalled each time Find is entered.
func (m *MockCollection[T]) Started() <-chan struct{} {
	return m.started
}

// FindCount returns the number of Find calls.
func (m *MockCollection[T]) FindCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findCount
}

// Reset clears the tracking counter.
func (m *MockCollection[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCount = 0
}
