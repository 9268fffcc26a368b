// Package cache provides prediction memoization stores: a bounded
// in-process FIFO cache (the default) and a Redis backend for sharing
// predictions across gateway instances.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Jaysinh146/Riskify/pkg/ml"
)

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 100

// Memory is a bounded FIFO prediction cache. Eviction follows insertion
// order, not access order: once full, the oldest-inserted key is dropped
// regardless of how recently it was read. All operations are serialized
// with a mutex; check-then-insert is not atomic without it.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]ml.Prediction
	order      []string // insertion order, oldest first

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory creates a FIFO cache bounded at maxEntries. Zero or negative
// applies DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		entries:    make(map[string]ml.Prediction, maxEntries),
		order:      make([]string, 0, maxEntries),
	}
}

// Get returns the cached prediction for a key, if present.
func (m *Memory) Get(_ context.Context, key string) (ml.Prediction, bool) {
	m.mu.Lock()
	p, ok := m.entries[key]
	m.mu.Unlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return p, ok
}

// Set inserts a prediction, evicting the oldest-inserted entry when the
// bound is exceeded. Re-setting an existing key keeps its original
// position in the eviction order.
func (m *Memory) Set(_ context.Context, key string, p ml.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = p

	for len(m.entries) > m.maxEntries {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
}

// Len returns the number of cached predictions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats reports cache performance counters.
func (m *Memory) Stats() Stats {
	return Stats{
		Entries: int64(m.Len()),
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}
}

// Stats reports cache performance metrics.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
