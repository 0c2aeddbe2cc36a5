package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/movey-network/movey/pkg/deps"
)

// MemoryIndex keeps records in process memory.
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string]deps.Dependency
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: make(map[string]deps.Dependency)}
}

func (m *MemoryIndex) Get(_ context.Context, scheme string) (deps.Dependency, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.records[scheme]
	return d, ok, nil
}

func (m *MemoryIndex) Put(_ context.Context, d deps.Dependency) error {
	if d.Scheme == "" {
		return fmt.Errorf("record %q has no scheme", d.Name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[d.Scheme] = d
	return nil
}

// Len returns the number of records.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryIndex) Name() string { return "memory" }

func (m *MemoryIndex) Close(context.Context) error { return nil }
