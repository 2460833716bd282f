package history

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxVisitors bounds how many visitors the memory store remembers.
const DefaultMaxVisitors = 10000

// MemoryStore keeps history in process, evicting the least recently active
// visitors first.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, []string]
	size  int
}

func NewMemoryStore(maxVisitors, size int) (*MemoryStore, error) {
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxVisitors
	}
	if size <= 0 {
		size = DefaultSize
	}

	cache, err := lru.New[string, []string](maxVisitors)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryStore{cache: cache, size: size}, nil
}

func (m *MemoryStore) Name() string { return "memory" }

// Record adds query to the front of the visitor's history.
func (m *MemoryStore) Record(_ context.Context, visitor, query string) error {
	if visitor == "" {
		return ErrEmptyVisitor
	}
	q := cleanQuery(query)
	if q == "" {
		return nil
	}

	// Get and Add must happen together or concurrent records lose entries.
	m.mu.Lock()
	defer m.mu.Unlock()

	list, _ := m.cache.Get(visitor)
	m.cache.Add(visitor, prepend(list, q, m.size))
	return nil
}

// Recent returns up to n queries, most recent first.
func (m *MemoryStore) Recent(_ context.Context, visitor string, n int) ([]string, error) {
	if visitor == "" {
		return nil, ErrEmptyVisitor
	}

	m.mu.Lock()
	list, _ := m.cache.Get(visitor)
	m.mu.Unlock()

	if n <= 0 || n > len(list) {
		n = len(list)
	}
	out := make([]string, n)
	copy(out, list[:n])
	return out, nil
}
