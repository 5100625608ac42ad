package search

import (
	"strings"
	"sync"
)

// Memory is the fallback index: a snapshot of the flattened records with
// case-insensitive substring matching. Always healthy.
type Memory struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemory() *Memory {
	return &Memory{}
}

// Index replaces the snapshot.
func (m *Memory) Index(records []Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

func (m *Memory) Search(q Query) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return nil, nil
	}
	var hits []Record
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Snippet), needle) {
			hits = append(hits, r)
			if len(hits) >= limit {
				break
			}
		}
	}
	return hits, nil
}

func (m *Memory) Healthy() bool {
	return true
}
