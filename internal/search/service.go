package search

import (
	"log"

	"gatetracker/bot/internal/store"
)

// Service is the facade that tries Meilisearch first and falls back to the
// in-memory index.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured; the in-memory index always works.
func NewService(meili *Meili) *Service {
	return &Service{meili: meili, memory: NewMemory()}
}

// IndexDocument reindexes the whole document. The in-memory snapshot is
// replaced synchronously; Meilisearch is updated fire-and-forget.
func (s *Service) IndexDocument(doc *store.Document) {
	records := Flatten(doc)
	s.memory.Index(records)
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.Index(records); err != nil {
			log.Printf("search: index document: %v", err)
		}
	}()
}

// Search tries Meilisearch if healthy, otherwise the in-memory index.
func (s *Service) Search(q Query) []Record {
	if s.meili != nil && s.meili.Healthy() {
		records, err := s.meili.Search(q)
		if err == nil {
			return records
		}
		log.Printf("search: meilisearch error, falling back to memory: %v", err)
	}
	records, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: memory index error: %v", err)
		return nil
	}
	return records
}
