package session

import (
	"sync"

	"frontier/internal/models"
)

// summaryStore keeps summary entries keyed by paper id in insertion order.
type summaryStore struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]models.SummaryEntry
}

func newSummaryStore() *summaryStore {
	return &summaryStore{entries: map[string]models.SummaryEntry{}}
}

func (s *summaryStore) Get(id string) (models.SummaryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Insert stores e unless an entry for the same paper exists. The existing entry
// wins and is returned with inserted=false.
func (s *summaryStore) Insert(e models.SummaryEntry) (models.SummaryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[e.PaperID]; ok {
		return existing, false
	}
	s.entries[e.PaperID] = e
	s.order = append(s.order, e.PaperID)
	return e, true
}

func (s *summaryStore) Entries() []models.SummaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SummaryEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

func (s *summaryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *summaryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = map[string]models.SummaryEntry{}
}
