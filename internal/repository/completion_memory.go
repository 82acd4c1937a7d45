package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryCompletionStore keeps completed categories in a map keyed by patient and day.
type MemoryCompletionStore struct {
	mu   sync.Mutex
	days map[uint]map[string][]uint
}

func NewMemoryCompletionStore() *MemoryCompletionStore {
	return &MemoryCompletionStore{days: make(map[uint]map[string][]uint)}
}

func (s *MemoryCompletionStore) CompletedCategories(_ context.Context, patientID uint, day string) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := append([]uint{}, s.days[patientID][day]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryCompletionStore) MarkCompleted(_ context.Context, patientID uint, day string, categoryID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay, ok := s.days[patientID]
	if !ok {
		byDay = make(map[string][]uint)
		s.days[patientID] = byDay
	}
	for _, id := range byDay[day] {
		if id == categoryID {
			return nil
		}
	}
	byDay[day] = append(byDay[day], categoryID)
	return nil
}
