package transaction

import (
	"context"
	"sort"
	"sync"
)

// RepositoryStub is an in-memory Repository used in tests.
type RepositoryStub struct {
	mu      sync.RWMutex
	entries map[int][]Entry
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{entries: make(map[int][]Entry)}
}

func (s *RepositoryStub) Insert(ctx context.Context, userId int, entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userId] = append(s.entries[userId], entry)
	return entry, nil
}

func (s *RepositoryStub) ListByMonth(ctx context.Context, userId int, year int, month int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Entry
	for _, entry := range s.entries[userId] {
		if entry.Date.Year() == year && int(entry.Date.Month()) == month {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *RepositoryStub) SummaryByMonth(ctx context.Context, userId int, year int, month int) ([]CategorySpend, error) {
	entries, err := s.ListByMonth(ctx, userId, year, month)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]CategorySpend)
	for _, entry := range entries {
		spend := byCategory[entry.CategoryName]
		spend.CategoryName = entry.CategoryName
		spend.Spent = spend.Spent.Add(entry.Amount)
		spend.EntryCount++
		byCategory[entry.CategoryName] = spend
	}

	summary := make([]CategorySpend, 0, len(byCategory))
	for _, spend := range byCategory {
		summary = append(summary, spend)
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].CategoryName < summary[j].CategoryName })
	return summary, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries[userId] {
		if entry.Id == id {
			s.entries[userId] = append(s.entries[userId][:i], s.entries[userId][i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

func (s *RepositoryStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[int][]Entry)
}
