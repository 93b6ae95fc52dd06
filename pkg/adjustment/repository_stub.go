package adjustment

import (
	"context"
	"sort"
	"sync"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu          sync.RWMutex
	adjustments map[string]ScheduledAdjustment // id -> adjustment
	userIds     map[string]int                 // id -> userId
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		adjustments: make(map[string]ScheduledAdjustment),
		userIds:     make(map[string]int),
	}
}

func (r *RepositoryStub) Insert(ctx context.Context, userId int, adj ScheduledAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustments[adj.Id] = adj
	r.userIds[adj.Id] = userId
	return nil
}

func (r *RepositoryStub) Delete(ctx context.Context, userId int, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adjustments[id]; !ok || r.userIds[id] != userId {
		return ErrAdjustmentNotFound
	}
	delete(r.adjustments, id)
	delete(r.userIds, id)
	return nil
}

func (r *RepositoryStub) ListPending(ctx context.Context, userId int, year int, month int) ([]ScheduledAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ScheduledAdjustment
	for id, adj := range r.adjustments {
		if r.userIds[id] == userId && adj.TargetsMonth(year, month) {
			result = append(result, adj)
		}
	}
	sortByCreation(result)
	return result, nil
}

func (r *RepositoryStub) ListByCategory(ctx context.Context, userId int, categoryName string) ([]ScheduledAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ScheduledAdjustment
	for id, adj := range r.adjustments {
		if r.userIds[id] == userId && adj.CategoryName == categoryName {
			result = append(result, adj)
		}
	}
	sortByCreation(result)
	return result, nil
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustments = make(map[string]ScheduledAdjustment)
	r.userIds = make(map[string]int)
}

func sortByCreation(adjustments []ScheduledAdjustment) {
	sort.Slice(adjustments, func(i, j int) bool {
		return adjustments[i].CreatedAt.Before(adjustments[j].CreatedAt)
	})
}
