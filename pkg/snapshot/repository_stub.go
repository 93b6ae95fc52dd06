package snapshot

import (
	"context"
	"sync"

	"github.com/centavo/centavo/pkg/template"
	"github.com/shopspring/decimal"
)

type stubKey struct {
	userId int
	month  string
}

// RepositoryStub is an in-memory Repository used in tests.
type RepositoryStub struct {
	mu        sync.RWMutex
	snapshots map[stubKey]Snapshot
	nextId    int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{snapshots: make(map[stubKey]Snapshot), nextId: 1}
}

func (s *RepositoryStub) Get(ctx context.Context, userId int, month Month) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[stubKey{userId, month.String()}]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return copySnapshot(snap), nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, snap Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Id = s.nextId
	s.nextId++
	s.snapshots[stubKey{userId, snap.Month.String()}] = copySnapshot(snap)
	return snap, nil
}

func (s *RepositoryStub) UpdateCategoryLimit(ctx context.Context, userId int, month Month, name string, newLimit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stubKey{userId, month.String()}
	snap, ok := s.snapshots[key]
	if !ok {
		return ErrSnapshotNotFound
	}
	category, ok := snap.Categories[name]
	if !ok {
		return ErrCategoryNotFound
	}
	category.MonthlyLimit = newLimit
	snap.Categories[name] = category
	snap.AdjustmentCount++
	s.snapshots[key] = snap
	return nil
}

func (s *RepositoryStub) SetLocked(ctx context.Context, userId int, month Month, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stubKey{userId, month.String()}
	snap, ok := s.snapshots[key]
	if !ok {
		return ErrSnapshotNotFound
	}
	snap.IsLocked = locked
	s.snapshots[key] = snap
	return nil
}

func (s *RepositoryStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[stubKey]Snapshot)
	s.nextId = 1
}

func copySnapshot(snap Snapshot) Snapshot {
	categories := make(map[string]template.CategoryConfig, len(snap.Categories))
	for name, c := range snap.Categories {
		categories[name] = c
	}
	snap.Categories = categories
	return snap
}
