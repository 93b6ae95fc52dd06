package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/centavo/centavo/pkg/user"
	"github.com/google/uuid"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrUnknownCategory = errors.New("category is not part of the month's budget")
)

// SnapshotReader resolves the monthly budget an entry is recorded against.
type SnapshotReader interface {
	GetForMonth(ctx context.Context, month snapshot.Month) (snapshot.Snapshot, error)
}

type Service interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
	ListByMonth(ctx context.Context, month snapshot.Month) ([]Entry, error)
	SummaryByMonth(ctx context.Context, month snapshot.Month) ([]CategorySpend, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo      Repository
	snapshots SnapshotReader
}

func NewService(repo Repository, snapshots SnapshotReader) *ServiceImpl {
	return &ServiceImpl{repo: repo, snapshots: snapshots}
}

func (s *ServiceImpl) Record(ctx context.Context, entry Entry) (Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if entry.Amount.Sign() <= 0 {
		return Entry{}, ErrInvalidAmount
	}

	// recording against a month lazily materializes its budget, so the
	// category set is always resolvable here
	snap, err := s.snapshots.GetForMonth(ctx, snapshot.MonthFromDate(entry.Date))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load budget for entry month: %w", err)
	}
	if _, ok := snap.Categories[entry.CategoryName]; !ok {
		return Entry{}, ErrUnknownCategory
	}

	entry.Id = uuid.NewString()
	return s.repo.Insert(ctx, userId, entry)
}

func (s *ServiceImpl) ListByMonth(ctx context.Context, month snapshot.Month) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByMonth(ctx, userId, month.Year, month.Month)
}

func (s *ServiceImpl) SummaryByMonth(ctx context.Context, month snapshot.Month) ([]CategorySpend, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.SummaryByMonth(ctx, userId, month.Year, month.Month)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}
