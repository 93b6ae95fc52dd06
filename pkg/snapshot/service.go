package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/adjustment"
	"github.com/centavo/centavo/pkg/template"
	"github.com/centavo/centavo/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSnapshotLocked = errors.New("monthly budget is locked")

type Service interface {
	// GetForMonth returns the month's budget reconciled against the latest
	// template. The month is materialized from the template on first access.
	GetForMonth(ctx context.Context, month Month) (Snapshot, error)
	// AdjustCategoryLimit changes one category's limit for the given month.
	AdjustCategoryLimit(ctx context.Context, month Month, categoryName string, newLimit decimal.Decimal) (Snapshot, error)
	SetLocked(ctx context.Context, month Month, locked bool) (Snapshot, error)
}

type TemplateReader interface {
	GetActive(ctx context.Context) (template.Template, error)
}

// AdjustmentSource provides the scheduled adjustments consumed at rollover.
type AdjustmentSource interface {
	ListPending(ctx context.Context, year int, month int) ([]adjustment.ScheduledAdjustment, error)
	Consume(ctx context.Context, ids []string) error
}

type ServiceImpl struct {
	repo       Repository
	tmplReader TemplateReader
	adjSource  AdjustmentSource
	eventBus   *event_bus.EventBus
}

func NewService(repo Repository, tmplReader TemplateReader, adjSource AdjustmentSource, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, tmplReader: tmplReader, adjSource: adjSource, eventBus: eventBus}
}

func (s *ServiceImpl) GetForMonth(ctx context.Context, month Month) (Snapshot, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}

	snap, err := s.repo.Get(ctx, userId, month)
	if err == nil {
		tmpl, tmplErr := s.tmplReader.GetActive(ctx)
		if tmplErr != nil {
			if errors.Is(tmplErr, template.ErrTemplateNotFound) {
				// No template to reconcile against; the stored data stands.
				return snap, nil
			}
			return Snapshot{}, tmplErr
		}
		return Reconcile(snap, tmpl, false), nil
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		return Snapshot{}, err
	}

	return s.createForMonth(ctx, userId, month)
}

// createForMonth materializes a new monthly budget from the current template
// (rollover). This is the only point at which template categories enter a
// snapshot and at which scheduled adjustments are applied.
func (s *ServiceImpl) createForMonth(ctx context.Context, userId int, month Month) (Snapshot, error) {
	tmpl, err := s.tmplReader.GetActive(ctx)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			// Nothing to seed from; return an empty, non-persisted month.
			return Snapshot{Month: month, Categories: map[string]template.CategoryConfig{}}, nil
		}
		return Snapshot{}, err
	}

	seeded := Reconcile(Snapshot{Month: month, Categories: map[string]template.CategoryConfig{}}, tmpl, true)

	pending, err := s.adjSource.ListPending(ctx, month.Year, month.Month)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list pending adjustments: %w", err)
	}
	applied := adjustment.Apply(pending, month.Year, month.Month, seeded.Categories)
	seeded.AdjustmentCount = applied

	created, err := s.repo.Create(ctx, userId, seeded)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create monthly budget: %w", err)
	}

	if len(pending) > 0 {
		ids := make([]string, 0, len(pending))
		for _, adj := range pending {
			ids = append(ids, adj.Id)
		}
		if err := s.adjSource.Consume(ctx, ids); err != nil {
			// The snapshot is committed; an unconsumed adjustment targets a
			// month that now exists and can never apply again.
			log.Errorf("failed to consume applied adjustments: %v", err)
		}
	}

	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.SnapshotCreatedType,
		event_bus.SnapshotCreated{
			SnapshotId:       created.Id,
			Year:             month.Year,
			Month:            month.Month,
			AppliedCount:     applied,
			CategoriesSeeded: len(created.Categories),
		},
	))
	if err != nil {
		log.Errorf("failed to publish snapshot created event: %v", err)
	}

	return created, nil
}

func (s *ServiceImpl) AdjustCategoryLimit(ctx context.Context, month Month, categoryName string, newLimit decimal.Decimal) (Snapshot, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if newLimit.LessThan(decimal.Zero) {
		return Snapshot{}, fmt.Errorf("new limit must not be negative")
	}

	snap, err := s.repo.Get(ctx, userId, month)
	if err != nil {
		// ErrSnapshotNotFound also covers the stale-write case where the
		// month disappeared between read and write; callers may retry after
		// re-fetching.
		return Snapshot{}, err
	}
	if snap.IsLocked {
		return Snapshot{}, ErrSnapshotLocked
	}

	if err := s.repo.UpdateCategoryLimit(ctx, userId, month, categoryName, newLimit); err != nil {
		return Snapshot{}, err
	}
	return s.GetForMonth(ctx, month)
}

func (s *ServiceImpl) SetLocked(ctx context.Context, month Month, locked bool) (Snapshot, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.repo.SetLocked(ctx, userId, month, locked); err != nil {
		return Snapshot{}, err
	}
	return s.GetForMonth(ctx, month)
}
