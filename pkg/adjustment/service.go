package adjustment

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/template"
	"github.com/centavo/centavo/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownCategory = errors.New("category does not exist in the active template")

type Service interface {
	// Schedule queues a limit change for the next calendar month.
	Schedule(ctx context.Context, categoryName string, newLimit decimal.Decimal, reason string) (ScheduledAdjustment, error)
	Cancel(ctx context.Context, id string) error
	ListPending(ctx context.Context, year int, month int) ([]ScheduledAdjustment, error)
}

type TemplateReader interface {
	GetActive(ctx context.Context) (template.Template, error)
}

type ServiceImpl struct {
	repo       Repository
	tmplReader TemplateReader
	clock      utils.Clock
}

func NewService(repo Repository, tmplReader TemplateReader, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{repo: repo, tmplReader: tmplReader, clock: clock}
	event_bus.SubscribeTyped[event_bus.TemplateVersionCreated](
		eventBus,
		event_bus.TemplateVersionCreatedType,
		func(e event_bus.EventT[event_bus.TemplateVersionCreated]) error {
			service.warnAboutOrphanedAdjustments(e.Context(), e.Data.RemovedCategories)
			return nil
		},
	)
	return service
}

func (s *ServiceImpl) Schedule(ctx context.Context, categoryName string, newLimit decimal.Decimal, reason string) (ScheduledAdjustment, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ScheduledAdjustment{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if newLimit.LessThan(decimal.Zero) {
		return ScheduledAdjustment{}, fmt.Errorf("new limit must not be negative")
	}

	tmpl, err := s.tmplReader.GetActive(ctx)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return ScheduledAdjustment{}, ErrUnknownCategory
		}
		return ScheduledAdjustment{}, fmt.Errorf("failed to load active template: %w", err)
	}
	category, ok := tmpl.Categories[categoryName]
	if !ok {
		return ScheduledAdjustment{}, ErrUnknownCategory
	}

	now := s.clock.Now()
	targetYear, targetMonth := NextMonth(now)
	adj := ScheduledAdjustment{
		Id:           uuid.NewString(),
		CategoryName: categoryName,
		CurrentLimit: category.MonthlyLimit,
		NewLimit:     newLimit,
		TargetYear:   targetYear,
		TargetMonth:  targetMonth,
		Reason:       reason,
		CreatedAt:    now,
	}
	if err := s.repo.Insert(ctx, userId, adj); err != nil {
		return ScheduledAdjustment{}, err
	}
	return adj, nil
}

func (s *ServiceImpl) Cancel(ctx context.Context, id string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func (s *ServiceImpl) ListPending(ctx context.Context, year int, month int) ([]ScheduledAdjustment, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListPending(ctx, userId, year, month)
}

// Consume removes adjustments that have been applied (or dropped) during a
// month rollover. Missing ids are ignored.
func (s *ServiceImpl) Consume(ctx context.Context, ids []string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	for _, id := range ids {
		if err := s.repo.Delete(ctx, userId, id); err != nil && !errors.Is(err, ErrAdjustmentNotFound) {
			return err
		}
	}
	return nil
}

// warnAboutOrphanedAdjustments logs pending adjustments whose category has
// been removed from the template. They will be silently dropped at rollover.
func (s *ServiceImpl) warnAboutOrphanedAdjustments(ctx context.Context, removedCategories []string) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		log.Debugf("skipping orphaned adjustment check: %v", err)
		return
	}
	for _, name := range removedCategories {
		pending, err := s.repo.ListByCategory(ctx, userId, name)
		if err != nil {
			log.Errorf("failed to list adjustments for removed category %q: %v", name, err)
			continue
		}
		for _, adj := range pending {
			log.Warnf("scheduled adjustment %s targets removed category %q and will be dropped at %04d-%02d rollover",
				adj.Id, name, adj.TargetYear, adj.TargetMonth)
		}
	}
}
