package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCategory = errors.New("invalid category configuration")

type Service interface {
	// GetActive returns the user's active template. ErrTemplateNotFound when
	// the user has never saved one.
	GetActive(ctx context.Context) (Template, error)
	ListVersions(ctx context.Context) ([]Template, error)
	// Save stores the given categories and settings as a new template version
	// and deactivates the previous one.
	Save(ctx context.Context, categories map[string]CategoryConfig, settings GlobalSettings) (Template, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetActive(ctx context.Context) (Template, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Template{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetActive(ctx, userId)
}

func (s *ServiceImpl) ListVersions(ctx context.Context) ([]Template, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListVersions(ctx, userId)
}

func (s *ServiceImpl) Save(ctx context.Context, categories map[string]CategoryConfig, settings GlobalSettings) (Template, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Template{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if err := validateCategories(categories); err != nil {
		return Template{}, err
	}

	// Load the version being superseded before replacing it so removed
	// category names can be announced to subscribers.
	var removed []string
	previous, err := s.repo.GetActive(ctx, userId)
	if err == nil {
		for name := range previous.Categories {
			if _, ok := categories[name]; !ok {
				removed = append(removed, name)
			}
		}
	} else if !errors.Is(err, ErrTemplateNotFound) {
		return Template{}, err
	}

	created, err := s.repo.CreateVersion(ctx, userId, Template{
		Categories: categories,
		Settings:   settings,
	})
	if err != nil {
		return Template{}, fmt.Errorf("failed to store template version: %w", err)
	}

	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.TemplateVersionCreatedType,
		event_bus.TemplateVersionCreated{
			TemplateId:        created.Id,
			Version:           created.Version,
			RemovedCategories: removed,
		},
	))
	if err != nil {
		// Subscribers only produce advisory warnings; the new version is
		// already committed, so report and continue.
		log.Errorf("failed to publish template version event: %v", err)
	}

	return created, nil
}

func validateCategories(categories map[string]CategoryConfig) error {
	for name, category := range categories {
		if name == "" || category.Name == "" {
			return fmt.Errorf("%w: category name must not be empty", ErrInvalidCategory)
		}
		if name != category.Name {
			return fmt.Errorf("%w: category %q stored under key %q", ErrInvalidCategory, category.Name, name)
		}
		if category.MonthlyLimit.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: category %q has a negative monthly limit", ErrInvalidCategory, name)
		}
		if category.WarningThreshold < 0 || category.WarningThreshold > 100 {
			return fmt.Errorf("%w: category %q warning threshold must be between 0 and 100", ErrInvalidCategory, name)
		}
	}
	return nil
}
