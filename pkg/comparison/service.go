package comparison

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/centavo/centavo/pkg/template"
	"github.com/centavo/centavo/pkg/user"
	log "github.com/sirupsen/logrus"
)

type TemplateReader interface {
	GetActive(ctx context.Context) (template.Template, error)
}

type SnapshotReader interface {
	GetForMonth(ctx context.Context, month snapshot.Month) (snapshot.Snapshot, error)
}

type Service interface {
	ForMonth(ctx context.Context, month snapshot.Month) (Result, error)
}

type ServiceImpl struct {
	templates TemplateReader
	snapshots SnapshotReader
}

func NewService(templates TemplateReader, snapshots SnapshotReader) *ServiceImpl {
	return &ServiceImpl{templates: templates, snapshots: snapshots}
}

func (s *ServiceImpl) ForMonth(ctx context.Context, month snapshot.Month) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}

	tmpl, err := s.templates.GetActive(ctx)
	if errors.Is(err, template.ErrTemplateNotFound) {
		log.Debugf("no active template for user %d, returning empty comparison", userId)
		return Result{Year: month.Year, Month: month.Month}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to load active template: %w", err)
	}

	snap, err := s.snapshots.GetForMonth(ctx, month)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load budget for %s: %w", month, err)
	}

	return Compare(tmpl, snap), nil
}
