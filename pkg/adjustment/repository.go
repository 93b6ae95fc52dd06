package adjustment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrAdjustmentNotFound = errors.New("scheduled adjustment not found")

type Repository interface {
	Insert(ctx context.Context, userId int, adj ScheduledAdjustment) error
	Delete(ctx context.Context, userId int, id string) error
	// ListPending returns all adjustments targeting the given month.
	ListPending(ctx context.Context, userId int, year int, month int) ([]ScheduledAdjustment, error)
	// ListByCategory returns all pending adjustments referencing the given category, any target month.
	ListByCategory(ctx context.Context, userId int, categoryName string) ([]ScheduledAdjustment, error)
}

type repositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Insert(ctx context.Context, userId int, adj ScheduledAdjustment) error {
	query := `INSERT INTO scheduled_adjustment
			  (id, user_id, category_name, current_limit, new_limit, target_year, target_month, reason, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		adj.Id,
		userId,
		adj.CategoryName,
		adj.CurrentLimit,
		adj.NewLimit,
		adj.TargetYear,
		adj.TargetMonth,
		adj.Reason,
		adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert scheduled adjustment: %w", err)
	}
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	query := `DELETE FROM scheduled_adjustment WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userId)
	if err != nil {
		return fmt.Errorf("could not delete scheduled adjustment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAdjustmentNotFound
	}
	return nil
}

func (r *repositoryImpl) ListPending(ctx context.Context, userId int, year int, month int) ([]ScheduledAdjustment, error) {
	query := `SELECT id, category_name, current_limit, new_limit, target_year, target_month, reason, created_at
			  FROM scheduled_adjustment
			  WHERE user_id = $1 AND target_year = $2 AND target_month = $3
			  ORDER BY created_at`
	return r.queryAdjustments(ctx, query, userId, year, month)
}

func (r *repositoryImpl) ListByCategory(ctx context.Context, userId int, categoryName string) ([]ScheduledAdjustment, error) {
	query := `SELECT id, category_name, current_limit, new_limit, target_year, target_month, reason, created_at
			  FROM scheduled_adjustment
			  WHERE user_id = $1 AND category_name = $2
			  ORDER BY created_at`
	return r.queryAdjustments(ctx, query, userId, categoryName)
}

func (r *repositoryImpl) queryAdjustments(ctx context.Context, query string, args ...any) ([]ScheduledAdjustment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query scheduled adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []ScheduledAdjustment
	for rows.Next() {
		var adj ScheduledAdjustment
		var currentLimit, newLimit decimal.Decimal
		if err := rows.Scan(
			&adj.Id,
			&adj.CategoryName,
			&currentLimit,
			&newLimit,
			&adj.TargetYear,
			&adj.TargetMonth,
			&adj.Reason,
			&adj.CreatedAt,
		); err != nil {
			return nil, err
		}
		adj.CurrentLimit = currentLimit
		adj.NewLimit = newLimit
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return adjustments, nil
}
