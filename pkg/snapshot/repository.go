package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo/pkg/template"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSnapshotNotFound = errors.New("monthly budget not found")
var ErrCategoryNotFound = errors.New("category not found in monthly budget")

type Repository interface {
	Get(ctx context.Context, userId int, month Month) (Snapshot, error)
	// Create stores a freshly seeded snapshot with its categories in one transaction.
	Create(ctx context.Context, userId int, snap Snapshot) (Snapshot, error)
	// UpdateCategoryLimit changes one stored category limit and increments the
	// snapshot's adjustment count.
	UpdateCategoryLimit(ctx context.Context, userId int, month Month, name string, newLimit decimal.Decimal) error
	SetLocked(ctx context.Context, userId int, month Month, locked bool) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *repositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) Get(ctx context.Context, userId int, month Month) (Snapshot, error) {
	query := `SELECT id, year, month, currency, notify_overspend, notify_warning, adjustment_count, is_locked
			  FROM monthly_budget
			  WHERE user_id = $1 AND year = $2 AND month = $3`
	var snap Snapshot
	err := r.getQueryer().QueryRow(ctx, query, userId, month.Year, month.Month).Scan(
		&snap.Id,
		&snap.Month.Year,
		&snap.Month.Month,
		&snap.Settings.Currency,
		&snap.Settings.NotifyOverspend,
		&snap.Settings.NotifyWarning,
		&snap.AdjustmentCount,
		&snap.IsLocked,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrSnapshotNotFound
	} else if err != nil {
		return Snapshot{}, fmt.Errorf("could not query monthly budget: %w", err)
	}

	snap.Categories, err = r.getCategories(ctx, snap.Id)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *repositoryImpl) Create(ctx context.Context, userId int, snap Snapshot) (Snapshot, error) {
	created := snap
	err := r.withTransaction(ctx, func(repo *repositoryImpl) error {
		err := repo.getQueryer().QueryRow(ctx,
			`INSERT INTO monthly_budget (user_id, year, month, currency, notify_overspend, notify_warning, adjustment_count, is_locked)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
			 RETURNING id`,
			userId,
			snap.Month.Year,
			snap.Month.Month,
			snap.Settings.Currency,
			snap.Settings.NotifyOverspend,
			snap.Settings.NotifyWarning,
			snap.AdjustmentCount,
		).Scan(&created.Id)
		if err != nil {
			return fmt.Errorf("could not insert monthly budget: %w", err)
		}

		for _, category := range snap.Categories {
			_, err = repo.getQueryer().Exec(ctx,
				`INSERT INTO monthly_budget_category
				 (budget_id, name, monthly_limit, warning_threshold, is_active, color, description)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				created.Id,
				category.Name,
				category.MonthlyLimit,
				category.WarningThreshold,
				category.IsActive,
				category.Color,
				category.Description,
			)
			if err != nil {
				return fmt.Errorf("could not insert monthly budget category %q: %w", category.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return created, nil
}

func (r *repositoryImpl) UpdateCategoryLimit(ctx context.Context, userId int, month Month, name string, newLimit decimal.Decimal) error {
	return r.withTransaction(ctx, func(repo *repositoryImpl) error {
		var budgetId int
		err := repo.getQueryer().QueryRow(ctx,
			`SELECT id FROM monthly_budget WHERE user_id = $1 AND year = $2 AND month = $3`,
			userId, month.Year, month.Month,
		).Scan(&budgetId)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSnapshotNotFound
		} else if err != nil {
			return fmt.Errorf("could not query monthly budget: %w", err)
		}

		result, err := repo.getQueryer().Exec(ctx,
			`UPDATE monthly_budget_category SET monthly_limit = $1 WHERE budget_id = $2 AND name = $3`,
			newLimit, budgetId, name,
		)
		if err != nil {
			return fmt.Errorf("could not update category limit: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrCategoryNotFound
		}

		_, err = repo.getQueryer().Exec(ctx,
			`UPDATE monthly_budget SET adjustment_count = adjustment_count + 1 WHERE id = $1`,
			budgetId,
		)
		if err != nil {
			return fmt.Errorf("could not increment adjustment count: %w", err)
		}
		return nil
	})
}

func (r *repositoryImpl) SetLocked(ctx context.Context, userId int, month Month, locked bool) error {
	result, err := r.getQueryer().Exec(ctx,
		`UPDATE monthly_budget SET is_locked = $1 WHERE user_id = $2 AND year = $3 AND month = $4`,
		locked, userId, month.Year, month.Month,
	)
	if err != nil {
		return fmt.Errorf("could not update lock flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

func (r *repositoryImpl) getCategories(ctx context.Context, budgetId int) (map[string]template.CategoryConfig, error) {
	query := `SELECT name, monthly_limit, warning_threshold, is_active, color, description
			  FROM monthly_budget_category
			  WHERE budget_id = $1`
	rows, err := r.getQueryer().Query(ctx, query, budgetId)
	if err != nil {
		return nil, fmt.Errorf("could not query monthly budget categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]template.CategoryConfig)
	for rows.Next() {
		var category template.CategoryConfig
		var limit decimal.Decimal
		if err := rows.Scan(
			&category.Name,
			&limit,
			&category.WarningThreshold,
			&category.IsActive,
			&category.Color,
			&category.Description,
		); err != nil {
			return nil, err
		}
		category.MonthlyLimit = limit
		categories[category.Name] = category
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repositoryImpl) withTransaction(ctx context.Context, fn func(repo *repositoryImpl) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &repositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
