package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrTemplateNotFound = errors.New("template not found")

type Repository interface {
	// GetActive returns the single active template version for the user.
	GetActive(ctx context.Context, userId int) (Template, error)
	// ListVersions returns all template versions for the user, newest first.
	ListVersions(ctx context.Context, userId int) ([]Template, error)
	// CreateVersion inserts a new template version and deactivates the
	// previous active one in a single transaction.
	CreateVersion(ctx context.Context, userId int, tmpl Template) (Template, error)
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

func (r *repositoryImpl) GetActive(ctx context.Context, userId int) (Template, error) {
	query := `SELECT id, version, is_active, currency, notify_overspend, notify_warning, created_at
			  FROM budget_template
			  WHERE user_id = $1 AND is_active = TRUE`
	var tmpl Template
	err := r.getQueryer().QueryRow(ctx, query, userId).Scan(
		&tmpl.Id,
		&tmpl.Version,
		&tmpl.IsActive,
		&tmpl.Settings.Currency,
		&tmpl.Settings.NotifyOverspend,
		&tmpl.Settings.NotifyWarning,
		&tmpl.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	} else if err != nil {
		return Template{}, fmt.Errorf("could not query active template: %w", err)
	}

	tmpl.Categories, err = r.getCategories(ctx, tmpl.Id)
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

func (r *repositoryImpl) ListVersions(ctx context.Context, userId int) ([]Template, error) {
	query := `SELECT id, version, is_active, currency, notify_overspend, notify_warning, created_at
			  FROM budget_template
			  WHERE user_id = $1
			  ORDER BY version DESC`
	rows, err := r.getQueryer().Query(ctx, query, userId)
	if err != nil {
		return nil, fmt.Errorf("could not query template versions: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tmpl Template
		if err := rows.Scan(
			&tmpl.Id,
			&tmpl.Version,
			&tmpl.IsActive,
			&tmpl.Settings.Currency,
			&tmpl.Settings.NotifyOverspend,
			&tmpl.Settings.NotifyWarning,
			&tmpl.CreatedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		templates[i].Categories, err = r.getCategories(ctx, templates[i].Id)
		if err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *repositoryImpl) CreateVersion(ctx context.Context, userId int, tmpl Template) (Template, error) {
	var created Template
	err := r.withTransaction(ctx, func(repo *repositoryImpl) error {
		var previousVersion int
		err := repo.getQueryer().QueryRow(ctx,
			`SELECT COALESCE(MAX(version), 0) FROM budget_template WHERE user_id = $1`, userId,
		).Scan(&previousVersion)
		if err != nil {
			return fmt.Errorf("could not read latest template version: %w", err)
		}

		_, err = repo.getQueryer().Exec(ctx,
			`UPDATE budget_template SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`, userId,
		)
		if err != nil {
			return fmt.Errorf("could not deactivate previous template version: %w", err)
		}

		created = tmpl
		created.Version = previousVersion + 1
		created.IsActive = true
		err = repo.getQueryer().QueryRow(ctx,
			`INSERT INTO budget_template (user_id, version, is_active, currency, notify_overspend, notify_warning)
			 VALUES ($1, $2, TRUE, $3, $4, $5)
			 RETURNING id, created_at`,
			userId,
			created.Version,
			created.Settings.Currency,
			created.Settings.NotifyOverspend,
			created.Settings.NotifyWarning,
		).Scan(&created.Id, &created.CreatedAt)
		if err != nil {
			return fmt.Errorf("could not insert template version: %w", err)
		}

		for _, category := range created.Categories {
			_, err = repo.getQueryer().Exec(ctx,
				`INSERT INTO budget_template_category
				 (template_id, name, monthly_limit, warning_threshold, is_active, color, description)
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
				return fmt.Errorf("could not insert template category %q: %w", category.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return Template{}, err
	}
	return created, nil
}

func (r *repositoryImpl) getCategories(ctx context.Context, templateId int) (map[string]CategoryConfig, error) {
	query := `SELECT name, monthly_limit, warning_threshold, is_active, color, description
			  FROM budget_template_category
			  WHERE template_id = $1`
	rows, err := r.getQueryer().Query(ctx, query, templateId)
	if err != nil {
		return nil, fmt.Errorf("could not query template categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]CategoryConfig)
	for rows.Next() {
		var category CategoryConfig
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
