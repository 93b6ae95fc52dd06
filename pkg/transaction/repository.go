package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryNotFound = errors.New("transaction entry not found")

type Repository interface {
	Insert(ctx context.Context, userId int, entry Entry) (Entry, error)
	ListByMonth(ctx context.Context, userId int, year int, month int) ([]Entry, error)
	SummaryByMonth(ctx context.Context, userId int, year int, month int) ([]CategorySpend, error)
	Delete(ctx context.Context, userId int, id string) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Insert(ctx context.Context, userId int, entry Entry) (Entry, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO transaction_entry (id, user_id, category_name, amount, entry_date, note)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		entry.Id,
		userId,
		entry.CategoryName,
		entry.Amount,
		entry.Date,
		entry.Note,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("could not insert transaction entry: %w", err)
	}
	return entry, nil
}

func (r *repositoryImpl) ListByMonth(ctx context.Context, userId int, year int, month int) ([]Entry, error) {
	query := `SELECT id, category_name, amount, entry_date, note, created_at
			  FROM transaction_entry
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM entry_date) = $2
			    AND EXTRACT(MONTH FROM entry_date) = $3
			  ORDER BY entry_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userId, year, month)
	if err != nil {
		return nil, fmt.Errorf("could not query transaction entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.Id,
			&entry.CategoryName,
			&entry.Amount,
			&entry.Date,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repositoryImpl) SummaryByMonth(ctx context.Context, userId int, year int, month int) ([]CategorySpend, error) {
	query := `SELECT category_name, SUM(amount), COUNT(*)
			  FROM transaction_entry
			  WHERE user_id = $1
			    AND EXTRACT(YEAR FROM entry_date) = $2
			    AND EXTRACT(MONTH FROM entry_date) = $3
			  GROUP BY category_name
			  ORDER BY category_name`
	rows, err := r.db.Query(ctx, query, userId, year, month)
	if err != nil {
		return nil, fmt.Errorf("could not query transaction summary: %w", err)
	}
	defer rows.Close()

	var summary []CategorySpend
	for rows.Next() {
		var spend CategorySpend
		if err := rows.Scan(&spend.CategoryName, &spend.Spent, &spend.EntryCount); err != nil {
			return nil, err
		}
		summary = append(summary, spend)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userId int, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM transaction_entry WHERE user_id = $1 AND id = $2`, userId, id,
	)
	if err != nil {
		return fmt.Errorf("could not delete transaction entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
