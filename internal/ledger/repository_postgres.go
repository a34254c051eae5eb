package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			e.id::text,
			e.entry_date,
			COALESCE(c.name, ''),
			e.kind,
			e.amount::text,
			COALESCE(e.description, '')
		FROM ledger_entries e
		LEFT JOIN ledger_categories c ON c.id = e.category_id
		WHERE e.entry_date >= $1 AND e.entry_date < $2
		ORDER BY e.entry_date ASC, e.created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			kind, amount string
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &kind, &amount, &e.Description); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// BalanceBefore sums in the database; amounts are stored positive with kind as sign
func (r *PostgresRepository) BalanceBefore(ctx context.Context, t time.Time) (decimal.Decimal, error) {
	var sum string

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind = 'saida' THEN -amount ELSE amount END), 0)::text
		FROM ledger_entries
		WHERE entry_date < $1
	`, t).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(sum)
}
