package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// GET ORDER (HEADER + ITEMS)
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	var o Order
	var kind string

	err := r.db.QueryRow(ctx, `
		SELECT id::text, kind, client_name, delivery_at, status
		FROM orders
		WHERE id = $1::uuid
	`, id).Scan(&o.ID, &kind, &o.ClientName, &o.DeliveryAt, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o.Kind = Kind(kind)

	items, err := r.itemsOf(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return &o, nil
}

// --------------------------------------------------
// LIST ITEMS (CHECKLIST INPUT)
// --------------------------------------------------
func (r *PostgresRepository) ListItems(ctx context.Context, orderID string) ([]Item, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrOrderNotFound
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1::uuid)
	`, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	items, err := r.itemsOf(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	if items[orderID] == nil {
		return []Item{}, nil
	}
	return items[orderID], nil
}

// --------------------------------------------------
// LIST BY DELIVERY DATE (CALENDAR)
// --------------------------------------------------
func (r *PostgresRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, kind, client_name, delivery_at, status
		FROM orders
		WHERE delivery_at >= $1 AND delivery_at < $2
		ORDER BY delivery_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	var ids []string
	for rows.Next() {
		var o Order
		var kind string
		if err := rows.Scan(&o.ID, &kind, &o.ClientName, &o.DeliveryAt, &o.Status); err != nil {
			return nil, err
		}
		o.Kind = Kind(kind)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (r *PostgresRepository) itemsOf(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id::text, product_id::text, product_name, quantity, unit_price::text
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position ASC, id ASC
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Item, len(orderIDs))
	for rows.Next() {
		var (
			orderID, price string
			it             Item
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Quantity, &price); err != nil {
			return nil, err
		}
		it.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}

	return out, rows.Err()
}
