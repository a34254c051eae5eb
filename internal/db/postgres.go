package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Connect opens the pool, pings it and bootstraps the schema
func Connect(ctx context.Context, dsn string, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.WithField("host", config.ConnConfig.Host).Info("connected to postgres")

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Info("schema initialized")
	return db, nil
}

var schema = []struct {
	name string
	sql  string
}{
	// -------------------------------
	// CHECKLIST DEFINITIONS
	// -------------------------------
	{"product_checklist_items", `
		CREATE TABLE IF NOT EXISTS product_checklist_items (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL,
			description TEXT NOT NULL,
			quantity_per_unit INTEGER NOT NULL CHECK (quantity_per_unit > 0),
			calculation_mode VARCHAR(20) NOT NULL CHECK (calculation_mode IN ('unitario', 'multiplo')),
			ordering INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS product_checklist_items_product_idx
			ON product_checklist_items (product_id, ordering)
	`},

	// -------------------------------
	// ORDERS + QUOTES
	// -------------------------------
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			kind VARCHAR(20) NOT NULL DEFAULT 'pedido' CHECK (kind IN ('pedido', 'orcamento')),
			client_name VARCHAR(255) NOT NULL,
			delivery_at TIMESTAMPTZ NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'pendente',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS orders_delivery_idx ON orders (delivery_at)
	`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12, 2) NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id, position)
	`},

	// -------------------------------
	// LEDGER
	// -------------------------------
	{"ledger_categories", `
		CREATE TABLE IF NOT EXISTS ledger_categories (
			id SERIAL PRIMARY KEY,
			name VARCHAR(120) UNIQUE NOT NULL
		)
	`},
	{"ledger_entries", `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entry_date TIMESTAMPTZ NOT NULL,
			category_id INTEGER NULL REFERENCES ledger_categories(id),
			kind VARCHAR(10) NOT NULL CHECK (kind IN ('entrada', 'saida')),
			amount NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
			description TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS ledger_entries_date_idx ON ledger_entries (entry_date)
	`},
}

// InitSchema creates missing tables; safe to run on every start
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, s := range schema {
		if _, err := db.Exec(ctx, s.sql); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
