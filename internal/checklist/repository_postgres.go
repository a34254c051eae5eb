package checklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type PostgresRepository struct {
	db  *pgxpool.Pool
	log logrus.FieldLogger
}

func NewPostgresRepository(db *pgxpool.Pool, log logrus.FieldLogger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

const selectDefinitions = `
	SELECT
		id::text,
		product_id::text,
		description,
		quantity_per_unit,
		calculation_mode,
		ordering
	FROM product_checklist_items
`

// --------------------------------------------------
// LIST BY PRODUCTS (AGGREGATOR INPUT)
// --------------------------------------------------
func (r *PostgresRepository) ListByProducts(
	ctx context.Context,
	productIDs []string,
) ([]ItemDefinition, error) {

	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []ItemDefinition{}, nil
	}

	rows, err := r.db.Query(ctx, selectDefinitions+`
		WHERE product_id = ANY($1::uuid[])
		ORDER BY ordering ASC, created_at ASC
	`, ids)
	if err != nil {
		return nil, err
	}

	return r.scanDefinitions(rows)
}

// --------------------------------------------------
// LIST ONE PRODUCT (ADMIN)
// --------------------------------------------------
func (r *PostgresRepository) ListByProduct(
	ctx context.Context,
	productID string,
) ([]ItemDefinition, error) {
	return r.ListByProducts(ctx, []string{productID})
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*ItemDefinition, error) {
	var (
		defID, productID, description, mode string
		qty, ordering                       int
	)

	if !isUUID(id) {
		return nil, ErrDefinitionNotFound
	}

	err := r.db.QueryRow(ctx, selectDefinitions+`
		WHERE id = $1::uuid
	`, id).Scan(&defID, &productID, &description, &qty, &mode, &ordering)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDefinitionNotFound
		}
		return nil, err
	}

	def, ok := r.fromRow(defID, productID, description, qty, mode, ordering)
	if !ok {
		return nil, ErrDefinitionNotFound
	}
	return def, nil
}

// --------------------------------------------------
// UPSERT
// --------------------------------------------------
func (r *PostgresRepository) Save(ctx context.Context, def *ItemDefinition) error {
	if !isUUID(def.ID) || !isUUID(def.ProductID) {
		return fmt.Errorf("%w: ids must be uuids", ErrInvalidDefinition)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO product_checklist_items (
			id,
			product_id,
			description,
			quantity_per_unit,
			calculation_mode,
			ordering,
			created_at,
			updated_at
		)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id)
		DO UPDATE SET
			description = EXCLUDED.description,
			quantity_per_unit = EXCLUDED.quantity_per_unit,
			calculation_mode = EXCLUDED.calculation_mode,
			ordering = EXCLUDED.ordering,
			updated_at = now()
	`,
		def.ID,
		def.ProductID,
		def.Description,
		def.QuantityPerUnit,
		string(def.Mode),
		def.Ordering,
	)

	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, productID, id string) error {
	if !isUUID(id) || !isUUID(productID) {
		return ErrDefinitionNotFound
	}

	cmd, err := r.db.Exec(ctx, `
		DELETE FROM product_checklist_items
		WHERE id = $1::uuid AND product_id = $2::uuid
	`, id, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDefinitionNotFound
	}
	return nil
}

// scanDefinitions validates every row; rows that fail are logged and skipped
// so one bad template line does not hide the rest of an order's checklist
func (r *PostgresRepository) scanDefinitions(rows pgx.Rows) ([]ItemDefinition, error) {
	defer rows.Close()

	defs := []ItemDefinition{}
	for rows.Next() {
		var (
			id, productID, description, mode string
			qty, ordering                    int
		)
		if err := rows.Scan(&id, &productID, &description, &qty, &mode, &ordering); err != nil {
			return nil, err
		}

		def, ok := r.fromRow(id, productID, description, qty, mode, ordering)
		if !ok {
			continue
		}
		defs = append(defs, *def)
	}

	return defs, rows.Err()
}

// fromRow validates a stored row. Rows that no longer pass validation are logged
// and treated as absent on every read path.
func (r *PostgresRepository) fromRow(
	id, productID, description string,
	qty int,
	mode string,
	ordering int,
) (*ItemDefinition, bool) {
	def, err := NewItemDefinition(id, productID, description, qty, mode, ordering)
	if err != nil {
		r.log.WithError(err).WithField("definition_id", id).Warn("skipping checklist definition")
		return nil, false
	}
	return def, true
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
