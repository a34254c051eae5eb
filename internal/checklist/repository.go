package checklist

import (
	"context"
	"errors"
)

var ErrDefinitionNotFound = errors.New("checklist definition not found")

// ErrUnknownOrder is returned by a LineItemSource for an order that does not exist
var ErrUnknownOrder = errors.New("order not found")

// LineItemSource returns the line items of an order in their stable display order
type LineItemSource interface {
	LineItems(ctx context.Context, orderID string) ([]LineItem, error)
}

// DefinitionRepository defines all storage operations for checklist definitions
type DefinitionRepository interface {

	// -------------------------------
	// Aggregator input
	// -------------------------------

	// All definitions belonging to any of productIDs, ordered by ordering
	ListByProducts(ctx context.Context, productIDs []string) ([]ItemDefinition, error)

	// -------------------------------
	// Product management
	// -------------------------------

	ListByProduct(ctx context.Context, productID string) ([]ItemDefinition, error)
	Get(ctx context.Context, id string) (*ItemDefinition, error)

	// Insert or update by id
	Save(ctx context.Context, def *ItemDefinition) error
	Delete(ctx context.Context, productID, id string) error
}

// ExportArchive stores a rendered export and returns where it can be fetched
type ExportArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
