package order

import (
	"context"
	"errors"
	"time"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository defines read access to orders and quotes.
// Orders are created and edited elsewhere; this service only reads them.
type Repository interface {
	// Order header plus items in entry order
	Get(ctx context.Context, id string) (*Order, error)

	// Items of one order in entry order; ErrOrderNotFound if the order does not exist
	ListItems(ctx context.Context, orderID string) ([]Item, error)

	// Orders and quotes delivered in [from, to), items included
	ListBetween(ctx context.Context, from, to time.Time) ([]Order, error)
}
