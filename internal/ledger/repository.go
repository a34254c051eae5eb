package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Entries dated in [from, to), oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]Entry, error)

	// Signed sum of every entry dated before t
	BalanceBefore(ctx context.Context, t time.Time) (decimal.Decimal, error)
}
