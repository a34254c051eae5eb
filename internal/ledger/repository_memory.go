package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Add(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return e
}

func (r *InMemoryRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *InMemoryRepository) BalanceBefore(ctx context.Context, t time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.entries {
		if e.Date.Before(t) {
			sum = sum.Add(Signed(e))
		}
	}
	return sum, nil
}
