package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders: make(map[string]*Order),
	}
}

// Save stores a copy of o, assigning an id when it has none
func (r *InMemoryRepository) Save(o *Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Kind == "" {
		o.Kind = KindOrder
	}

	cp := *o
	cp.Items = append([]Item(nil), o.Items...)

	r.mu.Lock()
	r.orders[o.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}

func (r *InMemoryRepository) ListItems(ctx context.Context, orderID string) ([]Item, error) {
	o, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Items, nil
}

func (r *InMemoryRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Order
	for _, o := range r.orders {
		if o.DeliveryAt.Before(from) || !o.DeliveryAt.Before(to) {
			continue
		}
		cp := *o
		cp.Items = append([]Item(nil), o.Items...)
		out = append(out, cp)
	}
	return out, nil
}
