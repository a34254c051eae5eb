package checklist

import (
	"context"
	"sort"
	"sync"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	defs  map[string]ItemDefinition
	order []string
}

func NewInMemoryRepository(defs ...ItemDefinition) *InMemoryRepository {
	r := &InMemoryRepository{
		defs: make(map[string]ItemDefinition),
	}
	for i := range defs {
		_ = r.Save(context.Background(), &defs[i])
	}
	return r
}

func (r *InMemoryRepository) ListByProducts(ctx context.Context, productIDs []string) ([]ItemDefinition, error) {
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ItemDefinition
	for _, id := range r.order {
		d := r.defs[id]
		if wanted[d.ProductID] {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out, nil
}

func (r *InMemoryRepository) ListByProduct(ctx context.Context, productID string) ([]ItemDefinition, error) {
	return r.ListByProducts(ctx, []string{productID})
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*ItemDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[id]
	if !ok {
		return nil, ErrDefinitionNotFound
	}
	return &d, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, def *ItemDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = *def
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, productID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.defs[id]
	if !ok || d.ProductID != productID {
		return ErrDefinitionNotFound
	}
	delete(r.defs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
