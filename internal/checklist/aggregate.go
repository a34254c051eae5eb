package checklist

import "sort"

// Build joins an order's line items with the checklist definitions of their products.
//
// One Group is emitted per line item that has at least one definition, in line item
// order. Line items sharing a product are not merged: each keeps its own group and
// its own resolved quantities. Definitions are ordered by Ordering, ties keep input order.
func Build(lineItems []LineItem, definitions []ItemDefinition) []Group {
	groups := make([]Group, 0, len(lineItems))
	if len(lineItems) == 0 || len(definitions) == 0 {
		return groups
	}

	byProduct := IndexByProduct(definitions)

	for _, li := range lineItems {
		defs := byProduct[li.ProductID]
		if len(defs) == 0 {
			continue
		}

		entries := make([]Entry, 0, len(defs))
		for _, d := range defs {
			entries = append(entries, Entry{
				ID:          d.ID,
				Description: d.Description,
				Quantity:    Resolve(d, li.Quantity),
			})
		}

		groups = append(groups, Group{
			ProductID:   li.ProductID,
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			Entries:     entries,
		})
	}

	return groups
}

// Resolve returns the displayed quantity of a definition for orderedQty units.
// Results below 1 are clamped to 1.
func Resolve(d ItemDefinition, orderedQty int) int {
	qty := d.QuantityPerUnit
	if d.Mode == PerUnit {
		qty = d.QuantityPerUnit * orderedQty
	}
	if qty < 1 {
		return 1
	}
	return qty
}

// IndexByProduct groups definitions by product id, each list stably sorted by Ordering
func IndexByProduct(definitions []ItemDefinition) map[string][]ItemDefinition {
	idx := make(map[string][]ItemDefinition)
	for _, d := range definitions {
		idx[d.ProductID] = append(idx[d.ProductID], d)
	}
	for _, defs := range idx {
		sort.SliceStable(defs, func(i, j int) bool {
			return defs[i].Ordering < defs[j].Ordering
		})
	}
	return idx
}

// ProductIDs returns the distinct product ids of lineItems in first-seen order
func ProductIDs(lineItems []LineItem) []string {
	seen := make(map[string]bool, len(lineItems))
	ids := make([]string, 0, len(lineItems))
	for _, li := range lineItems {
		if seen[li.ProductID] {
			continue
		}
		seen[li.ProductID] = true
		ids = append(ids, li.ProductID)
	}
	return ids
}
