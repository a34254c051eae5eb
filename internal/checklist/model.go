package checklist

// Mode decides whether a checklist item scales with the ordered quantity
type Mode string

const (
	// Fixed items show QuantityPerUnit no matter how many units were ordered
	Fixed Mode = "unitario"
	// PerUnit items show QuantityPerUnit × ordered quantity
	PerUnit Mode = "multiplo"
)

// ItemDefinition is one checklist template line owned by a product.
// Built through NewItemDefinition at the storage boundary.
type ItemDefinition struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	Description     string `json:"description"`
	QuantityPerUnit int    `json:"quantity_per_unit"`
	Mode            Mode   `json:"mode"`
	Ordering        int    `json:"ordering"`
}

// LineItem is the part of an order row the aggregator needs
type LineItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Group is the checklist of a single order line item.
// Recomputed on every Build, never stored.
type Group struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Entries     []Entry `json:"entries"`
}

// Entry is a definition with its quantity resolved for one line item.
// ID is the definition id and is the key used by CompletionState.
type Entry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}
