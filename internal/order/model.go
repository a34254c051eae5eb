package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind separates confirmed orders from quotes; both share the same shape
type Kind string

const (
	KindOrder Kind = "pedido"
	KindQuote Kind = "orcamento"
)

type Order struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	ClientName string          `json:"client_name"`
	DeliveryAt time.Time       `json:"delivery_at"`
	Status     string          `json:"status"`
	Items      []Item          `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// Item is one order row, kept in the order it was entered
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// DayBucket holds everything delivered on one calendar day
type DayBucket struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Orders      []Order         `json:"orders"`
	OrdersTotal decimal.Decimal `json:"orders_total"`
	QuotesTotal decimal.Decimal `json:"quotes_total"`
}

type Calendar struct {
	View string      `json:"view"`
	From time.Time   `json:"from"`
	To   time.Time   `json:"to"`
	Days []DayBucket `json:"days"`
}
