package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a ledger entry
type Kind string

const (
	Income  Kind = "entrada"
	Expense Kind = "saida"
)

type Entry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"` // always positive, Kind gives the sign
	Description string          `json:"description"`
}

type DayTotal struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Running decimal.Decimal `json:"running"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Kind     Kind            `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary is the cash flow of a period
type Summary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Opening    decimal.Decimal `json:"opening"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Balance    decimal.Decimal `json:"balance"`
	ByDate     []DayTotal      `json:"by_date"`
	ByCategory []CategoryTotal `json:"by_category"`
}
