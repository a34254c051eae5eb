package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// Signed returns the entry amount with expenses negative
func Signed(e Entry) decimal.Decimal {
	if e.Kind == Expense {
		return e.Amount.Abs().Neg()
	}
	return e.Amount.Abs()
}

// Summarize groups entries by day and by category.
//
// Days are calendar days in loc, ascending, and carry a running balance that starts at opening.
// Categories are split by kind and sorted by amount, largest first, then by name.
// Balance is opening plus income minus expense.
func Summarize(entries []Entry, opening decimal.Decimal, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}

	s := Summary{
		Opening:    opening,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		ByDate:     []DayTotal{},
		ByCategory: []CategoryTotal{},
	}

	days := make(map[string]*DayTotal)
	type catKey struct {
		name string
		kind Kind
	}
	cats := make(map[catKey]decimal.Decimal)

	for _, e := range entries {
		key := e.Date.In(loc).Format(dayLayout)
		d, ok := days[key]
		if !ok {
			d = &DayTotal{Date: key, Income: decimal.Zero, Expense: decimal.Zero}
			days[key] = d
		}

		amount := e.Amount.Abs()
		if e.Kind == Expense {
			d.Expense = d.Expense.Add(amount)
			s.Expense = s.Expense.Add(amount)
		} else {
			d.Income = d.Income.Add(amount)
			s.Income = s.Income.Add(amount)
		}

		ck := catKey{name: e.Category, kind: e.Kind}
		if e.Kind != Expense {
			ck.kind = Income
		}
		cats[ck] = cats[ck].Add(amount)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	running := opening
	for _, k := range keys {
		d := days[k]
		d.Net = d.Income.Sub(d.Expense)
		running = running.Add(d.Net)
		d.Running = running
		s.ByDate = append(s.ByDate, *d)
	}

	for k, amount := range cats {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: k.name, Kind: k.kind, Amount: amount})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Kind < b.Kind
	})

	s.Balance = opening.Add(s.Income).Sub(s.Expense)
	return s
}
