package order

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// Calendar views
const (
	ViewMonth = "month"
	ViewWeek  = "week"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekRange returns [Sunday 00:00, next Sunday 00:00) around t
func WeekRange(t time.Time) (time.Time, time.Time) {
	day := startOfDay(t)
	from := day.AddDate(0, 0, -int(day.Weekday()))
	return from, from.AddDate(0, 0, 7)
}

// MonthGrid returns the full weeks covering t's month, so the grid always starts on a
// Sunday and ends after a Saturday
func MonthGrid(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)

	from, _ := WeekRange(first)
	_, to := WeekRange(last)
	return from, to
}

// BucketByDay places orders into one bucket per day of [from, to).
// Orders outside the range are dropped; within a day they are sorted by delivery time.
// Totals are computed from the items, so Order.Total does not need to be filled.
func BucketByDay(orders []Order, from, to time.Time) []DayBucket {
	from = startOfDay(from)
	loc := from.Location()

	var days []DayBucket
	index := make(map[string]int)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		index[key] = len(days)
		days = append(days, DayBucket{
			Date:        key,
			Orders:      []Order{},
			OrdersTotal: decimal.Zero,
			QuotesTotal: decimal.Zero,
		})
	}

	for _, o := range orders {
		if o.DeliveryAt.Before(from) || !o.DeliveryAt.Before(to) {
			continue
		}
		i, ok := index[o.DeliveryAt.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}

		o.Total = Total(o.Items)
		days[i].Orders = append(days[i].Orders, o)
		if o.Kind == KindQuote {
			days[i].QuotesTotal = days[i].QuotesTotal.Add(o.Total)
		} else {
			days[i].OrdersTotal = days[i].OrdersTotal.Add(o.Total)
		}
	}

	for i := range days {
		sort.SliceStable(days[i].Orders, func(a, b int) bool {
			return days[i].Orders[a].DeliveryAt.Before(days[i].Orders[b].DeliveryAt)
		})
	}

	return days
}
