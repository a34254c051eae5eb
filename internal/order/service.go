package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vcambrosio/experimentepro-sub000/internal/checklist"
)

var ErrUnknownView = errors.New("view must be month or week")

type Service struct {
	repo Repository
	log  logrus.FieldLogger
	loc  *time.Location
}

func NewService(repo Repository, log logrus.FieldLogger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, log: log, loc: loc}
}

// --------------------------------------------------
// Single order with its total
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Total = Total(o.Items)
	return o, nil
}

// --------------------------------------------------
// Calendar (month grid or week)
// --------------------------------------------------
func (s *Service) Calendar(ctx context.Context, view string, date time.Time) (*Calendar, error) {
	date = date.In(s.loc)

	var from, to time.Time
	switch view {
	case ViewMonth, "":
		view = ViewMonth
		from, to = MonthGrid(date)
	case ViewWeek:
		from, to = WeekRange(date)
	default:
		return nil, ErrUnknownView
	}

	orders, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &Calendar{
		View: view,
		From: from,
		To:   to,
		Days: BucketByDay(orders, from, to),
	}, nil
}

// LineItems feeds the checklist aggregator. Rows that fail validation are logged and
// left out instead of failing the whole checklist.
func (s *Service) LineItems(ctx context.Context, orderID string) ([]checklist.LineItem, error) {
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, checklist.ErrUnknownOrder
		}
		return nil, err
	}

	out := make([]checklist.LineItem, 0, len(items))
	for i, it := range items {
		li, err := checklist.NewLineItem(it.ProductID, it.ProductName, it.Quantity)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id": orderID,
				"position": i,
			}).Warn("skipping order item")
			continue
		}
		out = append(out, *li)
	}
	return out, nil
}
