package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrInvalidPeriod = errors.New("period end must be after its start")

type Service struct {
	repo Repository
	log  logrus.FieldLogger
	loc  *time.Location
}

// NewService summarizes in loc; entries are bucketed on loc's calendar days
func NewService(repo Repository, log logrus.FieldLogger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, log: log, loc: loc}
}

// Summary returns the cash flow of [from, to) with the balance carried in from before from
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	if !to.After(from) {
		return nil, ErrInvalidPeriod
	}

	opening, err := s.repo.BalanceBefore(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("opening balance: %w", err)
	}

	entries, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sum := Summarize(entries, opening, s.loc)
	sum.From, sum.To = from, to

	s.log.WithFields(logrus.Fields{
		"from":    from.In(s.loc).Format(dayLayout),
		"to":      to.In(s.loc).Format(dayLayout),
		"entries": len(entries),
	}).Debug("cash flow summarized")

	return &sum, nil
}
