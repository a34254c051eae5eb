package ledger

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) time.Time { return time.Date(2026, time.October, d, 10, 0, 0, 0, time.UTC) }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seededRepository() *InMemoryRepository {
	repo := NewInMemoryRepository()
	repo.Add(Entry{Date: day(1).AddDate(0, 0, -1), Category: "Vendas", Kind: Income, Amount: amount("1000")})
	repo.Add(Entry{Date: day(3), Category: "Insumos", Kind: Expense, Amount: amount("100")})
	repo.Add(Entry{Date: day(1), Category: "Vendas", Kind: Income, Amount: amount("500")})
	repo.Add(Entry{Date: day(1), Category: "Insumos", Kind: Expense, Amount: amount("200")})
	repo.Add(Entry{Date: day(3), Category: "Aluguel", Kind: Expense, Amount: amount("300")})
	repo.Add(Entry{Date: day(5), Category: "Outros", Kind: Income, Amount: amount("50")})
	repo.Add(Entry{Date: day(9), Category: "Vendas", Kind: Income, Amount: amount("999")})
	return repo
}

func TestSigned(t *testing.T) {
	assert.True(t, Signed(Entry{Kind: Expense, Amount: amount("12.5")}).Equal(amount("-12.5")))
	assert.True(t, Signed(Entry{Kind: Income, Amount: amount("12.5")}).Equal(amount("12.5")))
	// negative amounts are normalized by kind
	assert.True(t, Signed(Entry{Kind: Expense, Amount: amount("-3")}).Equal(amount("-3")))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, amount("10"), time.UTC)

	assert.True(t, s.Balance.Equal(amount("10")))
	assert.True(t, s.Income.IsZero())
	assert.True(t, s.Expense.IsZero())
	assert.NotNil(t, s.ByDate)
	assert.NotNil(t, s.ByCategory)
}

func TestService_Summary(t *testing.T) {
	svc := NewService(seededRepository(), quietLogger(), time.UTC)

	s, err := svc.Summary(context.Background(), day(1).Truncate(24*time.Hour), day(6).Truncate(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "1000", s.Opening.String())
	assert.Equal(t, "550", s.Income.String())
	assert.Equal(t, "600", s.Expense.String())
	assert.Equal(t, "950", s.Balance.String())

	require.Len(t, s.ByDate, 3)
	assert.Equal(t, "2026-10-01", s.ByDate[0].Date)
	assert.Equal(t, "300", s.ByDate[0].Net.String())
	assert.Equal(t, "1300", s.ByDate[0].Running.String())
	assert.Equal(t, "2026-10-03", s.ByDate[1].Date)
	assert.Equal(t, "-400", s.ByDate[1].Net.String())
	assert.Equal(t, "900", s.ByDate[1].Running.String())
	assert.Equal(t, "950", s.ByDate[2].Running.String())

	require.Len(t, s.ByCategory, 4)
	got := make([]string, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		got = append(got, c.Category)
	}
	assert.Equal(t, []string{"Vendas", "Aluguel", "Insumos", "Outros"}, got)
	assert.Equal(t, Expense, s.ByCategory[1].Kind)
}

func TestService_SummaryRejectsEmptyPeriod(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), quietLogger(), time.UTC)

	_, err := svc.Summary(context.Background(), day(5), day(5))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

type failingRepository struct{}

func (failingRepository) ListBetween(context.Context, time.Time, time.Time) ([]Entry, error) {
	return nil, errors.New("connection reset")
}

func (failingRepository) BalanceBefore(context.Context, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func TestService_SummaryWrapsRepositoryErrors(t *testing.T) {
	svc := NewService(failingRepository{}, quietLogger(), time.UTC)

	_, err := svc.Summary(context.Background(), day(1), day(2))
	require.Error(t, err)
	assert.Equal(t, "list entries: connection reset", err.Error())
}

func TestSummarize_UsesLocationDays(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 23:30 in São Paulo is already the next day in UTC
	late := time.Date(2026, time.March, 10, 23, 30, 0, 0, loc).UTC()
	entries := []Entry{{Date: late, Category: "Vendas", Kind: Income, Amount: amount("100")}}

	s := Summarize(entries, decimal.Zero, loc)
	require.Len(t, s.ByDate, 1)
	assert.Equal(t, "2026-03-10", s.ByDate[0].Date)

	s = Summarize(entries, decimal.Zero, time.UTC)
	require.Len(t, s.ByDate, 1)
	assert.Equal(t, "2026-03-11", s.ByDate[0].Date)
}

func TestService_SummaryBucketsNearMidnightInConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	repo := NewInMemoryRepository()
	repo.Add(Entry{Date: time.Date(2026, time.March, 10, 23, 30, 0, 0, loc).UTC(), Category: "Vendas", Kind: Income, Amount: amount("200")})
	repo.Add(Entry{Date: time.Date(2026, time.March, 11, 0, 15, 0, 0, loc).UTC(), Category: "Insumos", Kind: Expense, Amount: amount("50")})

	svc := NewService(repo, quietLogger(), loc)
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, loc)

	s, err := svc.Summary(context.Background(), from, from.AddDate(0, 1, 0))
	require.NoError(t, err)

	require.Len(t, s.ByDate, 2)
	assert.Equal(t, "2026-03-10", s.ByDate[0].Date)
	assert.Equal(t, "200", s.ByDate[0].Running.String())
	assert.Equal(t, "2026-03-11", s.ByDate[1].Date)
	assert.Equal(t, "150", s.ByDate[1].Running.String())
}
