package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Fake order source used only for tests.
*/
type fakeLineItems struct {
	orders map[string][]LineItem
	err    error
	calls  int
}

func (f *fakeLineItems) LineItems(ctx context.Context, orderID string) ([]LineItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.orders[orderID]
	if !ok {
		return nil, ErrUnknownOrder
	}
	return items, nil
}

type fakeArchive struct {
	keys []string
	body []byte
	err  error
}

func (a *fakeArchive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	a.body = body
	return "https://files.example/" + key, nil
}

type countingRecorder struct {
	builds, toggles int
	exports         map[string]int
	open            int
}

func (r *countingRecorder) ChecklistBuilt(int, int) { r.builds++ }
func (r *countingRecorder) EntryToggled()           { r.toggles++ }
func (r *countingRecorder) Exported(f string)       { r.exports[f]++ }
func (r *countingRecorder) SessionsOpen(n int)      { r.open = n }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T, opts Options) (*Service, *fakeLineItems) {
	t.Helper()

	src := &fakeLineItems{orders: map[string][]LineItem{
		"order-1": {
			{ProductID: "cake", ProductName: "Cake", Quantity: 2},
			{ProductID: "water", ProductName: "Water", Quantity: 12},
			{ProductID: "cake", ProductName: "Cake", Quantity: 1},
		},
		"empty": {},
	}}
	repo := NewInMemoryRepository(
		def("board", "cake", 1, PerUnit, 1),
		def("candle", "cake", 1, Fixed, 2),
		def("knife", "cake", 1, Fixed, 0),
	)

	svc := NewService(src, repo, NewSessionStore(), quietLogger(), opts)
	svc.now = func() time.Time { return fixedNow }
	return svc, src
}

func TestService_BuildForOrder(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	groups, err := svc.BuildForOrder(context.Background(), "order-1")
	require.NoError(t, err)

	require.Len(t, groups, 2, "water has no checklist")
	assert.Equal(t, []Entry{
		{ID: "knife", Description: "item knife", Quantity: 1},
		{ID: "board", Description: "item board", Quantity: 2},
		{ID: "candle", Description: "item candle", Quantity: 1},
	}, groups[0].Entries)
	assert.Equal(t, 1, groups[1].Entries[1].Quantity)
}

func TestService_BuildForOrder_Errors(t *testing.T) {
	svc, src := newTestService(t, Options{})

	_, err := svc.BuildForOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownOrder)

	src.err = errors.New("connection refused")
	_, err = svc.BuildForOrder(context.Background(), "order-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch line items")
}

func TestService_SessionFlow(t *testing.T) {
	rec := &countingRecorder{exports: map[string]int{}}
	svc, _ := newTestService(t, Options{Metrics: rec})
	ctx := context.Background()

	sess, view, err := svc.OpenSession(ctx, "order-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Checked)
	assert.Equal(t, 6, view.Total)
	assert.Equal(t, 1, rec.open)

	view, err = svc.Toggle(ctx, sess.ID, "board", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Checked, "board appears in both cake groups")

	view, err = svc.Toggle(ctx, sess.ID, "knife", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 4, view.Checked)

	view, err = svc.Toggle(ctx, sess.ID, "board", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Checked)
	assert.Equal(t, 3, rec.toggles)

	_, err = svc.Toggle(ctx, sess.ID, "not-there", "u-1")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, svc.CloseSession(ctx, sess.ID, "u-1"))
	assert.Equal(t, 0, rec.open)
	_, err = svc.Snapshot(ctx, sess.ID, "u-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	again, view, err := svc.OpenSession(ctx, "order-1", "u-1")
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, again.ID)
	assert.Equal(t, 0, view.Checked, "checks are not kept after the view closes")
}

func TestService_SessionOwnership(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	sess, _, err := svc.OpenSession(ctx, "order-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)

	_, err = svc.Toggle(ctx, sess.ID, "knife", "u-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Snapshot(ctx, sess.ID, "u-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Export(ctx, sess.ID, "u-2", FormatReceipt, 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.CloseSession(ctx, sess.ID, "u-2"), ErrSessionNotFound)

	view, err := svc.Snapshot(ctx, sess.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Checked, "a rejected toggle changes nothing")
	require.NoError(t, svc.CloseSession(ctx, sess.ID, "u-1"))
}

func TestService_OpenSession_FetchFailureOpensNothing(t *testing.T) {
	svc, src := newTestService(t, Options{})
	src.err = errors.New("timeout")

	_, _, err := svc.OpenSession(context.Background(), "order-1", "u-1")
	require.Error(t, err)
	assert.Equal(t, 0, svc.sessions.Len())
}

func TestService_EmptyOrder(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	_, view, err := svc.OpenSession(context.Background(), "empty", "u-1")
	require.NoError(t, err)
	assert.False(t, view.Available)
	assert.Empty(t, view.Groups)
}

func TestService_ExportMatchesView(t *testing.T) {
	archive := &fakeArchive{}
	rec := &countingRecorder{exports: map[string]int{}}
	svc, _ := newTestService(t, Options{Archive: archive, Metrics: rec, ReceiptWidth: 32, RowsPerPage: 3})
	ctx := context.Background()

	sess, _, err := svc.OpenSession(ctx, "order-1", "u-1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, sess.ID, "candle", "u-1")
	require.NoError(t, err)

	receipt, err := svc.Export(ctx, sess.ID, "u-1", FormatReceipt, 0)
	require.NoError(t, err)
	assert.Contains(t, receipt.Receipt, "[x] item candle")
	assert.Contains(t, receipt.Receipt, "Done: 2/6")
	assert.Equal(t, "text/plain; charset=utf-8", receipt.ContentType)
	assert.Equal(t, "https://files.example/checklists/order-1/20261019T143000Z.txt", receipt.URL)

	doc, err := svc.Export(ctx, sess.ID, "u-1", FormatDocument, 0)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 4)
	assert.Equal(t, "application/json", doc.ContentType)

	var decoded struct {
		Checked int    `json:"checked"`
		Pages   []Page `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(doc.Body, &decoded))
	assert.Equal(t, 2, decoded.Checked)
	assert.Len(t, decoded.Pages, 4)

	assert.Equal(t, 1, rec.exports[FormatReceipt])
	assert.Equal(t, 1, rec.exports[FormatDocument])
	assert.Len(t, archive.keys, 2)

	_, err = svc.Export(ctx, sess.ID, "u-1", "pdf", 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestService_ExportArchiveFailureIsNotFatal(t *testing.T) {
	svc, _ := newTestService(t, Options{Archive: &fakeArchive{err: errors.New("bucket down")}})
	ctx := context.Background()

	sess, _, err := svc.OpenSession(ctx, "order-1", "u-1")
	require.NoError(t, err)

	out, err := svc.Export(ctx, sess.ID, "u-1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, FormatReceipt, out.Format)
	assert.Empty(t, out.URL)
}

func TestService_SaveDefinition(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	created, err := svc.SaveDefinition(ctx, "water", DefinitionInput{
		Description:     "Cups",
		QuantityPerUnit: 1,
		Mode:            "multiplo",
		Ordering:        1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	groups, err := svc.BuildForOrder(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, groups, 3, "water now has a checklist")
	assert.Equal(t, 12, groups[1].Entries[0].Quantity)

	updated, err := svc.SaveDefinition(ctx, "water", DefinitionInput{
		ID:              created.ID,
		Description:     "Cups",
		QuantityPerUnit: 2,
		Mode:            "unitario",
	})
	require.NoError(t, err)
	assert.Equal(t, Fixed, updated.Mode)

	_, err = svc.SaveDefinition(ctx, "cake", DefinitionInput{ID: created.ID, Description: "x", QuantityPerUnit: 1, Mode: "unitario"})
	assert.ErrorIs(t, err, ErrDefinitionNotFound, "a definition cannot move to another product")

	_, err = svc.SaveDefinition(ctx, "water", DefinitionInput{Description: "Bad", QuantityPerUnit: 0, Mode: "unitario"})
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	require.NoError(t, svc.DeleteDefinition(ctx, "water", created.ID))
	assert.ErrorIs(t, svc.DeleteDefinition(ctx, "water", created.ID), ErrDefinitionNotFound)
}

func TestService_SessionReaper(t *testing.T) {
	rec := &countingRecorder{exports: map[string]int{}}
	svc, _ := newTestService(t, Options{Metrics: rec})

	_, _, err := svc.OpenSession(context.Background(), "order-1", "u-1")
	require.NoError(t, err)
	require.Equal(t, 1, svc.sessions.Len())

	svc.sessions.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSessionReaper(ctx, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.sessions.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 0, rec.open)
}
