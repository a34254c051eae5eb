package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrEntryNotFound = errors.New("entry is not part of this checklist")

var ErrUnknownFormat = errors.New("unknown export format")

// Recorder receives checklist activity for metrics
type Recorder interface {
	ChecklistBuilt(groups, entries int)
	EntryToggled()
	Exported(format string)
	SessionsOpen(n int)
}

type nopRecorder struct{}

func (nopRecorder) ChecklistBuilt(int, int) {}
func (nopRecorder) EntryToggled()           {}
func (nopRecorder) Exported(string)         {}
func (nopRecorder) SessionsOpen(int)        {}

type Options struct {
	ReceiptWidth int
	RowsPerPage  int

	// Archive is optional; exports are only returned inline without it
	Archive ExportArchive
	Metrics Recorder
}

type Service struct {
	items    LineItemSource
	defs     DefinitionRepository
	sessions *SessionStore
	archive  ExportArchive
	metrics  Recorder
	log      logrus.FieldLogger
	now      func() time.Time

	receiptWidth int
	rowsPerPage  int
}

func NewService(
	items LineItemSource,
	defs DefinitionRepository,
	sessions *SessionStore,
	log logrus.FieldLogger,
	opts Options,
) *Service {
	s := &Service{
		items:        items,
		defs:         defs,
		sessions:     sessions,
		archive:      opts.Archive,
		metrics:      opts.Metrics,
		log:          log,
		now:          time.Now,
		receiptWidth: opts.ReceiptWidth,
		rowsPerPage:  opts.RowsPerPage,
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.receiptWidth <= 0 {
		s.receiptWidth = DefaultReceiptWidth
	}
	if s.rowsPerPage <= 0 {
		s.rowsPerPage = DefaultRowsPerPage
	}
	return s
}

// --------------------------------------------------
// Build checklist for an order (stateless)
// --------------------------------------------------
func (s *Service) BuildForOrder(ctx context.Context, orderID string) ([]Group, error) {
	lineItems, err := s.items.LineItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch line items: %w", err)
	}
	if len(lineItems) == 0 {
		return []Group{}, nil
	}

	defs, err := s.defs.ListByProducts(ctx, ProductIDs(lineItems))
	if err != nil {
		return nil, fmt.Errorf("fetch checklist definitions: %w", err)
	}

	groups := Build(lineItems, defs)

	_, total := CompletionRatio(groups, nil)
	s.metrics.ChecklistBuilt(len(groups), total)
	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"groups":   len(groups),
		"entries":  total,
	}).Debug("checklist built")

	return groups, nil
}

// --------------------------------------------------
// Checklist views
// --------------------------------------------------

// OpenSession builds the order's checklist and opens a view over it for userID with nothing checked.
// No view is opened when the order data cannot be fetched.
func (s *Service) OpenSession(ctx context.Context, orderID, userID string) (*Session, View, error) {
	groups, err := s.BuildForOrder(ctx, orderID)
	if err != nil {
		return nil, View{}, err
	}

	sess := s.sessions.Open(orderID, userID)
	s.metrics.SessionsOpen(s.sessions.Len())
	s.log.WithFields(logrus.Fields{
		"order_id":   orderID,
		"session_id": sess.ID,
		"user_id":    userID,
	}).Info("checklist view opened")

	return sess, NewView(orderID, groups, sess.State(), s.now()), nil
}

// Snapshot returns the view as userID currently sees it
func (s *Service) Snapshot(ctx context.Context, sessionID, userID string) (View, error) {
	sess, err := s.sessions.Get(sessionID, userID)
	if err != nil {
		return View{}, err
	}

	groups, err := s.BuildForOrder(ctx, sess.OrderID)
	if err != nil {
		return View{}, err
	}

	return NewView(sess.OrderID, groups, sess.State(), s.now()), nil
}

// Toggle flips entryID in the view and returns the refreshed view
func (s *Service) Toggle(ctx context.Context, sessionID, entryID, userID string) (View, error) {
	sess, err := s.sessions.Get(sessionID, userID)
	if err != nil {
		return View{}, err
	}

	groups, err := s.BuildForOrder(ctx, sess.OrderID)
	if err != nil {
		return View{}, err
	}
	if !containsEntry(groups, entryID) {
		return View{}, ErrEntryNotFound
	}

	sess.Toggle(entryID)
	s.metrics.EntryToggled()

	return NewView(sess.OrderID, groups, sess.State(), s.now()), nil
}

// CloseSession discards the view; its checks are not kept anywhere
func (s *Service) CloseSession(ctx context.Context, sessionID, userID string) error {
	if err := s.sessions.Close(sessionID, userID); err != nil {
		return err
	}
	s.metrics.SessionsOpen(s.sessions.Len())
	s.log.WithField("session_id", sessionID).Info("checklist view closed")
	return nil
}

// RunSessionReaper drops abandoned views every interval until ctx is done
func (s *Service) RunSessionReaper(ctx context.Context, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Expire(maxAge); n > 0 {
				s.metrics.SessionsOpen(s.sessions.Len())
				s.log.WithField("expired", n).Info("stale checklist views dropped")
			}
		}
	}
}

// --------------------------------------------------
// Export
// --------------------------------------------------

type Export struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
	Pages       []Page `json:"pages,omitempty"`
	Receipt     string `json:"receipt,omitempty"`
	URL         string `json:"url,omitempty"`
	View        View   `json:"view"`
}

// Export renders the view exactly as it is checked at this moment.
// rowsPerPage <= 0 uses the configured default.
func (s *Service) Export(ctx context.Context, sessionID, userID, format string, rowsPerPage int) (*Export, error) {
	if format == "" {
		format = FormatReceipt
	}
	if format != FormatReceipt && format != FormatDocument {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	view, err := s.Snapshot(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	out := &Export{Format: format, View: view}
	ext := "txt"

	switch format {
	case FormatReceipt:
		out.Receipt = RenderReceipt(view, s.receiptWidth)
		out.Body = []byte(out.Receipt)
		out.ContentType = "text/plain; charset=utf-8"
	case FormatDocument:
		if rowsPerPage <= 0 {
			rowsPerPage = s.rowsPerPage
		}
		out.Pages = Paginate(view, rowsPerPage)
		body, err := json.Marshal(struct {
			OrderID     string    `json:"order_id"`
			GeneratedAt time.Time `json:"generated_at"`
			Checked     int       `json:"checked"`
			Total       int       `json:"total"`
			Pages       []Page    `json:"pages"`
		}{view.OrderID, view.GeneratedAt, view.Checked, view.Total, out.Pages})
		if err != nil {
			return nil, err
		}
		out.Body = body
		out.ContentType = "application/json"
		ext = "json"
	}

	s.metrics.Exported(format)

	if s.archive != nil {
		key := fmt.Sprintf("checklists/%s/%s.%s", view.OrderID, view.GeneratedAt.UTC().Format("20060102T150405Z"), ext)
		url, err := s.archive.Put(ctx, key, out.Body, out.ContentType)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("checklist export not archived")
		} else {
			out.URL = url
		}
	}

	return out, nil
}

// --------------------------------------------------
// Definitions (product management)
// --------------------------------------------------

type DefinitionInput struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	QuantityPerUnit int    `json:"quantity_per_unit"`
	Mode            string `json:"mode"`
	Ordering        int    `json:"ordering"`
}

func (s *Service) ListDefinitions(ctx context.Context, productID string) ([]ItemDefinition, error) {
	return s.defs.ListByProduct(ctx, productID)
}

// SaveDefinition creates the definition, or updates it when in.ID is set
func (s *Service) SaveDefinition(ctx context.Context, productID string, in DefinitionInput) (*ItemDefinition, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	} else {
		existing, err := s.defs.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.ProductID != productID {
			return nil, ErrDefinitionNotFound
		}
	}

	def, err := NewItemDefinition(id, productID, in.Description, in.QuantityPerUnit, in.Mode, in.Ordering)
	if err != nil {
		return nil, err
	}

	if err := s.defs.Save(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *Service) DeleteDefinition(ctx context.Context, productID, id string) error {
	return s.defs.Delete(ctx, productID, id)
}

func containsEntry(groups []Group, entryID string) bool {
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.ID == entryID {
				return true
			}
		}
	}
	return false
}
