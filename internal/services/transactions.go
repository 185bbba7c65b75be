package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"budgetpace/internal/amqp"
	"budgetpace/internal/core"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// TransactionStore persists transactions. Create and Update also refresh
// the owner's vendor memory atomically with the row.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, owner, id string) error
	GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, owner string, limit int) ([]core.Transaction, error)
	EachTransaction(ctx context.Context, owner string, fn func(core.Transaction) error) error
}

// EventPublisher announces committed ledger changes.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, e *amqp.TransactionEvent) error
}

// NewTransaction is the create request after JSON decoding.
type NewTransaction struct {
	AmountCents int64
	Category    string
	Vendor      string
	Note        string
	OccurredAt  *time.Time
	Type        string
	IsRecurring bool
	Frequency   string
}

// TransactionPatch carries only the fields present in an edit request.
// Frequency set to an empty string clears it.
type TransactionPatch struct {
	AmountCents *int64
	Category    *string
	Vendor      *string
	Note        *string
	OccurredAt  *time.Time
	Type        *string
	IsRecurring *bool
	Frequency   *string
}

func (p TransactionPatch) empty() bool {
	return p.AmountCents == nil && p.Category == nil && p.Vendor == nil && p.Note == nil &&
		p.OccurredAt == nil && p.Type == nil && p.IsRecurring == nil && p.Frequency == nil
}

// TransactionService orchestrates ledger writes across the store, the
// stats cache and the mirror event stream.
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
	cache     Invalidator
	now       func() time.Time
}

// NewTransactionService wires the service. publisher and cache may be nil.
func NewTransactionService(store TransactionStore, publisher EventPublisher, cache Invalidator) *TransactionService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &TransactionService{store: store, publisher: publisher, cache: cache, now: time.Now}
}

func (s *TransactionService) Create(ctx context.Context, owner string, in NewTransaction) (core.Transaction, error) {
	txType, err := core.ParseTxType(in.Type)
	if err != nil {
		return core.Transaction{}, fieldError("type", err)
	}

	tx := core.Transaction{
		Owner:       owner,
		Amount:      core.Money{Cents: in.AmountCents},
		Category:    strings.TrimSpace(in.Category),
		Vendor:      strings.TrimSpace(in.Vendor),
		Note:        strings.TrimSpace(in.Note),
		OccurredAt:  s.now().UTC(),
		Type:        txType,
		IsRecurring: in.IsRecurring,
	}
	if in.OccurredAt != nil {
		tx.OccurredAt = in.OccurredAt.UTC()
	}
	if in.IsRecurring {
		tx.Frequency = parseFrequency(in.Frequency)
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.afterWrite(ctx, amqp.EventCreated, created.Owner, created.ID)
	return created, nil
}

// Update applies a partial edit. The merged row is validated as a whole, so
// a patch that turns on recurrence must carry a frequency unless the row
// already has one. Turning recurrence off clears the frequency.
func (s *TransactionService) Update(ctx context.Context, owner, id string, p TransactionPatch) (core.Transaction, error) {
	if p.empty() {
		return core.Transaction{}, fieldError("body", core.ErrNoFields)
	}

	tx, err := s.store.GetTransaction(ctx, owner, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if p.AmountCents != nil {
		tx.Amount = core.Money{Cents: *p.AmountCents}
	}
	if p.Category != nil {
		tx.Category = strings.TrimSpace(*p.Category)
	}
	if p.Vendor != nil {
		tx.Vendor = strings.TrimSpace(*p.Vendor)
	}
	if p.Note != nil {
		tx.Note = strings.TrimSpace(*p.Note)
	}
	if p.OccurredAt != nil {
		tx.OccurredAt = p.OccurredAt.UTC()
	}
	if p.Type != nil {
		t := core.TxType(strings.ToLower(strings.TrimSpace(*p.Type)))
		if !t.Valid() {
			return core.Transaction{}, fieldError("type", core.ErrInvalidType)
		}
		tx.Type = t
	}
	if p.IsRecurring != nil {
		tx.IsRecurring = *p.IsRecurring
	}
	if p.Frequency != nil {
		tx.Frequency = parseFrequency(*p.Frequency)
	}
	if !tx.IsRecurring {
		tx.Frequency = ""
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.afterWrite(ctx, amqp.EventUpdated, owner, id)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteTransaction(ctx, owner, id); err != nil {
		return err
	}
	s.afterWrite(ctx, amqp.EventDeleted, owner, id)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, owner, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, owner, id)
}

// List returns the newest transactions first; limit is clamped by ClampLimit.
func (s *TransactionService) List(ctx context.Context, owner string, limit int) ([]core.Transaction, error) {
	items, err := s.store.ListTransactions(ctx, owner, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if items == nil {
		items = []core.Transaction{}
	}
	return items, nil
}

// ClampLimit maps 0 to the default and everything else into [1, MaxListLimit].
func ClampLimit(n int) int {
	switch {
	case n == 0:
		return DefaultListLimit
	case n < 1:
		return 1
	case n > MaxListLimit:
		return MaxListLimit
	}
	return n
}

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{"Date", "Amount", "Vendor", "Category", "Note", "Type"}

// Export streams all of the owner's transactions as CSV, newest first.
func (s *TransactionService) Export(ctx context.Context, owner string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	err := s.store.EachTransaction(ctx, owner, func(t core.Transaction) error {
		return cw.Write([]string{
			t.OccurredAt.UTC().Format(time.DateOnly),
			t.Amount.String(),
			t.Vendor,
			t.Category,
			t.Note,
			string(t.Type),
		})
	})
	if err != nil {
		return fmt.Errorf("export transactions: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// afterWrite runs once the row is committed. Neither step can fail the write.
func (s *TransactionService) afterWrite(ctx context.Context, event amqp.EventType, owner, id string) {
	s.cache.InvalidateOwner(owner)

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(event, owner, id)); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event",
			"component", "ledger",
			"event", string(event),
			"transaction_id", id,
			"error", err)
	}
}

func parseFrequency(s string) core.Frequency {
	return core.Frequency(strings.ToLower(strings.TrimSpace(s)))
}
