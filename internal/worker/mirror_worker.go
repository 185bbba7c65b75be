package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgetpace/internal/amqp"
	"budgetpace/internal/core"
	"budgetpace/internal/sheets"
	"budgetpace/internal/storage"
)

// TransactionReader loads the committed row an event refers to.
type TransactionReader interface {
	GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error)
	EachTransaction(ctx context.Context, owner string, fn func(core.Transaction) error) error
}

// MirrorWorker copies transaction changes into a spreadsheet mirror.
type MirrorWorker struct {
	store  TransactionReader
	mirror sheets.TransactionMirror
}

func NewMirrorWorker(store TransactionReader, mirror sheets.TransactionMirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// HandleEvent applies one event. Events carry only ids, so created and
// updated reload the row; a row that is gone by then is removed instead.
// A returned error makes the consumer requeue the delivery.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	logger := slog.With("component", "worker", "event", ev.Event, "transaction_id", ev.ID, "owner", ev.Owner)

	switch ev.Event {
	case amqp.EventCreated, amqp.EventUpdated:
		t, err := w.store.GetTransaction(ctx, ev.Owner, ev.ID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.InfoContext(ctx, "Transaction no longer exists, removing from mirror")
			return w.remove(ctx, ev.ID)
		}
		if err != nil {
			return fmt.Errorf("load transaction %s: %w", ev.ID, err)
		}
		if err := w.mirror.Upsert(ctx, t); err != nil {
			logger.ErrorContext(ctx, "Failed to mirror transaction", "error", err)
			return fmt.Errorf("upsert transaction %s: %w", ev.ID, err)
		}
		logger.InfoContext(ctx, "Mirrored transaction", "amount_cents", t.Amount.Cents)
		return nil

	case amqp.EventDeleted:
		if err := w.remove(ctx, ev.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to remove transaction from mirror", "error", err)
			return err
		}
		logger.InfoContext(ctx, "Removed transaction from mirror")
		return nil
	}
	return fmt.Errorf("%w: %q", amqp.ErrInvalidEvent, ev.Event)
}

func (w *MirrorWorker) remove(ctx context.Context, id string) error {
	if err := w.mirror.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove transaction %s: %w", id, err)
	}
	return nil
}

// Backfill mirrors every stored transaction of owner. It recovers a sheet
// that missed events while the worker was down.
func (w *MirrorWorker) Backfill(ctx context.Context, owner string) (synced, failed int, err error) {
	err = w.store.EachTransaction(ctx, owner, func(t core.Transaction) error {
		if err := w.mirror.Upsert(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction during backfill",
				"transaction_id", t.ID, "error", err)
			failed++
			return nil
		}
		synced++
		return nil
	})
	if err != nil {
		return synced, failed, fmt.Errorf("backfill %s: %w", owner, err)
	}

	slog.InfoContext(ctx, "Backfill completed",
		"owner", owner,
		"synced", synced,
		"errors", failed)
	return synced, failed, nil
}
