package services

import (
	"context"
	"fmt"
	"log/slog"

	"budgetpace/internal/amqp"
)

type AccountStore interface {
	DeleteOwnerData(ctx context.Context, owner string) ([]string, error)
}

// AccountService erases everything stored for an owner. Identity records
// live with the token issuer and are not touched.
type AccountService struct {
	store     AccountStore
	publisher EventPublisher
	cache     Invalidator
}

// NewAccountService wires the service. publisher and cache may be nil.
func NewAccountService(store AccountStore, publisher EventPublisher, cache Invalidator) *AccountService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &AccountService{store: store, publisher: publisher, cache: cache}
}

// Delete removes the owner's transactions, vendor memory, custom categories,
// usage counters and settings in one store transaction, then announces each
// removed transaction so the mirror drops its row. It returns how many
// transactions were removed.
func (s *AccountService) Delete(ctx context.Context, owner string) (int, error) {
	ids, err := s.store.DeleteOwnerData(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("delete account: %w", err)
	}
	s.cache.InvalidateOwner(owner)

	if s.publisher != nil {
		failed := 0
		for _, id := range ids {
			if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(amqp.EventDeleted, owner, id)); err != nil {
				failed++
			}
		}
		if failed > 0 {
			slog.WarnContext(ctx, "Failed to publish some account deletion events",
				"component", "ledger",
				"owner", owner,
				"failed", failed,
				"total", len(ids))
		}
	}
	return len(ids), nil
}
