package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"budgetpace/internal/amqp"
	"budgetpace/internal/core"
	"budgetpace/internal/storage"
)

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, e *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *e)
	return nil
}

type recordingInvalidator struct {
	owners []string
}

func (r *recordingInvalidator) InvalidateOwner(owner string) {
	r.owners = append(r.owners, owner)
}

// fieldOf returns the field named by a validation error, or "".
func fieldOf(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
