// Package services holds the write-side use cases of the ledger: recording
// transactions, managing categories and settings, metering usage quotas and
// suggesting categories for vendors. Services depend on small store
// interfaces so tests can use a real SQLite database or in-memory fakes.
package services

import "budgetpace/internal/core"

// Invalidator drops cached read models for an owner after a write.
type Invalidator interface {
	InvalidateOwner(owner string)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateOwner(string) {}

func fieldError(field string, err error) error {
	return &core.ValidationError{Field: field, Err: err}
}
