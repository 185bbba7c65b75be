// Package backend selects the ledger mirror the worker writes to.
package backend

import (
	"context"
	"fmt"

	"budgetpace/internal/config"
	applog "budgetpace/internal/log"
	"budgetpace/internal/sheets"
	gsheet "budgetpace/internal/sheets/google"
	"budgetpace/internal/sheets/memory"
)

// Type names a mirror implementation.
type Type string

const (
	Google Type = "google"
	Memory Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the mirror type is known
func (t Type) IsValid() bool {
	switch t {
	case Google, Memory:
		return true
	default:
		return false
	}
}

// NewMirror builds the mirror named by cfg.MirrorBackend.
func NewMirror(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.TransactionMirror, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentSheets)

	t := Type(cfg.MirrorBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid mirror backend: %s", cfg.MirrorBackend)
	}

	switch t {
	case Google:
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets mirror: %w", err)
		}
		logger.Info("Initialized Google Sheets mirror",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return client, nil
	default:
		logger.Warn("Using in-memory mirror, rows are lost on restart")
		return memory.New(), nil
	}
}
