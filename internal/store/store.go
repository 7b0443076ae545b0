// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradeguard/internal/models"
)

// DataStore persists imported ledgers and completed analysis runs.
// The analysis pipeline itself never reads from the store; it exists so
// past runs can be listed and re-rendered.
type DataStore interface {
	// Ledger imports
	SaveImport(ctx context.Context, source string, trades models.Ledger) (int64, error)
	GetImport(ctx context.Context, id int64) (models.Ledger, error)
	ListImports(ctx context.Context, limit int) ([]ImportRecord, error)

	// Analysis runs
	SaveRun(ctx context.Context, run *RunRecord) (int64, error)
	GetRun(ctx context.Context, id int64) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Lifecycle
	Close() error
}

// ImportRecord describes one imported ledger file.
type ImportRecord struct {
	ID         int64
	Source     string
	TradeCount int
	ImportedAt time.Time
}

// RunRecord describes one completed analysis run.
type RunRecord struct {
	ID         int64
	ImportID   int64
	Source     string
	TradeCount int
	Score      float64
	Grade      string
	TotalRisks int
	ResultJSON string
	CreatedAt  time.Time
}
