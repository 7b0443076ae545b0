// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradeguard/internal/errors"
	"tradeguard/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Imported ledger files
	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		trade_count INTEGER NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trades belonging to an import
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id INTEGER NOT NULL,
		trade_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		entry_time DATETIME NOT NULL,
		exit_time DATETIME NOT NULL,
		trade_type TEXT NOT NULL,
		lot_size REAL NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		profit_loss REAL NOT NULL,
		account_balance_before REAL NOT NULL,
		FOREIGN KEY (import_id) REFERENCES imports(id)
	);
	CREATE INDEX IF NOT EXISTS idx_trades_import ON trades(import_id, entry_time);

	-- Completed analysis runs
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id INTEGER,
		source TEXT NOT NULL,
		trade_count INTEGER NOT NULL,
		score REAL NOT NULL,
		grade TEXT NOT NULL,
		total_risks INTEGER NOT NULL,
		result_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveImport stores a ledger and its trades in one transaction.
func (s *SQLiteStore) SaveImport(ctx context.Context, source string, trades models.Ledger) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning import transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, trade_count) VALUES (?, ?)`,
		source, len(trades))
	if err != nil {
		return 0, errors.Wrap(err, "inserting import")
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "reading import id")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (
			import_id, trade_id, symbol, entry_time, exit_time, trade_type,
			lot_size, entry_price, exit_price, stop_loss, take_profit,
			profit_loss, account_balance_before
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "preparing trade insert")
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx,
			importID, t.TradeID, t.Symbol, t.EntryTime, t.ExitTime, string(t.TradeType),
			t.LotSize, t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit,
			t.ProfitLoss, t.AccountBalanceBefore)
		if err != nil {
			return 0, errors.Wrapf(err, "inserting trade %s", t.TradeID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing import")
	}
	return importID, nil
}

// GetImport loads the trades of one import, entry time ascending.
func (s *SQLiteStore) GetImport(ctx context.Context, id int64) (models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, symbol, entry_time, exit_time, trade_type,
		       lot_size, entry_price, exit_price, stop_loss, take_profit,
		       profit_loss, account_balance_before
		FROM trades WHERE import_id = ? ORDER BY entry_time ASC`, id)
	if err != nil {
		return nil, errors.Wrap(err, "querying trades")
	}
	defer rows.Close()

	var ledger models.Ledger
	for rows.Next() {
		var t models.Trade
		var tradeType string
		if err := rows.Scan(&t.TradeID, &t.Symbol, &t.EntryTime, &t.ExitTime, &tradeType,
			&t.LotSize, &t.EntryPrice, &t.ExitPrice, &t.StopLoss, &t.TakeProfit,
			&t.ProfitLoss, &t.AccountBalanceBefore); err != nil {
			return nil, errors.Wrap(err, "scanning trade")
		}
		t.TradeType = models.TradeType(tradeType)
		ledger = append(ledger, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating trades")
	}
	if len(ledger) == 0 {
		return nil, errors.ErrDataNotFound
	}
	return ledger, nil
}

// ListImports returns the most recent imports.
func (s *SQLiteStore) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, trade_count, imported_at
		FROM imports ORDER BY imported_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying imports")
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.TradeCount, &rec.ImportedAt); err != nil {
			return nil, errors.Wrap(err, "scanning import")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveRun stores one completed analysis run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (import_id, source, trade_count, score, grade, total_risks, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ImportID, run.Source, run.TradeCount, run.Score, run.Grade, run.TotalRisks, run.ResultJSON)
	if err != nil {
		return 0, errors.Wrap(err, "inserting run")
	}
	return res.LastInsertId()
}

// GetRun loads one analysis run by id.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, import_id, source, trade_count, score, grade, total_risks, result_json, created_at
		FROM runs WHERE id = ?`, id)

	var run RunRecord
	err := row.Scan(&run.ID, &run.ImportID, &run.Source, &run.TradeCount,
		&run.Score, &run.Grade, &run.TotalRisks, &run.ResultJSON, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrDataNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scanning run")
	}
	return &run, nil
}

// ListRuns returns the most recent analysis runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, import_id, source, trade_count, score, grade, total_risks, result_json, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying runs")
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(&run.ID, &run.ImportID, &run.Source, &run.TradeCount,
			&run.Score, &run.Grade, &run.TotalRisks, &run.ResultJSON, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning run")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
