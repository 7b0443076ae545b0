// Package ledger loads and validates trade ledgers from CSV files.
//
// The analysis pipeline assumes a validated ledger: malformed rows are
// rejected here, questionable-but-legal rows (inverted timestamps, zero
// stop-loss) pass through with a warning attached.
package ledger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"tradeguard/internal/errors"
	"tradeguard/internal/models"
)

// TimeLayout is the timestamp format expected in uploaded CSVs.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the required CSV header, in order.
const Header = "trade_id,symbol,entry_time,exit_time,trade_type,lot_size,entry_price,exit_price,stop_loss,take_profit,profit_loss,account_balance_before"

// DateTime wraps time.Time with the ledger CSV timestamp format.
type DateTime struct {
	time.Time
}

// UnmarshalCSV implements gocsv unmarshalling for ledger timestamps.
func (d *DateTime) UnmarshalCSV(s string) error {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalCSV implements gocsv marshalling for ledger timestamps.
func (d DateTime) MarshalCSV() (string, error) {
	return d.Time.Format(TimeLayout), nil
}

// Row is one CSV record in the upload schema.
type Row struct {
	TradeID              string   `csv:"trade_id"`
	Symbol               string   `csv:"symbol"`
	EntryTime            DateTime `csv:"entry_time"`
	ExitTime             DateTime `csv:"exit_time"`
	TradeType            string   `csv:"trade_type"`
	LotSize              float64  `csv:"lot_size"`
	EntryPrice           float64  `csv:"entry_price"`
	ExitPrice            float64  `csv:"exit_price"`
	StopLoss             float64  `csv:"stop_loss"`
	TakeProfit           float64  `csv:"take_profit"`
	ProfitLoss           float64  `csv:"profit_loss"`
	AccountBalanceBefore float64  `csv:"account_balance_before"`
}

// Result is a loaded ledger plus non-fatal warnings collected per row.
type Result struct {
	Ledger   models.Ledger
	Warnings []string
}

// LoadFile reads and validates a ledger CSV from disk.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError("ledger", path, "opening file", err)
	}
	defer f.Close()

	res, err := Load(f)
	if err != nil {
		return nil, errors.NewDataError("ledger", path, "parsing CSV", err)
	}
	return res, nil
}

// Load reads and validates a ledger CSV from a reader.
func Load(r io.Reader) (*Result, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrEmptyLedger
	}

	res := &Result{Ledger: make(models.Ledger, 0, len(rows))}
	for i, row := range rows {
		trade, err := row.toTrade(i + 1)
		if err != nil {
			return nil, err
		}
		res.collectWarnings(i+1, trade)
		res.Ledger = append(res.Ledger, trade)
	}

	// Ordering is significant for drawdown and streak computations.
	sort.SliceStable(res.Ledger, func(i, j int) bool {
		return res.Ledger[i].EntryTime.Before(res.Ledger[j].EntryTime)
	})

	return res, nil
}

func (row *Row) toTrade(n int) (models.Trade, error) {
	var zero models.Trade

	tt := models.TradeType(strings.ToUpper(strings.TrimSpace(row.TradeType)))
	if tt != models.TradeBuy && tt != models.TradeSell {
		return zero, errors.NewValidationError(n, "trade_type", row.TradeType, "must be BUY or SELL")
	}
	if row.LotSize <= 0 {
		return zero, errors.NewValidationError(n, "lot_size", row.LotSize, "must be positive")
	}
	if row.EntryPrice <= 0 {
		return zero, errors.NewValidationError(n, "entry_price", row.EntryPrice, "must be positive")
	}
	if row.ExitPrice <= 0 {
		return zero, errors.NewValidationError(n, "exit_price", row.ExitPrice, "must be positive")
	}
	if row.AccountBalanceBefore <= 0 {
		return zero, errors.NewValidationError(n, "account_balance_before", row.AccountBalanceBefore, "must be positive")
	}
	if strings.TrimSpace(row.Symbol) == "" {
		return zero, errors.NewValidationError(n, "symbol", row.Symbol, "must not be empty")
	}

	return models.Trade{
		TradeID:              strings.TrimSpace(row.TradeID),
		Symbol:               strings.ToUpper(strings.TrimSpace(row.Symbol)),
		EntryTime:            row.EntryTime.Time,
		ExitTime:             row.ExitTime.Time,
		TradeType:            tt,
		LotSize:              row.LotSize,
		EntryPrice:           row.EntryPrice,
		ExitPrice:            row.ExitPrice,
		StopLoss:             row.StopLoss,
		TakeProfit:           row.TakeProfit,
		ProfitLoss:           row.ProfitLoss,
		AccountBalanceBefore: row.AccountBalanceBefore,
	}, nil
}

func (res *Result) collectWarnings(n int, t models.Trade) {
	if t.ExitTime.Before(t.EntryTime) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("row %d: exit_time before entry_time, treated as zero duration", n))
	}
	if t.StopLoss < 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("row %d: negative stop_loss on %s", n, t.Symbol))
	}
}

// WriteFile writes a ledger to disk in the upload schema. Used by the
// sample generator and by tests; analysis never writes ledgers.
func WriteFile(path string, trades models.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewDataError("ledger", path, "creating file", err)
	}
	defer f.Close()
	return Write(f, trades)
}

// Write writes a ledger to a writer in the upload schema.
func Write(w io.Writer, trades models.Ledger) error {
	rows := make([]*Row, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, &Row{
			TradeID:              t.TradeID,
			Symbol:               t.Symbol,
			EntryTime:            DateTime{t.EntryTime},
			ExitTime:             DateTime{t.ExitTime},
			TradeType:            string(t.TradeType),
			LotSize:              t.LotSize,
			EntryPrice:           t.EntryPrice,
			ExitPrice:            t.ExitPrice,
			StopLoss:             t.StopLoss,
			TakeProfit:           t.TakeProfit,
			ProfitLoss:           t.ProfitLoss,
			AccountBalanceBefore: t.AccountBalanceBefore,
		})
	}
	return gocsv.Marshal(rows, w)
}
