package models

import "time"

// TradeType is the direction of a trade.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Trade represents one closed trade from the uploaded ledger.
// A zero StopLoss or TakeProfit means none was set; that is valid data,
// not an error, and is itself risk-relevant.
type Trade struct {
	TradeID              string
	Symbol               string
	EntryTime            time.Time
	ExitTime             time.Time
	TradeType            TradeType
	LotSize              float64
	EntryPrice           float64
	ExitPrice            float64
	StopLoss             float64
	TakeProfit           float64
	ProfitLoss           float64
	AccountBalanceBefore float64
}

// IsWin reports whether the trade closed with a positive P&L.
func (t Trade) IsWin() bool {
	return t.ProfitLoss > 0
}

// HasStopLoss reports whether a stop-loss was set on the trade.
func (t Trade) HasStopLoss() bool {
	return t.StopLoss != 0
}

// HoldDuration returns the time the position was held.
// Inverted timestamps yield a non-positive duration; the loader flags
// those, the analysis tolerates them.
func (t Trade) HoldDuration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// Ledger is an ordered sequence of closed trades, entry time ascending.
// The analysis pipeline treats it as read-only input owned by the caller.
type Ledger []Trade
