package metrics

import (
	"math"
	"testing"
	"time"

	"tradeguard/internal/models"
)

type fixedSizer float64

func (s fixedSizer) ContractSize(string) float64 { return float64(s) }

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// scenarioLedger builds 20 trades on separate days: 10 wins of +100,
// 10 losses of -50, 15 trades carrying a stop-loss.
func scenarioLedger() models.Ledger {
	ledger := make(models.Ledger, 0, 20)
	for i := 0; i < 20; i++ {
		pnl := 100.0
		if i%2 == 1 {
			pnl = -50.0
		}
		stopLoss := 95.0
		if i >= 15 {
			stopLoss = 0
		}
		ledger = append(ledger, models.Trade{
			TradeID:              "T" + string(rune('A'+i)),
			Symbol:               "AAPL",
			EntryTime:            day(i),
			ExitTime:             day(i).Add(2 * time.Hour),
			TradeType:            models.TradeBuy,
			LotSize:              1,
			EntryPrice:           100,
			ExitPrice:            100 + pnl,
			StopLoss:             stopLoss,
			ProfitLoss:           pnl,
			AccountBalanceBefore: 10000,
		})
	}
	return ledger
}

func TestComputeAllEmptyLedger(t *testing.T) {
	c := NewCalculator(nil, DrawdownFromBalance)
	m := c.ComputeAll(nil)

	if m.TotalTrades != 0 {
		t.Errorf("TotalTrades = %d, want 0", m.TotalTrades)
	}
	if m.SLUsageRate != 100 {
		t.Errorf("SLUsageRate = %f, want 100", m.SLUsageRate)
	}
	if m.WinRate != 0 || m.ProfitFactor != 0 || m.MaxDrawdownPct != 0 {
		t.Errorf("expected zero defaults, got %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("empty-ledger metrics failed validation: %v", err)
	}
}

func TestComputeAllScenario(t *testing.T) {
	c := NewCalculator(nil, DrawdownFromBalance)
	m := c.ComputeAll(scenarioLedger())

	if m.TotalTrades != 20 {
		t.Fatalf("TotalTrades = %d, want 20", m.TotalTrades)
	}
	if m.WinRate != 50.0 {
		t.Errorf("WinRate = %f, want 50.0", m.WinRate)
	}
	if m.SLUsageRate != 75.0 {
		t.Errorf("SLUsageRate = %f, want 75.0", m.SLUsageRate)
	}
	if m.NetProfit != 500 {
		t.Errorf("NetProfit = %f, want 500", m.NetProfit)
	}
	if m.ProfitFactor != 2.0 {
		t.Errorf("ProfitFactor = %f, want 2.0", m.ProfitFactor)
	}
	if m.AvgWin != 100 || m.AvgLoss != 50 {
		t.Errorf("AvgWin/AvgLoss = %f/%f, want 100/50", m.AvgWin, m.AvgLoss)
	}
	if m.RiskRewardRatio != 2.0 {
		t.Errorf("RiskRewardRatio = %f, want 2.0", m.RiskRewardRatio)
	}
	if m.LargestLoss != -50 {
		t.Errorf("LargestLoss = %f, want -50", m.LargestLoss)
	}
	if m.MaxTradesPerDay != 1 {
		t.Errorf("MaxTradesPerDay = %d, want 1", m.MaxTradesPerDay)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("scenario metrics failed validation: %v", err)
	}
}

func TestProfitFactorCappedOnAllWins(t *testing.T) {
	ledger := models.Ledger{
		{Symbol: "AAPL", EntryTime: day(0), ExitTime: day(0).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 110, ProfitLoss: 10, AccountBalanceBefore: 1000},
		{Symbol: "AAPL", EntryTime: day(1), ExitTime: day(1).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 120, ProfitLoss: 20, AccountBalanceBefore: 1010},
	}

	c := NewCalculator(nil, DrawdownFromBalance)
	m := c.ComputeAll(ledger)

	if m.ProfitFactor != models.ProfitFactorCap {
		t.Errorf("ProfitFactor = %f, want cap %f", m.ProfitFactor, models.ProfitFactorCap)
	}
	if math.IsInf(m.ProfitFactor, 0) || math.IsNaN(m.ProfitFactor) {
		t.Errorf("ProfitFactor is not finite: %f", m.ProfitFactor)
	}
	if m.WinRate != 100 {
		t.Errorf("WinRate = %f, want 100", m.WinRate)
	}
}

func TestMaxDrawdownCumulative(t *testing.T) {
	// 10000 -> 11000 -> 8800: peak 11000, trough 8800, drawdown 20%.
	ledger := models.Ledger{
		{Symbol: "AAPL", EntryTime: day(0), ExitTime: day(0).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 110, ProfitLoss: 1000, AccountBalanceBefore: 10000},
		{Symbol: "AAPL", EntryTime: day(1), ExitTime: day(1).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 80, ProfitLoss: -2200, AccountBalanceBefore: 11000},
	}

	c := NewCalculator(nil, DrawdownCumulative)
	m := c.ComputeAll(ledger)

	if math.Abs(m.MaxDrawdownPct-20.0) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %f, want 20.0", m.MaxDrawdownPct)
	}
}

func TestMaxDrawdownFromBalanceCheckpoints(t *testing.T) {
	// Balance checkpoints disagree with the cumulative curve; the balance
	// source trusts the checkpoints.
	ledger := models.Ledger{
		{Symbol: "AAPL", EntryTime: day(0), ExitTime: day(0).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 110, ProfitLoss: 500, AccountBalanceBefore: 10000},
		{Symbol: "AAPL", EntryTime: day(1), ExitTime: day(1).Add(time.Hour), TradeType: models.TradeSell,
			LotSize: 1, EntryPrice: 110, ExitPrice: 100, ProfitLoss: -3000, AccountBalanceBefore: 12000},
	}

	c := NewCalculator(nil, DrawdownFromBalance)
	m := c.ComputeAll(ledger)

	// Peak 12000, trough 9000: 25%.
	if math.Abs(m.MaxDrawdownPct-25.0) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %f, want 25.0", m.MaxDrawdownPct)
	}
}

func TestMaxDrawdownBalanceModeCarriesMissingCheckpoints(t *testing.T) {
	// The middle trade reports no balance; its P&L must still move the
	// equity curve instead of being dropped.
	ledger := models.Ledger{
		{Symbol: "AAPL", EntryTime: day(0), ExitTime: day(0).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 100, ProfitLoss: 0, AccountBalanceBefore: 10000},
		{Symbol: "AAPL", EntryTime: day(1), ExitTime: day(1).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 75, ProfitLoss: -2500, AccountBalanceBefore: 0},
		{Symbol: "AAPL", EntryTime: day(2), ExitTime: day(2).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 1, EntryPrice: 100, ExitPrice: 105, ProfitLoss: 500, AccountBalanceBefore: 7500},
	}

	c := NewCalculator(nil, DrawdownFromBalance)
	m := c.ComputeAll(ledger)

	// Peak 10000, trough 7500: 25%.
	if math.Abs(m.MaxDrawdownPct-25.0) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %f, want 25.0", m.MaxDrawdownPct)
	}
}

func TestPositionSizeUsesContractSize(t *testing.T) {
	ledger := models.Ledger{
		{Symbol: "EURUSD", EntryTime: day(0), ExitTime: day(0).Add(time.Hour), TradeType: models.TradeBuy,
			LotSize: 0.1, EntryPrice: 1.1, ExitPrice: 1.2, ProfitLoss: 10, AccountBalanceBefore: 10000},
	}

	// 0.1 lot * 100000 contract = 10000 notional on a 10000 balance: 100%.
	c := NewCalculator(fixedSizer(100000), DrawdownFromBalance)
	m := c.ComputeAll(ledger)

	if math.Abs(m.AvgPositionSizePct-100.0) > 1e-9 {
		t.Errorf("AvgPositionSizePct = %f, want 100.0", m.AvgPositionSizePct)
	}
}

func TestComputeAllIdempotent(t *testing.T) {
	ledger := scenarioLedger()
	c := NewCalculator(nil, DrawdownFromBalance)

	first := c.ComputeAll(ledger)
	second := c.ComputeAll(ledger)
	if first != second {
		t.Errorf("repeated runs differ: %+v vs %+v", first, second)
	}
}
