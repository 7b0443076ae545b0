package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradeguard/internal/models"
)

// genTrade produces a structurally valid trade with arbitrary economics.
func genTrade() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-5000, 5000),  // profit_loss
		gen.Float64Range(100, 100000),  // account_balance_before
		gen.Float64Range(0.01, 100),    // lot_size
		gen.Float64Range(0.1, 50000),   // entry_price
		gen.Bool(),                     // has stop-loss
		gen.IntRange(0, 365),           // entry day offset
		gen.IntRange(0, 48),            // hold hours
	).Map(func(vals []interface{}) models.Trade {
		entry := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).
			AddDate(0, 0, vals[5].(int))
		stopLoss := 0.0
		if vals[4].(bool) {
			stopLoss = vals[3].(float64) * 0.98
		}
		return models.Trade{
			Symbol:               "AAPL",
			EntryTime:            entry,
			ExitTime:             entry.Add(time.Duration(vals[6].(int)) * time.Hour),
			TradeType:            models.TradeBuy,
			LotSize:              vals[2].(float64),
			EntryPrice:           vals[3].(float64),
			ExitPrice:            vals[3].(float64),
			StopLoss:             stopLoss,
			ProfitLoss:           vals[0].(float64),
			AccountBalanceBefore: vals[1].(float64),
		}
	})
}

func genLedger() gopter.Gen {
	return gen.SliceOf(genTrade()).Map(func(trades []models.Trade) models.Ledger {
		return models.Ledger(trades)
	})
}

// All rates stay inside [0, 100] and no metric is ever NaN or infinite,
// whatever the ledger looks like.
func TestMetricsBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	c := NewCalculator(nil, DrawdownFromBalance)

	properties.Property("rates bounded and all values finite", prop.ForAll(
		func(ledger models.Ledger) bool {
			m := c.ComputeAll(ledger)

			if m.WinRate < 0 || m.WinRate > 100 {
				t.Logf("WinRate out of range: %f", m.WinRate)
				return false
			}
			if m.SLUsageRate < 0 || m.SLUsageRate > 100 {
				t.Logf("SLUsageRate out of range: %f", m.SLUsageRate)
				return false
			}
			if m.MaxDrawdownPct < 0 || m.MaxDrawdownPct > 100 {
				t.Logf("MaxDrawdownPct out of range: %f", m.MaxDrawdownPct)
				return false
			}
			if m.ProfitFactor < 0 || m.ProfitFactor > models.ProfitFactorCap {
				t.Logf("ProfitFactor out of range: %f", m.ProfitFactor)
				return false
			}
			for _, v := range []float64{m.WinRate, m.ProfitFactor, m.NetProfit,
				m.AvgPositionSizePct, m.MaxDrawdownPct, m.RiskRewardRatio,
				m.SLUsageRate, m.AvgHoldHours, m.TradesPerDay} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Logf("non-finite metric: %f", v)
					return false
				}
			}
			return m.Validate() == nil
		},
		genLedger(),
	))

	properties.Property("calculation is deterministic", prop.ForAll(
		func(ledger models.Ledger) bool {
			return c.ComputeAll(ledger) == c.ComputeAll(ledger)
		},
		genLedger(),
	))

	properties.TestingRun(t)
}
