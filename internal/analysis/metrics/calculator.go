// Package metrics reduces an ordered trade ledger to a fixed set of
// scalar performance and risk statistics.
package metrics

import (
	"math"

	"tradeguard/internal/models"
)

// ContractSizer resolves the notional contract size for an instrument.
// config.Config satisfies this.
type ContractSizer interface {
	ContractSize(symbol string) float64
}

// DrawdownSource selects how the equity curve is reconstructed.
type DrawdownSource string

const (
	// DrawdownFromBalance trusts each trade's own account_balance_before
	// as the pre-trade equity checkpoint.
	DrawdownFromBalance DrawdownSource = "balance"
	// DrawdownCumulative applies profit_loss sequentially to the first
	// trade's starting balance.
	DrawdownCumulative DrawdownSource = "cumulative"
)

// Calculator computes all metrics for a ledger. It is stateless and safe
// for concurrent use; every run is a pure function of its input.
type Calculator struct {
	contracts ContractSizer
	source    DrawdownSource
}

// NewCalculator creates a metrics calculator.
func NewCalculator(contracts ContractSizer, source DrawdownSource) *Calculator {
	if source != DrawdownCumulative {
		source = DrawdownFromBalance
	}
	return &Calculator{contracts: contracts, source: source}
}

// ComputeAll derives every metric from the ledger. It never fails: an
// empty ledger yields the defined defaults, degenerate statistics resolve
// to sentinels, and no returned value is ever NaN or infinite.
func (c *Calculator) ComputeAll(ledger models.Ledger) models.Metrics {
	m := models.Metrics{
		// Vacuously true with no trades: every trade has a stop-loss.
		SLUsageRate: 100,
	}
	if len(ledger) == 0 {
		return m
	}

	m.TotalTrades = len(ledger)

	var (
		wins, losses   int
		withSL         int
		grossProfit    float64
		grossLoss      float64
		largestLoss    float64
		sizePctSum     float64
		sizePctSamples int
		holdHoursSum   float64
	)

	for _, t := range ledger {
		m.NetProfit += t.ProfitLoss
		if t.IsWin() {
			wins++
			grossProfit += t.ProfitLoss
		} else if t.ProfitLoss < 0 {
			losses++
			grossLoss += -t.ProfitLoss
			if t.ProfitLoss < largestLoss {
				largestLoss = t.ProfitLoss
			}
		}
		if t.HasStopLoss() {
			withSL++
		}
		if t.AccountBalanceBefore > 0 {
			notional := t.LotSize * c.contractSize(t.Symbol)
			sizePctSum += notional / t.AccountBalanceBefore * 100
			sizePctSamples++
		}
		if d := t.HoldDuration(); d > 0 {
			holdHoursSum += d.Hours()
		}
	}

	total := float64(m.TotalTrades)
	m.WinRate = clamp(float64(wins)/total*100, 0, 100)
	m.SLUsageRate = clamp(float64(withSL)/total*100, 0, 100)
	m.GrossProfit = grossProfit
	m.GrossLoss = grossLoss
	m.LargestLoss = largestLoss

	if grossLoss > 0 {
		m.ProfitFactor = math.Min(grossProfit/grossLoss, models.ProfitFactorCap)
	} else if grossProfit > 0 {
		// No losing trades: capped sentinel, never infinity.
		m.ProfitFactor = models.ProfitFactorCap
	}

	if wins > 0 {
		m.AvgWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = grossLoss / float64(losses)
	}
	if m.AvgLoss > 0 && m.AvgWin > 0 {
		m.RiskRewardRatio = m.AvgWin / m.AvgLoss
	}

	if sizePctSamples > 0 {
		m.AvgPositionSizePct = math.Max(sizePctSum/float64(sizePctSamples), 0)
	}

	m.MaxDrawdownPct = clamp(c.maxDrawdown(ledger), 0, 100)
	m.AvgHoldHours = holdHoursSum / total

	perDay := tradesPerDay(ledger)
	if days := len(perDay); days > 0 {
		m.TradesPerDay = total / float64(days)
		for _, n := range perDay {
			if n > m.MaxTradesPerDay {
				m.MaxTradesPerDay = n
			}
		}
	}

	return m
}

func (c *Calculator) contractSize(symbol string) float64 {
	if c.contracts == nil {
		return 1.0
	}
	if size := c.contracts.ContractSize(symbol); size > 0 {
		return size
	}
	return 1.0
}

// maxDrawdown walks the reconstructed equity curve and returns the
// largest peak-to-trough decline as a percentage of the peak.
func (c *Calculator) maxDrawdown(ledger models.Ledger) float64 {
	var maxDD float64
	peak := 0.0

	observe := func(equity float64) {
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}

	switch c.source {
	case DrawdownCumulative:
		equity := ledger[0].AccountBalanceBefore
		observe(equity)
		for _, t := range ledger {
			equity += t.ProfitLoss
			observe(equity)
		}
	default:
		equity := 0.0
		for _, t := range ledger {
			pre := t.AccountBalanceBefore
			if pre <= 0 {
				// Checkpoint missing: apply P&L to the running curve.
				pre = equity
			}
			if pre <= 0 {
				continue
			}
			observe(pre)
			equity = pre + t.ProfitLoss
			observe(equity)
		}
	}

	return maxDD
}

func tradesPerDay(ledger models.Ledger) map[string]int {
	perDay := make(map[string]int)
	for _, t := range ledger {
		if t.EntryTime.IsZero() {
			continue
		}
		perDay[t.EntryTime.Format("2006-01-02")]++
	}
	return perDay
}

// clamp restricts a value to the given range and squashes NaN to the
// lower bound so no caller ever sees an undefined metric.
func clamp(value, minVal, maxVal float64) float64 {
	if math.IsNaN(value) {
		return minVal
	}
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
