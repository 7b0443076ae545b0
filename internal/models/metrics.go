package models

import "math"

// ProfitFactorCap is the sentinel emitted for profit_factor when a ledger
// has no losing trades. Downstream consumers can format it; infinity they
// cannot.
const ProfitFactorCap = 999.99

// Metrics is the fixed set of scalar statistics derived from a ledger.
// Every field is always populated; degenerate inputs resolve to defined
// defaults rather than NaN, Inf, or missing keys.
type Metrics struct {
	TotalTrades        int     `json:"total_trades"`
	WinRate            float64 `json:"win_rate"`
	ProfitFactor       float64 `json:"profit_factor"`
	NetProfit          float64 `json:"net_profit"`
	GrossProfit        float64 `json:"gross_profit"`
	GrossLoss          float64 `json:"gross_loss"`
	AvgWin             float64 `json:"avg_win"`
	AvgLoss            float64 `json:"avg_loss"`
	LargestLoss        float64 `json:"largest_loss"`
	AvgPositionSizePct float64 `json:"avg_position_size_pct"`
	MaxDrawdownPct     float64 `json:"max_drawdown_pct"`
	RiskRewardRatio    float64 `json:"risk_reward_ratio"`
	SLUsageRate        float64 `json:"sl_usage_rate"`
	AvgHoldHours       float64 `json:"avg_hold_hours"`
	TradesPerDay       float64 `json:"trades_per_day"`
	MaxTradesPerDay    int     `json:"max_trades_per_day"`
}

// Validate rejects metrics that escaped the calculator's clamping.
// A failure here is a programming bug, not a data condition.
func (m Metrics) Validate() error {
	checks := map[string]float64{
		"win_rate":              m.WinRate,
		"profit_factor":         m.ProfitFactor,
		"net_profit":            m.NetProfit,
		"avg_position_size_pct": m.AvgPositionSizePct,
		"max_drawdown_pct":      m.MaxDrawdownPct,
		"risk_reward_ratio":     m.RiskRewardRatio,
		"sl_usage_rate":         m.SLUsageRate,
	}
	for name, v := range checks {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidMetricError{Name: name, Value: v}
		}
	}
	for name, v := range map[string]float64{"win_rate": m.WinRate, "sl_usage_rate": m.SLUsageRate} {
		if v < 0 || v > 100 {
			return &InvalidMetricError{Name: name, Value: v}
		}
	}
	return nil
}

// InvalidMetricError reports a metric value outside its sane range.
type InvalidMetricError struct {
	Name  string
	Value float64
}

func (e *InvalidMetricError) Error() string {
	return "invalid metric " + e.Name
}
