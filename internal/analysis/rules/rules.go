package rules

import (
	"fmt"
	"time"

	"tradeguard/internal/models"
)

// OverLeverageRule fires when the average position size exceeds the
// configured maximum. Severity scales linearly from 0 at the limit to
// 100 at three times the limit.
type OverLeverageRule struct {
	MaxPositionSizePct float64
	MinSeverity        float64
}

func (r *OverLeverageRule) Name() string       { return "over_leverage" }
func (r *OverLeverageRule) Threshold() float64 { return r.MinSeverity }

func (r *OverLeverageRule) Evaluate(m models.Metrics, _ models.Ledger) (models.Finding, bool) {
	if r.MaxPositionSizePct <= 0 || m.TotalTrades == 0 {
		return models.Finding{}, false
	}
	avg := m.AvgPositionSizePct
	if avg <= r.MaxPositionSizePct {
		return models.Finding{}, false
	}
	severity := clamp((avg-r.MaxPositionSizePct)/(2*r.MaxPositionSizePct)*100, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("average position size is %.1f%% of account balance, above the %.1f%% limit",
			avg, r.MaxPositionSizePct),
	}, true
}

// MissingStopLossRule fires when stop-loss usage falls below the
// configured minimum. Severity is the share of trades without one.
type MissingStopLossRule struct {
	MinSLUsageRate float64
	MinSeverity    float64
}

func (r *MissingStopLossRule) Name() string       { return "missing_stop_loss" }
func (r *MissingStopLossRule) Threshold() float64 { return r.MinSeverity }

func (r *MissingStopLossRule) Evaluate(m models.Metrics, _ models.Ledger) (models.Finding, bool) {
	if m.TotalTrades == 0 || m.SLUsageRate >= r.MinSLUsageRate {
		return models.Finding{}, false
	}
	severity := clamp(100-m.SLUsageRate, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("%.0f%% of trades were entered without a stop-loss order",
			100-m.SLUsageRate),
	}, true
}

// PoorRiskRewardRule fires when the average risk:reward ratio falls
// below the configured minimum, saturating at 100 as the ratio
// approaches zero. Skipped when the ratio is degenerate (no wins or no
// losses to compare).
type PoorRiskRewardRule struct {
	MinRiskReward float64
	MinSeverity   float64
}

func (r *PoorRiskRewardRule) Name() string       { return "poor_risk_reward" }
func (r *PoorRiskRewardRule) Threshold() float64 { return r.MinSeverity }

func (r *PoorRiskRewardRule) Evaluate(m models.Metrics, _ models.Ledger) (models.Finding, bool) {
	if r.MinRiskReward <= 0 || m.RiskRewardRatio <= 0 {
		return models.Finding{}, false
	}
	if m.RiskRewardRatio >= r.MinRiskReward {
		return models.Finding{}, false
	}
	severity := clamp((r.MinRiskReward-m.RiskRewardRatio)/r.MinRiskReward*100, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("average risk:reward ratio is 1:%.2f, below the 1:%.2f minimum",
			m.RiskRewardRatio, r.MinRiskReward),
	}, true
}

// RevengeTradingRule scans the raw ledger for trades opened within a
// short window after a losing trade closed. Severity scales with the
// frequency of such sequences relative to total trades.
type RevengeTradingRule struct {
	WindowMinutes int
	MinSeverity   float64
}

func (r *RevengeTradingRule) Name() string       { return "revenge_trading" }
func (r *RevengeTradingRule) Threshold() float64 { return r.MinSeverity }

func (r *RevengeTradingRule) Evaluate(_ models.Metrics, ledger models.Ledger) (models.Finding, bool) {
	if len(ledger) < 2 || r.WindowMinutes <= 0 {
		return models.Finding{}, false
	}
	window := time.Duration(r.WindowMinutes) * time.Minute
	sequences := 0
	for i := 0; i < len(ledger)-1; i++ {
		prev, next := ledger[i], ledger[i+1]
		if prev.ProfitLoss >= 0 || prev.ExitTime.IsZero() || next.EntryTime.IsZero() {
			continue
		}
		gap := next.EntryTime.Sub(prev.ExitTime)
		if gap >= 0 && gap <= window {
			sequences++
		}
	}
	if sequences == 0 {
		return models.Finding{}, false
	}
	severity := clamp(float64(sequences)/float64(len(ledger))*100*2, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("%d trade(s) opened within %d minutes of a losing trade closing",
			sequences, r.WindowMinutes),
	}, true
}

// ExcessiveDrawdownRule fires when the maximum drawdown exceeds the
// configured alert threshold.
type ExcessiveDrawdownRule struct {
	AlertPct    float64
	MinSeverity float64
}

func (r *ExcessiveDrawdownRule) Name() string       { return "excessive_drawdown" }
func (r *ExcessiveDrawdownRule) Threshold() float64 { return r.MinSeverity }

func (r *ExcessiveDrawdownRule) Evaluate(m models.Metrics, _ models.Ledger) (models.Finding, bool) {
	if r.AlertPct <= 0 || r.AlertPct >= 100 || m.MaxDrawdownPct <= r.AlertPct {
		return models.Finding{}, false
	}
	severity := clamp((m.MaxDrawdownPct-r.AlertPct)/(100-r.AlertPct)*100, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("maximum drawdown reached %.1f%%, above the %.1f%% alert level",
			m.MaxDrawdownPct, r.AlertPct),
	}, true
}

// OvertradingRule fires when the busiest trading day exceeds the
// configured daily trade limit.
type OvertradingRule struct {
	MaxDailyTrades int
	MinSeverity    float64
}

func (r *OvertradingRule) Name() string       { return "overtrading" }
func (r *OvertradingRule) Threshold() float64 { return r.MinSeverity }

func (r *OvertradingRule) Evaluate(m models.Metrics, _ models.Ledger) (models.Finding, bool) {
	if r.MaxDailyTrades <= 0 || m.MaxTradesPerDay <= r.MaxDailyTrades {
		return models.Finding{}, false
	}
	over := float64(m.MaxTradesPerDay-r.MaxDailyTrades) / float64(r.MaxDailyTrades)
	severity := clamp(over*100, 0, 100)
	return models.Finding{
		Severity: severity,
		Message: fmt.Sprintf("busiest day had %d trades, above the %d per-day limit",
			m.MaxTradesPerDay, r.MaxDailyTrades),
	}, true
}
