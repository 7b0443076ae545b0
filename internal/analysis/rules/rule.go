// Package rules evaluates a ledger's metrics against configurable risk
// rules and produces severity-scored findings.
package rules

import (
	"fmt"
	"strings"

	"tradeguard/internal/config"
	"tradeguard/internal/models"
)

// Rule is one independent, side-effect-free risk check. Evaluate returns
// the finding and true when the rule fires; a rule that cannot be
// evaluated returns false rather than an error, so one broken rule never
// aborts the batch.
type Rule interface {
	// Name returns the unique risk name the rule reports under.
	Name() string
	// Evaluate computes the severity and message for the ledger.
	Evaluate(m models.Metrics, ledger models.Ledger) (models.Finding, bool)
	// Threshold is the minimum severity below which the finding is
	// omitted from the result entirely.
	Threshold() float64
}

// Detection is the engine's well-formed result: detected risk names in
// registry order plus the per-risk details.
type Detection struct {
	DetectedRisks []string                  `json:"detected_risks"`
	RiskDetails   map[string]models.Finding `json:"risk_details"`
}

// Engine holds an ordered registry of rules and evaluates all of them
// unconditionally on every run.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the standard rule set configured from
// the risk thresholds.
func NewEngine(cfg config.RiskConfig) *Engine {
	minSev := cfg.MinReportSeverity
	e := &Engine{}
	e.Register(
		&OverLeverageRule{MaxPositionSizePct: cfg.MaxPositionSizePct, MinSeverity: minSev},
		&MissingStopLossRule{MinSLUsageRate: cfg.MinSLUsageRate, MinSeverity: minSev},
		&PoorRiskRewardRule{MinRiskReward: cfg.MinRiskReward, MinSeverity: minSev},
		&RevengeTradingRule{WindowMinutes: cfg.RevengeWindowMin, MinSeverity: minSev},
		&ExcessiveDrawdownRule{AlertPct: cfg.MaxDrawdownAlertPct, MinSeverity: minSev},
		&OvertradingRule{MaxDailyTrades: cfg.MaxDailyTrades, MinSeverity: minSev},
	)
	return e
}

// Register appends rules to the registry. Order is evaluation and
// reporting order.
func (e *Engine) Register(rules ...Rule) {
	e.rules = append(e.rules, rules...)
}

// Rules returns the registered rules in order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// DetectAll evaluates every registered rule and collects the findings
// whose severity exceeds the rule's reporting threshold. The result is
// always well-formed, even when individual rules are skipped.
func (e *Engine) DetectAll(m models.Metrics, ledger models.Ledger) Detection {
	det := Detection{
		DetectedRisks: []string{},
		RiskDetails:   make(map[string]models.Finding),
	}
	for _, rule := range e.rules {
		finding, ok := rule.Evaluate(m, ledger)
		if !ok || finding.Severity <= rule.Threshold() {
			continue
		}
		finding.RiskName = rule.Name()
		finding.Severity = clamp(finding.Severity, 0, 100)
		det.DetectedRisks = append(det.DetectedRisks, rule.Name())
		det.RiskDetails[rule.Name()] = finding
	}
	return det
}

// Findings returns the detected findings in registry order. The order
// matters downstream: the scorer's breakdown preserves it.
func (d Detection) Findings() []models.Finding {
	findings := make([]models.Finding, 0, len(d.DetectedRisks))
	for _, name := range d.DetectedRisks {
		findings = append(findings, d.RiskDetails[name])
	}
	return findings
}

// Summary returns one display line per detected risk. Not consumed by
// the scorer.
func (d Detection) Summary() string {
	if len(d.DetectedRisks) == 0 {
		return "No risks detected."
	}
	var b strings.Builder
	for _, name := range d.DetectedRisks {
		f := d.RiskDetails[name]
		fmt.Fprintf(&b, "%s (severity %.0f): %s\n", name, f.Severity, f.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
