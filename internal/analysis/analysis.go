// Package analysis wires the three-stage risk pipeline: metrics
// calculation, rule evaluation, and score aggregation.
package analysis

import (
	"tradeguard/internal/analysis/metrics"
	"tradeguard/internal/analysis/rules"
	"tradeguard/internal/analysis/scoring"
	"tradeguard/internal/config"
	"tradeguard/internal/models"
)

// Pipeline runs one complete analysis: Ledger in, AnalysisResult out.
// It holds no state between runs; every invocation is a pure function of
// the input ledger and the loaded configuration, so independent requests
// can run in parallel on a shared Pipeline.
type Pipeline struct {
	calculator *metrics.Calculator
	engine     *rules.Engine
	scorer     *scoring.Scorer
}

// NewPipeline builds the standard pipeline from configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		calculator: metrics.NewCalculator(cfg, metrics.DrawdownSource(cfg.Risk.DrawdownSource)),
		engine:     rules.NewEngine(cfg.Risk),
		scorer:     scoring.NewScorer(cfg),
	}
}

// Run executes the three stages in order and bundles the artifacts.
func (p *Pipeline) Run(ledger models.Ledger) models.AnalysisResult {
	m := p.calculator.ComputeAll(ledger)
	det := p.engine.DetectAll(m, ledger)
	score := p.scorer.CalculateScore(det.Findings())

	return models.AnalysisResult{
		Metrics:       m,
		DetectedRisks: det.DetectedRisks,
		RiskDetails:   det.RiskDetails,
		Score:         score,
	}
}

// Engine exposes the rule engine, e.g. for listing registered rules.
func (p *Pipeline) Engine() *rules.Engine {
	return p.engine
}
