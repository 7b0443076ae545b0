// Package explain turns computed risk findings into educational prose.
//
// The pipeline never depends on this output; explainers are read-only
// consumers of the (metrics, findings, score) triple. Two
// implementations exist: a deterministic offline one and a remote
// OpenAI-backed one, selected by configuration.
package explain

import (
	"context"
	"fmt"
	"strings"

	"tradeguard/internal/config"
	"tradeguard/internal/models"
)

// Explanation is the explainer's output. Fields are read by the report
// generator and CLI; nothing here is written back into the analysis.
type Explanation struct {
	Summary          string            `json:"summary"`
	RiskExplanations map[string]string `json:"risk_explanations"`
	Source           string            `json:"source"` // "demo" or "openai"
}

// Explainer generates prose explanations for one analysis run.
type Explainer interface {
	// Explain produces educational text for the result triple.
	Explain(ctx context.Context, result models.AnalysisResult) (*Explanation, error)
	// Name identifies the implementation for logging.
	Name() string
}

// ForConfig selects the explainer implementation from configuration.
// Remote mode requires a credential; everything else gets demo mode.
func ForConfig(cfg *config.Config) Explainer {
	if cfg.HasRemoteExplainer() {
		return NewOpenAIExplainer(cfg.Credentials.OpenAI.APIKey, cfg.Explainer.Model, cfg.Explainer.MaxTokens)
	}
	return NewDemoExplainer()
}

// WithFallback runs the explainer and substitutes demo content on any
// failure, so a remote outage never reaches the rendering path.
func WithFallback(ctx context.Context, e Explainer, result models.AnalysisResult) *Explanation {
	exp, err := e.Explain(ctx, result)
	if err != nil || exp == nil {
		exp, _ = NewDemoExplainer().Explain(ctx, result)
	}
	return exp
}

// DemoExplainer is the deterministic offline implementation: static
// pre-written text keyed by risk name. It never fails, which makes it
// the fallback when no remote credential is configured or a remote call
// errors.
type DemoExplainer struct{}

// NewDemoExplainer creates the offline explainer.
func NewDemoExplainer() *DemoExplainer {
	return &DemoExplainer{}
}

// Name identifies the implementation.
func (e *DemoExplainer) Name() string { return "demo" }

// Explain returns static educational text for each detected risk.
func (e *DemoExplainer) Explain(_ context.Context, result models.AnalysisResult) (*Explanation, error) {
	exp := &Explanation{
		RiskExplanations: make(map[string]string),
		Source:           "demo",
	}

	for _, name := range result.DetectedRisks {
		finding := result.RiskDetails[name]
		text, ok := demoTexts[name]
		if !ok {
			text = "This pattern was flagged by a custom rule. Review the affected trades to understand what the rule observed."
		}
		exp.RiskExplanations[name] = fmt.Sprintf("%s Observed: %s.", text, finding.Message)
	}

	exp.Summary = demoSummary(result)
	return exp, nil
}

func demoSummary(result models.AnalysisResult) string {
	score := result.Score
	var b strings.Builder
	fmt.Fprintf(&b, "This period scored %.1f/100 (grade %s) across %d trade(s). ",
		score.Score, score.Grade, result.Metrics.TotalTrades)
	if score.TotalRisks == 0 {
		b.WriteString("No risk patterns crossed their reporting thresholds.")
		return b.String()
	}
	fmt.Fprintf(&b, "%d risk pattern(s) contributed deductions", score.TotalRisks)
	if len(score.TopRisks) > 0 {
		fmt.Fprintf(&b, ", led by %s", strings.ReplaceAll(score.TopRisks[0], "_", " "))
	}
	b.WriteString(". The explanations below describe what each rule observed; they are educational, not advice.")
	return b.String()
}
