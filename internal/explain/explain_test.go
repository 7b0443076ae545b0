package explain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeguard/internal/config"
	"tradeguard/internal/errors"
	"tradeguard/internal/models"
)

func analysisFixture() models.AnalysisResult {
	return models.AnalysisResult{
		Metrics: models.Metrics{TotalTrades: 20, WinRate: 50, SLUsageRate: 75},
		DetectedRisks: []string{"missing_stop_loss", "over_leverage"},
		RiskDetails: map[string]models.Finding{
			"missing_stop_loss": {
				RiskName: "missing_stop_loss", Severity: 25,
				Message: "25% of trades were entered without a stop-loss order",
			},
			"over_leverage": {
				RiskName: "over_leverage", Severity: 50,
				Message: "average position size is 4.0% of account balance, above the 2.0% limit",
			},
		},
		Score: models.ScoreResult{Score: 78.5, Grade: "B", TotalRisks: 2, TopRisks: []string{"over_leverage"}},
	}
}

func TestDemoExplainerCoversAllDetectedRisks(t *testing.T) {
	result := analysisFixture()
	exp, err := NewDemoExplainer().Explain(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, "demo", exp.Source)
	for _, name := range result.DetectedRisks {
		text, ok := exp.RiskExplanations[name]
		require.True(t, ok, "missing explanation for %s", name)
		// Each explanation ends with the rule's observation.
		assert.Contains(t, text, result.RiskDetails[name].Message)
	}
	assert.Contains(t, exp.Summary, "78.5")
	assert.Contains(t, exp.Summary, "not advice")
}

func TestDemoExplainerIsDeterministic(t *testing.T) {
	result := analysisFixture()
	demo := NewDemoExplainer()

	first, err := demo.Explain(context.Background(), result)
	require.NoError(t, err)
	second, err := demo.Explain(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDemoExplainerUnknownRisk(t *testing.T) {
	result := analysisFixture()
	result.DetectedRisks = append(result.DetectedRisks, "weekend_gap")
	result.RiskDetails["weekend_gap"] = models.Finding{
		RiskName: "weekend_gap", Severity: 10, Message: "positions held over weekends",
	}

	exp, err := NewDemoExplainer().Explain(context.Background(), result)
	require.NoError(t, err)

	text := exp.RiskExplanations["weekend_gap"]
	assert.Contains(t, text, "custom rule")
	assert.Contains(t, text, "positions held over weekends")
}

type failingExplainer struct{}

func (failingExplainer) Name() string { return "failing" }

func (failingExplainer) Explain(context.Context, models.AnalysisResult) (*Explanation, error) {
	return nil, errors.NewExplainError("test", "always", errors.ErrExplainerOffline)
}

func TestWithFallbackSubstitutesDemoContent(t *testing.T) {
	result := analysisFixture()
	exp := WithFallback(context.Background(), failingExplainer{}, result)

	require.NotNil(t, exp)
	assert.Equal(t, "demo", exp.Source)
	assert.Len(t, exp.RiskExplanations, len(result.DetectedRisks))
}

func TestForConfigSelectsImplementation(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "demo", ForConfig(cfg).Name())

	cfg.Explainer.Mode = "openai"
	// Mode alone is not enough without a credential.
	assert.Equal(t, "demo", ForConfig(cfg).Name())

	cfg.Credentials.OpenAI.APIKey = "sk-test"
	assert.Equal(t, "openai", ForConfig(cfg).Name())
}

func TestParseResponse(t *testing.T) {
	content := strings.Join([]string{
		"missing_stop_loss: Trading without a stop leaves losses unbounded.",
		"",
		"over_leverage: Position sizes were large relative to the account.",
		"summary: A solid period overall with two patterns worth attention.",
	}, "\n")

	exp := parseResponse(content, []string{"missing_stop_loss", "over_leverage"})

	assert.Equal(t, "openai", exp.Source)
	assert.Equal(t, "Trading without a stop leaves losses unbounded.",
		exp.RiskExplanations["missing_stop_loss"])
	assert.Equal(t, "Position sizes were large relative to the account.",
		exp.RiskExplanations["over_leverage"])
	assert.Equal(t, "A solid period overall with two patterns worth attention.", exp.Summary)
}

func TestParseResponseSloppyOutput(t *testing.T) {
	// No recognizable risk prefixes at all: everything folds into the
	// summary rather than being dropped.
	content := "The trader did reasonably well this period.\nKeep an eye on position sizing."
	exp := parseResponse(content, []string{"over_leverage"})

	assert.Empty(t, exp.RiskExplanations)
	assert.Contains(t, exp.Summary, "reasonably well")
	assert.Contains(t, exp.Summary, "position sizing")
}
