package models

// Finding is one rule's output: a named risk condition with a continuous
// severity and a human-readable description of the observed condition.
// The message describes what was seen, never what to do about it.
type Finding struct {
	RiskName string  `json:"risk_name"`
	Severity float64 `json:"severity"` // 0-100
	Message  string  `json:"message"`
}

// BreakdownEntry is one risk's contribution to the final score.
type BreakdownEntry struct {
	Risk         string  `json:"risk"`
	Severity     float64 `json:"severity"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// RiskBreakdown buckets detected findings by severity for visualization.
// Thresholds: severity < 40 low, < 70 medium, >= 70 high.
type RiskBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ScoreResult is the pipeline's final artifact, rebuilt fresh each run.
type ScoreResult struct {
	Score                float64          `json:"score"` // 0-100
	Grade                string           `json:"grade"`
	GradeColor           string           `json:"grade_color"`
	ImprovementPotential int              `json:"improvement_potential"`
	TotalRisks           int              `json:"total_risks"`
	Breakdown            []BreakdownEntry `json:"breakdown"`
	RiskBreakdown        RiskBreakdown    `json:"risk_breakdown"`
	Recommendation       string           `json:"recommendation"`
	TopRisks             []string         `json:"top_risks"`
	// Warnings surfaces configuration problems (e.g. a detected risk with
	// no configured weight) without failing the scoring run.
	Warnings []string `json:"warnings,omitempty"`
}

// AnalysisResult bundles the three core artifacts of one pipeline run.
// This is the triple consumed by the explainer and the report generator.
type AnalysisResult struct {
	Metrics       Metrics            `json:"metrics"`
	DetectedRisks []string           `json:"detected_risks"`
	RiskDetails   map[string]Finding `json:"risk_details"`
	Score         ScoreResult        `json:"score"`
}
