// Package scoring aggregates risk findings into a single 0-100 score
// with a letter grade and prioritized recommendations.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tradeguard/internal/config"
	"tradeguard/internal/models"
)

// TopRiskCount caps how many risk names appear in top_risks.
const TopRiskCount = 3

// Scorer converts findings into a ScoreResult using a static weight
// table and grade cutoffs. It is deterministic: the same findings and
// configuration always produce a bit-identical result.
type Scorer struct {
	weights map[string]float64
	grades  map[string]config.Grade
}

// NewScorer creates a scorer from the configured weight and grade tables.
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{
		weights: cfg.Weights,
		grades:  cfg.Grades,
	}
}

// NewScorerWithTables creates a scorer from explicit tables.
func NewScorerWithTables(weights map[string]float64, grades map[string]config.Grade) *Scorer {
	return &Scorer{weights: weights, grades: grades}
}

// CalculateScore aggregates ordered findings into the final result.
// Findings must arrive in detection order; the breakdown preserves it.
// A finding whose risk has no configured weight contributes nothing and
// is surfaced as a configuration warning rather than hidden.
func (s *Scorer) CalculateScore(findings []models.Finding) models.ScoreResult {
	result := models.ScoreResult{
		Breakdown: []models.BreakdownEntry{},
		TopRisks:  []string{},
	}

	var totalDeduction float64
	for _, f := range findings {
		weight, ok := s.weights[f.RiskName]
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("no weight configured for risk %q; it does not affect the score", f.RiskName))
			continue
		}
		severity := clamp(f.Severity, 0, 100)
		contribution := severity / 100 * weight
		if contribution <= 0 {
			continue
		}
		totalDeduction += contribution
		result.Breakdown = append(result.Breakdown, models.BreakdownEntry{
			Risk:         f.RiskName,
			Severity:     severity,
			Weight:       weight,
			Contribution: contribution,
		})

		switch {
		case severity >= 70:
			result.RiskBreakdown.High++
		case severity >= 40:
			result.RiskBreakdown.Medium++
		default:
			result.RiskBreakdown.Low++
		}
	}

	// One decimal of precision keeps rendered reports loss-free.
	result.Score = math.Round(clamp(100-totalDeduction, 0, 100)*10) / 10
	result.Grade, result.GradeColor = s.gradeFor(result.Score)
	result.ImprovementPotential = int(math.Round(100 - result.Score))
	result.TotalRisks = len(result.Breakdown)
	result.TopRisks = topRisks(result.Breakdown)
	result.Recommendation = s.recommendation(result.Grade, result.TopRisks)

	return result
}

func (s *Scorer) gradeFor(score float64) (string, string) {
	for _, letter := range config.GradeOrder {
		g, ok := s.grades[letter]
		if !ok {
			continue
		}
		if score >= g.Min {
			return letter, g.Color
		}
	}
	// Grade table exhausted without a match: worst bucket applies.
	if g, ok := s.grades["F"]; ok {
		return "F", g.Color
	}
	return "F", "red"
}

// topRisks ranks breakdown entries by contribution descending and
// returns the risk names, capped at TopRiskCount. Ties keep detection
// order so the ranking stays stable across runs.
func topRisks(breakdown []models.BreakdownEntry) []string {
	ranked := make([]models.BreakdownEntry, len(breakdown))
	copy(ranked, breakdown)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution > ranked[j].Contribution
	})

	n := len(ranked)
	if n > TopRiskCount {
		n = TopRiskCount
	}
	names := make([]string, 0, n)
	for _, entry := range ranked[:n] {
		names = append(names, entry.Risk)
	}
	return names
}

// recommendation selects a static template by grade and top risk.
// Pure text selection layered over the numeric result, never generative.
func (s *Scorer) recommendation(grade string, topRisks []string) string {
	topRisk := ""
	if len(topRisks) > 0 {
		topRisk = humanizeRisk(topRisks[0])
	}

	switch grade {
	case "A":
		if topRisk == "" {
			return "Excellent risk discipline across the board. No risk patterns stood out in this period."
		}
		return fmt.Sprintf("Excellent risk discipline overall. The only pattern worth a look is %s.", topRisk)
	case "B":
		return fmt.Sprintf("Good risk control with room to improve. Reviewing your %s pattern would have the biggest effect on the score.", topRisk)
	case "C":
		return fmt.Sprintf("Moderate risk profile. The largest deduction came from %s; those trades are the place to start a review.", topRisk)
	case "D":
		return fmt.Sprintf("High risk profile. The %s pattern dominated the deductions this period and masks everything else.", topRisk)
	default:
		return fmt.Sprintf("Critical risk profile. Multiple patterns deducted heavily, led by %s. A full review of recent trades is worthwhile.", topRisk)
	}
}

func humanizeRisk(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// GenerateScorecard renders a plain-text scorecard for terminal display.
func GenerateScorecard(result models.ScoreResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall Score: %.1f/100\n", result.Score)
	fmt.Fprintf(&b, "Grade: %s\n", result.Grade)
	fmt.Fprintf(&b, "Total Risks: %d\n", result.TotalRisks)
	fmt.Fprintf(&b, "Improvement Potential: %d%%\n", result.ImprovementPotential)
	if len(result.TopRisks) > 0 {
		fmt.Fprintf(&b, "Top Risks: %s\n", strings.Join(result.TopRisks, ", "))
	}
	for _, entry := range result.Breakdown {
		fmt.Fprintf(&b, "  %-20s severity %5.1f  weight %5.1f  -%.1f\n",
			entry.Risk, entry.Severity, entry.Weight, entry.Contribution)
	}
	return strings.TrimRight(b.String(), "\n")
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
