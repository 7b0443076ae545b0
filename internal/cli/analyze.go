package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tradeguard/internal/analysis"
	"tradeguard/internal/explain"
	"tradeguard/internal/ledger"
	"tradeguard/internal/logging"
	"tradeguard/internal/models"
	"tradeguard/internal/store"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <ledger.csv>",
		Short: "Analyze a trade ledger for risk patterns",
		Long: `Analyze loads a CSV trade ledger, computes risk metrics, evaluates
detection rules, and prints a scorecard with the detected risk patterns.

The ledger must use the upload schema:
  ` + ledger.Header,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			withExplain, _ := cmd.Flags().GetBool("explain")
			noSave, _ := cmd.Flags().GetBool("no-save")

			res, err := ledger.LoadFile(args[0])
			if err != nil {
				return err
			}

			pipeline := analysis.NewPipeline(app.Config)
			result := pipeline.Run(res.Ledger)
			logging.LogAnalysis(app.Logger, args[0], len(res.Ledger), result.Score.Score, result.Score.Grade)

			var exp *explain.Explanation
			if withExplain {
				exp = explain.WithFallback(cmd.Context(), app.Explainer, result)
			}

			if !noSave && app.Store != nil {
				if err := saveRun(cmd, app, args[0], res.Ledger, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to save analysis run")
				}
			}

			if output.IsJSON() {
				return output.JSON(struct {
					models.AnalysisResult
					Warnings    []string             `json:"warnings,omitempty"`
					Explanation *explain.Explanation `json:"explanation,omitempty"`
				}{result, res.Warnings, exp})
			}

			printWarnings(output, res.Warnings)
			printScorecard(output, result)
			printMetrics(output, result.Metrics)
			printFindings(output, result)
			if exp != nil {
				printExplanation(output, result, exp)
			}
			return nil
		},
	}

	cmd.Flags().Bool("explain", false, "include AI explanations of detected risks")
	cmd.Flags().Bool("no-save", false, "do not record this run in history")
	return cmd
}

func saveRun(cmd *cobra.Command, app *App, source string, trades models.Ledger, result models.AnalysisResult) error {
	ctx := cmd.Context()
	importID, err := app.Store.SaveImport(ctx, source, trades)
	if err != nil {
		return err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = app.Store.SaveRun(ctx, &store.RunRecord{
		ImportID:   importID,
		Source:     source,
		TradeCount: len(trades),
		Score:      result.Score.Score,
		Grade:      result.Score.Grade,
		TotalRisks: result.Score.TotalRisks,
		ResultJSON: string(resultJSON),
	})
	return err
}

func printWarnings(output *Output, warnings []string) {
	for _, w := range warnings {
		output.Warning("⚠ %s", w)
	}
	if len(warnings) > 0 {
		output.Println()
	}
}

func printScorecard(output *Output, result models.AnalysisResult) {
	score := result.Score

	output.Bold("Risk Health Scorecard")
	output.Printf("  Overall Score:         %s/100\n",
		output.ColoredString(ColorBold, fmt.Sprintf("%.1f", score.Score)))
	output.Printf("  Grade:                 %s\n", output.GradeText(score.Grade, score.GradeColor))
	output.Printf("  Total Risks:           %d", score.TotalRisks)
	if score.TotalRisks > 0 {
		output.Printf(" (%d high, %d medium, %d low)",
			score.RiskBreakdown.High, score.RiskBreakdown.Medium, score.RiskBreakdown.Low)
	}
	output.Println()
	output.Printf("  Improvement Potential: %d%%\n", score.ImprovementPotential)
	output.Println()

	for _, w := range score.Warnings {
		output.Warning("⚠ %s", w)
	}
}

func printMetrics(output *Output, m models.Metrics) {
	output.Bold("Metrics")
	table := NewTable(output, "Metric", "Value")
	table.AddRow("Total Trades", fmt.Sprintf("%d", m.TotalTrades))
	table.AddRow("Win Rate", fmt.Sprintf("%.1f%%", m.WinRate))
	table.AddRow("Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor))
	table.AddRow("Net Profit", output.FormatPnL(m.NetProfit))
	table.AddRow("Avg Position Size", fmt.Sprintf("%.2f%%", m.AvgPositionSizePct))
	table.AddRow("Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdownPct))
	table.AddRow("Risk:Reward", fmt.Sprintf("%.2f", m.RiskRewardRatio))
	table.AddRow("Stop-Loss Usage", fmt.Sprintf("%.1f%%", m.SLUsageRate))
	table.AddRow("Avg Hold Time", fmt.Sprintf("%.1f h", m.AvgHoldHours))
	table.AddRow("Trades/Day", fmt.Sprintf("%.1f (max %d)", m.TradesPerDay, m.MaxTradesPerDay))
	table.Render()
	output.Println()
}

func printFindings(output *Output, result models.AnalysisResult) {
	score := result.Score
	if score.TotalRisks == 0 {
		output.Success("✓ No risk patterns crossed their reporting thresholds")
		return
	}

	output.Bold("Risk Findings")
	table := NewTable(output, "Risk", "Severity", "Weight", "Deduction")
	for _, entry := range score.Breakdown {
		table.AddRow(
			entry.Risk,
			output.SeverityText(entry.Severity),
			fmt.Sprintf("%.1f", entry.Weight),
			fmt.Sprintf("-%.1f", entry.Contribution),
		)
	}
	table.Render()
	output.Println()

	for _, name := range result.DetectedRisks {
		if finding, ok := result.RiskDetails[name]; ok {
			output.Printf("  %s %s\n", output.DimText("•"), finding.Message)
		}
	}
	output.Println()

	if len(score.TopRisks) > 0 {
		output.Bold("Priorities")
		for i, name := range score.TopRisks {
			output.Printf("  %d. %s\n", i+1, HumanizeRisk(name))
		}
		output.Println()
		output.Info("%s", score.Recommendation)
	}
}

func printExplanation(output *Output, result models.AnalysisResult, exp *explain.Explanation) {
	output.Println()
	output.Bold("Explanations (%s)", exp.Source)
	if exp.Summary != "" {
		output.Printf("  %s\n\n", exp.Summary)
	}
	for _, name := range result.DetectedRisks {
		if text, ok := exp.RiskExplanations[name]; ok {
			output.Printf("  %s\n  %s\n\n", output.BoldText(HumanizeRisk(name)), text)
		}
	}
	output.Dim("Educational content only. Not trading advice.")
}
