package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradeguard/internal/analysis"
	"tradeguard/internal/explain"
	"tradeguard/internal/ledger"
	"tradeguard/internal/logging"
	"tradeguard/internal/report"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <ledger.csv>",
		Short: "Generate a risk health report",
		Long: `Report runs the full analysis and renders a shareable report in
Markdown or HTML. With --out the report is written to a file, otherwise
it is printed to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("out")
			withExplain, _ := cmd.Flags().GetBool("explain")

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

			rendered, err := report.Render(report.Format(format), result, exp, time.Now())
			if err != nil {
				return err
			}

			if outPath == "" {
				output.Print("%s", rendered)
				return nil
			}

			if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
				return err
			}
			output.Success("✓ Report written to %s", outPath)
			return nil
		},
	}

	cmd.Flags().String("format", "md", "report format: md or html")
	cmd.Flags().String("out", "", "output file path (default: stdout)")
	cmd.Flags().Bool("explain", false, "include AI explanations in the report")
	return cmd
}
