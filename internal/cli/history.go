package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tradeguard/internal/errors"
	"tradeguard/internal/models"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			if app.Store == nil {
				return errors.Wrap(errors.ErrDatabaseError, "history store unavailable")
			}

			runs, err := app.Store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(runs)
			}

			if len(runs) == 0 {
				output.Dim("No analysis runs recorded yet.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Source", "Trades", "Score", "Grade", "Risks")
			for _, run := range runs {
				table.AddRow(
					strconv.FormatInt(run.ID, 10),
					FormatDate(run.CreatedAt),
					TruncateString(run.Source, 40),
					strconv.Itoa(run.TradeCount),
					fmt.Sprintf("%.1f", run.Score),
					run.Grade,
					strconv.Itoa(run.TotalRisks),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
	cmd.AddCommand(newHistoryShowCmd(app))
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one past analysis run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				return errors.Wrap(errors.ErrDatabaseError, "history store unavailable")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id: %s", args[0])
			}

			run, err := app.Store.GetRun(cmd.Context(), id)
			if err != nil {
				return err
			}

			var result models.AnalysisResult
			if err := json.Unmarshal([]byte(run.ResultJSON), &result); err != nil {
				return errors.Wrap(err, "decoding stored result")
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Dim("Run %d  %s  %s", run.ID, FormatDate(run.CreatedAt), run.Source)
			output.Println()
			printScorecard(output, result)
			printMetrics(output, result.Metrics)
			printFindings(output, result)
			return nil
		},
	}
}
