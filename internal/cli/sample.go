package cli

import (
	"github.com/spf13/cobra"

	"tradeguard/internal/ledger"
	"tradeguard/internal/sample"
)

func newSampleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a demo trade ledger",
		Long: `Sample writes a seeded pseudo-random trade ledger in the upload
schema. The same seed always produces the same file, which makes it
useful for demos and for trying the analyzer without real data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades, _ := cmd.Flags().GetInt("trades")
			seed, _ := cmd.Flags().GetInt64("seed")
			outPath, _ := cmd.Flags().GetString("out")

			opts := sample.DefaultOptions()
			opts.Trades = trades
			opts.Seed = seed
			generated := sample.Generate(opts)

			if err := ledger.WriteFile(outPath, generated); err != nil {
				return err
			}

			app.Logger.Debug().Int("trades", len(generated)).Int64("seed", seed).Msg("Sample ledger generated")
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":   outPath,
					"trades": len(generated),
					"seed":   seed,
				})
			}
			output.Success("✓ Wrote %d trades to %s", len(generated), outPath)
			output.Dim("Try: tradeguard analyze %s", outPath)
			return nil
		},
	}

	cmd.Flags().Int("trades", 100, "number of trades to generate")
	cmd.Flags().Int64("seed", 42, "random seed")
	cmd.Flags().String("out", "sample_trades.csv", "output file path")
	return cmd
}
