package cli

import (
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradeguard/internal/config"
	"tradeguard/internal/explain"
	"tradeguard/internal/logging"
	"tradeguard/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-24"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	Explainer explain.Explainer
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close store")
		}
		a.Store = nil
	}
}

// DefaultDBPath returns the path of the history database.
func DefaultDBPath() string {
	return filepath.Join(config.DefaultConfigDir(), "tradeguard.db")
}

// NewRootCmd creates the root command for the CLI. The returned cleanup
// releases the history store and must run after Execute, whether or not
// the command succeeded.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, func()) {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Explainer: explain.ForConfig(cfg),
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(DefaultDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, history will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	logger.Debug().Str("explainer", app.Explainer.Name()).Msg("Explainer selected")

	rootCmd := &cobra.Command{
		Use:   "tradeguard",
		Short: "TradeGuard - trade ledger risk analyzer",
		Long: `TradeGuard analyzes historical trade ledgers for risk patterns.

It loads a CSV trade ledger, computes risk metrics, evaluates detection
rules, and aggregates the findings into a 0-100 risk health score with a
letter grade and prioritized recommendations. All analysis is
retrospective and educational; it never gives trading advice.

Use 'tradeguard sample' to generate a demo ledger to try it out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradeguard)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newSampleCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, app.Close
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TradeGuard v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Risk Thresholds")
	output.Printf("  Max Position %%:   %.1f%%\n", cfg.Risk.MaxPositionSizePct)
	output.Printf("  Min SL Usage:     %.1f%%\n", cfg.Risk.MinSLUsageRate)
	output.Printf("  Min Risk/Reward:  %.1f\n", cfg.Risk.MinRiskReward)
	output.Printf("  Revenge Window:   %d min\n", cfg.Risk.RevengeWindowMin)
	output.Printf("  Drawdown Alert:   %.1f%%\n", cfg.Risk.MaxDrawdownAlertPct)
	output.Printf("  Max Daily Trades: %d\n", cfg.Risk.MaxDailyTrades)
	output.Printf("  Drawdown Source:  %s\n", cfg.Risk.DrawdownSource)
	output.Println()

	output.Bold("Score Weights")
	for _, name := range sortedKeys(cfg.Weights) {
		output.Printf("  %-20s %.1f\n", name, cfg.Weights[name])
	}
	output.Println()

	output.Bold("Grade Cutoffs")
	for _, letter := range config.GradeOrder {
		g := cfg.Grades[letter]
		output.Printf("  %s: >= %.0f (%s)\n", letter, g.Min, g.Color)
	}
	output.Println()

	output.Bold("Explainer")
	output.Printf("  Mode:  %s\n", cfg.Explainer.Mode)
	output.Printf("  Model: %s\n", cfg.Explainer.Model)
	if cfg.HasRemoteExplainer() {
		output.Printf("  Remote credential: configured\n")
	} else {
		output.Printf("  Remote credential: not configured (demo mode)\n")
	}

	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
