// Package config provides configuration management for the risk analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration: rule thresholds, score
// weights, grade cutoffs and contract-size conventions. It is loaded once
// per process and read-only afterwards.
type Config struct {
	Risk        RiskConfig         `mapstructure:"risk"`
	Weights     map[string]float64 `mapstructure:"weights"`
	Grades      map[string]Grade   `mapstructure:"grades"`
	Contracts   map[string]float64 `mapstructure:"contracts"`
	Explainer   ExplainerConfig    `mapstructure:"explainer"`
	UI          UIConfig           `mapstructure:"ui"`
	Credentials Credentials        `mapstructure:"-"` // Loaded separately
}

// RiskConfig holds the thresholds the rule engine evaluates against.
type RiskConfig struct {
	MaxPositionSizePct  float64 `mapstructure:"max_position_size_pct"`
	MinSLUsageRate      float64 `mapstructure:"min_sl_usage_rate"`
	MinRiskReward       float64 `mapstructure:"min_risk_reward"`
	RevengeWindowMin    int     `mapstructure:"revenge_window_minutes"`
	MaxDrawdownAlertPct float64 `mapstructure:"max_drawdown_alert_pct"`
	MaxDailyTrades      int     `mapstructure:"max_daily_trades"`
	MinReportSeverity   float64 `mapstructure:"min_report_severity"`
	DrawdownSource      string  `mapstructure:"drawdown_source"` // "balance", "cumulative"
	FXContractSize      float64 `mapstructure:"fx_contract_size"`
}

// Grade defines one letter-grade bucket.
type Grade struct {
	Min   float64 `mapstructure:"min"`
	Color string  `mapstructure:"color"`
}

// ExplainerConfig selects and tunes the AI explainer collaborator.
type ExplainerConfig struct {
	Mode      string `mapstructure:"mode"` // "demo", "openai"
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// UIConfig holds presentation-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// GradeOrder is the evaluation order for grade buckets, best first.
var GradeOrder = []string{"A", "B", "C", "D", "F"}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradeguard"
	}
	return filepath.Join(home, ".config", "tradeguard")
}

// Default returns the built-in configuration used when no config file
// overrides it. Every table is fully enumerable.
func Default() *Config {
	return &Config{
		Risk: RiskConfig{
			MaxPositionSizePct:  2.0,
			MinSLUsageRate:      80.0,
			MinRiskReward:       1.0,
			RevengeWindowMin:    30,
			MaxDrawdownAlertPct: 20.0,
			MaxDailyTrades:      10,
			MinReportSeverity:   5.0,
			DrawdownSource:      "balance",
			FXContractSize:      100000,
		},
		Weights: map[string]float64{
			"over_leverage":      30,
			"missing_stop_loss":  25,
			"excessive_drawdown": 20,
			"poor_risk_reward":   20,
			"revenge_trading":    15,
			"overtrading":        10,
		},
		Grades: map[string]Grade{
			"A": {Min: 90, Color: "green"},
			"B": {Min: 75, Color: "lime"},
			"C": {Min: 60, Color: "yellow"},
			"D": {Min: 40, Color: "orange"},
			"F": {Min: 0, Color: "red"},
		},
		Contracts: map[string]float64{},
		Explainer: ExplainerConfig{
			Mode:      "demo",
			Model:     "gpt-4o",
			MaxTokens: 1024,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file is not an error: a template is written and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template and continue with defaults.
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADEGUARD_EXPLAINER_MODE"); v != "" {
		cfg.Explainer.Mode = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Risk.MaxPositionSizePct <= 0 || c.Risk.MaxPositionSizePct > 100 {
		return fmt.Errorf("max_position_size_pct must be in (0, 100]")
	}
	if c.Risk.MinSLUsageRate < 0 || c.Risk.MinSLUsageRate > 100 {
		return fmt.Errorf("min_sl_usage_rate must be between 0 and 100")
	}
	if c.Risk.MinRiskReward < 0 {
		return fmt.Errorf("min_risk_reward must be non-negative")
	}
	if c.Risk.MaxDrawdownAlertPct < 0 || c.Risk.MaxDrawdownAlertPct > 100 {
		return fmt.Errorf("max_drawdown_alert_pct must be between 0 and 100")
	}
	if src := c.Risk.DrawdownSource; src != "balance" && src != "cumulative" {
		return fmt.Errorf("invalid drawdown_source: %s (must be 'balance' or 'cumulative')", src)
	}
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %s must be non-negative", name)
		}
	}
	for _, letter := range GradeOrder {
		if _, ok := c.Grades[letter]; !ok {
			return fmt.Errorf("grade table missing letter %s", letter)
		}
	}
	if mode := c.Explainer.Mode; mode != "demo" && mode != "openai" {
		return fmt.Errorf("invalid explainer mode: %s (must be 'demo' or 'openai')", mode)
	}
	return nil
}

// ContractSize returns the notional multiplier for a symbol. Symbols
// present in the contracts table win; otherwise six-letter alphabetic
// symbols are treated as FX pairs, everything else trades at size 1.
func (c *Config) ContractSize(symbol string) float64 {
	if size, ok := c.Contracts[symbol]; ok && size > 0 {
		return size
	}
	if isFXPair(symbol) {
		return c.Risk.FXContractSize
	}
	return 1.0
}

var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"AUD": true, "NZD": true, "CAD": true, "CHF": true,
}

// isFXPair treats a symbol as a currency pair only when both halves are
// known currency codes: BTCUSD and XAUUSD stay at contract size 1.
func isFXPair(symbol string) bool {
	if len(symbol) != 6 {
		return false
	}
	s := strings.ToUpper(symbol)
	return currencyCodes[s[:3]] && currencyCodes[s[3:]]
}

// HasRemoteExplainer reports whether a remote explainer can be used.
func (c *Config) HasRemoteExplainer() bool {
	return c.Explainer.Mode == "openai" && c.Credentials.OpenAI.APIKey != ""
}
