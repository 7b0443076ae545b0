package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# TradeGuard Configuration

[risk]
# Maximum average position size as percentage of account balance
max_position_size_pct = 2.0
# Minimum stop-loss usage rate (percentage of trades)
min_sl_usage_rate = 80.0
# Minimum average risk:reward ratio
min_risk_reward = 1.0
# Window after a losing trade in which a new entry counts as revenge trading
revenge_window_minutes = 30
# Drawdown percentage above which the drawdown rule fires
max_drawdown_alert_pct = 20.0
# Trades per day above which the overtrading rule fires
max_daily_trades = 10
# Findings below this severity are omitted from the result
min_report_severity = 5.0
# Equity curve source for drawdown: "balance" or "cumulative"
drawdown_source = "balance"
# Notional contract size applied to currency pairs
fx_contract_size = 100000

# Score weight per risk. A detected risk with no weight here contributes
# nothing to the score and is reported as a configuration warning.
[weights]
over_leverage = 30.0
missing_stop_loss = 25.0
excessive_drawdown = 20.0
poor_risk_reward = 20.0
revenge_trading = 15.0
overtrading = 10.0

# Letter grade cutoffs and display colors
[grades.A]
min = 90.0
color = "green"
[grades.B]
min = 75.0
color = "lime"
[grades.C]
min = 60.0
color = "yellow"
[grades.D]
min = 40.0
color = "orange"
[grades.F]
min = 0.0
color = "red"

# Per-symbol contract size overrides (notional = lot_size * contract size)
[contracts]
# XAUUSD = 100.0

[explainer]
# Explainer mode: "demo" (static text) or "openai" (remote call)
mode = "demo"
model = "gpt-4o"
max_tokens = 1024

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# TradeGuard Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
