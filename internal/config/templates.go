package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# swing-analyzer configuration

[levels]
# Minimum daily bars required before any analysis is attempted.
min_bars = 100
min_bars_weekly = 30
# Cluster merge distance as a fraction of current price.
merge_percent = 0.02
# Zig-zag pivot confirmation: retrace fraction and bar spacing.
zigzag_percent_delta = 0.05
min_bars_between_pivots = 5
# Touch band as a fraction of level price, and minimum touches to keep a level.
touch_percent = 0.0075
min_touches = 2
atr_period = 14
# ATR/price above this fraction disables the pivot method.
high_volatility_percent = 0.04
# Within this fraction of the all-time high, Fibonacci projection may activate.
ath_threshold = 0.05
# Daily/weekly confluence tolerance as a fraction of price.
# Tuned empirically from 0.5% to 1.5%; re-tune per asset class.
mtf_confluence_threshold = 0.015
lookback_months = 18

[risk]
# Nearest support further than this (percent below price) downgrades to caution.
stop_band_percent = 7.0
min_risk_reward = 0.75

[data]
# Directory of <SYMBOL>.csv files with date,open,high,low,close,volume rows.
# csv_dir = "~/.config/swing-analyzer/data"
# cache_path = "~/.config/swing-analyzer/swing.db"
cache_max_age_hours = 24

[ui]
color_enabled = true
date_format = "2006-01-02"
`

// createTemplateConfig writes a commented config template when none exists.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
