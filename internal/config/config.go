// Package config provides configuration management for the swing analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Levels LevelsConfig `mapstructure:"levels"`
	Risk   RiskConfig   `mapstructure:"risk"`
	Data   DataConfig   `mapstructure:"data"`
	UI     UIConfig     `mapstructure:"ui"`
}

// LevelsConfig holds the support/resistance engine parameters. These are
// static, versioned defaults so results are reproducible; per-request tuning
// is deliberately not supported.
type LevelsConfig struct {
	MinBars                int     `mapstructure:"min_bars"`
	MinBarsWeekly          int     `mapstructure:"min_bars_weekly"`
	MergePercent           float64 `mapstructure:"merge_percent"`
	ZigzagPercentDelta     float64 `mapstructure:"zigzag_percent_delta"`
	MinBarsBetweenPivots   int     `mapstructure:"min_bars_between_pivots"`
	TouchPercent           float64 `mapstructure:"touch_percent"`
	MinTouches             int     `mapstructure:"min_touches"`
	ATRPeriod              int     `mapstructure:"atr_period"`
	HighVolatilityPercent  float64 `mapstructure:"high_volatility_percent"`
	ATHThreshold           float64 `mapstructure:"ath_threshold"`
	MTFConfluenceThreshold float64 `mapstructure:"mtf_confluence_threshold"`
	LookbackMonths         int     `mapstructure:"lookback_months"`
}

// RiskConfig holds trade viability parameters.
type RiskConfig struct {
	StopBandPercent float64 `mapstructure:"stop_band_percent"`
	MinRiskReward   float64 `mapstructure:"min_risk_reward"`
}

// DataConfig holds data provider configuration.
type DataConfig struct {
	CSVDir       string `mapstructure:"csv_dir"`
	CachePath    string `mapstructure:"cache_path"`
	CacheMaxAgeH int    `mapstructure:"cache_max_age_hours"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/swing-analyzer"
	}
	return filepath.Join(home, ".config", "swing-analyzer")
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Levels: LevelsConfig{
			MinBars:                100,
			MinBarsWeekly:          30,
			MergePercent:           0.02,
			ZigzagPercentDelta:     0.05,
			MinBarsBetweenPivots:   5,
			TouchPercent:           0.0075,
			MinTouches:             2,
			ATRPeriod:              14,
			HighVolatilityPercent:  0.04,
			ATHThreshold:           0.05,
			MTFConfluenceThreshold: 0.015,
			LookbackMonths:         18,
		},
		Risk: RiskConfig{
			StopBandPercent: 7.0,
			MinRiskReward:   0.75,
		},
		Data: DataConfig{
			CSVDir:       filepath.Join(DefaultConfigDir(), "data"),
			CachePath:    filepath.Join(DefaultConfigDir(), "swing.db"),
			CacheMaxAgeH: 24,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		// Missing config file is fine; write a template for next time.
		if werr := createTemplateConfig(configDir); werr != nil {
			return nil, fmt.Errorf("writing config template: %w", werr)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("levels.min_bars", cfg.Levels.MinBars)
	v.SetDefault("levels.min_bars_weekly", cfg.Levels.MinBarsWeekly)
	v.SetDefault("levels.merge_percent", cfg.Levels.MergePercent)
	v.SetDefault("levels.zigzag_percent_delta", cfg.Levels.ZigzagPercentDelta)
	v.SetDefault("levels.min_bars_between_pivots", cfg.Levels.MinBarsBetweenPivots)
	v.SetDefault("levels.touch_percent", cfg.Levels.TouchPercent)
	v.SetDefault("levels.min_touches", cfg.Levels.MinTouches)
	v.SetDefault("levels.atr_period", cfg.Levels.ATRPeriod)
	v.SetDefault("levels.high_volatility_percent", cfg.Levels.HighVolatilityPercent)
	v.SetDefault("levels.ath_threshold", cfg.Levels.ATHThreshold)
	v.SetDefault("levels.mtf_confluence_threshold", cfg.Levels.MTFConfluenceThreshold)
	v.SetDefault("levels.lookback_months", cfg.Levels.LookbackMonths)
	v.SetDefault("risk.stop_band_percent", cfg.Risk.StopBandPercent)
	v.SetDefault("risk.min_risk_reward", cfg.Risk.MinRiskReward)
	v.SetDefault("data.csv_dir", cfg.Data.CSVDir)
	v.SetDefault("data.cache_path", cfg.Data.CachePath)
	v.SetDefault("data.cache_max_age_hours", cfg.Data.CacheMaxAgeH)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SWING_CSV_DIR"); v != "" {
		cfg.Data.CSVDir = v
	}
	if v := os.Getenv("SWING_CACHE_PATH"); v != "" {
		cfg.Data.CachePath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Levels.MinBars <= 0 {
		return fmt.Errorf("levels.min_bars must be positive")
	}
	if c.Levels.MergePercent <= 0 || c.Levels.MergePercent >= 1 {
		return fmt.Errorf("levels.merge_percent must be in (0, 1)")
	}
	if c.Levels.ZigzagPercentDelta <= 0 || c.Levels.ZigzagPercentDelta >= 1 {
		return fmt.Errorf("levels.zigzag_percent_delta must be in (0, 1)")
	}
	if c.Levels.MinTouches < 1 {
		return fmt.Errorf("levels.min_touches must be at least 1")
	}
	if c.Levels.ATRPeriod <= 0 {
		return fmt.Errorf("levels.atr_period must be positive")
	}
	if c.Levels.MTFConfluenceThreshold <= 0 {
		return fmt.Errorf("levels.mtf_confluence_threshold must be positive")
	}
	if c.Risk.StopBandPercent <= 0 || c.Risk.StopBandPercent > 100 {
		return fmt.Errorf("risk.stop_band_percent must be in (0, 100]")
	}
	if c.Risk.MinRiskReward < 0 {
		return fmt.Errorf("risk.min_risk_reward must be non-negative")
	}
	return nil
}
