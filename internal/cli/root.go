// Package cli provides the command-line interface for the swing analyzer.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"swing-analyzer/internal/config"
	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/logging"
	"swing-analyzer/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2026-08-28"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Data.CachePath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to open cache, analyses will not be persisted")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Data.CachePath).Msg("cache opened")
	}

	rootCmd := &cobra.Command{
		Use:   "swing",
		Short: "Support & resistance analysis for swing trading",
		Long: `Swing computes support and resistance levels from daily OHLCV history and
derives a trade-viability verdict for swing-trade entries.

Price data is read from local CSV exports and cached in SQLite; no network
calls are made. Use 'swing levels <symbol>' for the full analysis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			} else {
				logging.SetInfoLevel()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/swing-analyzer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newLevelsCmd(app))
	rootCmd.AddCommand(newViabilityCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

// EngineConfig maps the file configuration onto the engine's parameter
// bundle. Parameters without a config knob keep their versioned defaults.
func EngineConfig(cfg *config.Config) levels.Config {
	ec := levels.DefaultConfig()
	ec.MinBars = cfg.Levels.MinBars
	ec.MinBarsWeekly = cfg.Levels.MinBarsWeekly
	ec.MergePercent = cfg.Levels.MergePercent
	ec.ZigzagPercentDelta = cfg.Levels.ZigzagPercentDelta
	ec.MinBarsBetweenPivots = cfg.Levels.MinBarsBetweenPivots
	ec.TouchPercent = cfg.Levels.TouchPercent
	ec.MinTouches = cfg.Levels.MinTouches
	ec.ATRPeriod = cfg.Levels.ATRPeriod
	ec.HighVolatilityPercent = cfg.Levels.HighVolatilityPercent
	ec.ATHThreshold = cfg.Levels.ATHThreshold
	ec.MTFConfluenceThreshold = cfg.Levels.MTFConfluenceThreshold
	ec.StopBandPercent = cfg.Risk.StopBandPercent
	ec.MinRiskReward = cfg.Risk.MinRiskReward
	return ec
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
				output.Printf("swing v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
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
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Level Detection")
	output.Printf("  Min Bars:          %d daily / %d weekly\n", cfg.Levels.MinBars, cfg.Levels.MinBarsWeekly)
	output.Printf("  Merge Distance:    %.2f%% of price\n", cfg.Levels.MergePercent*100)
	output.Printf("  Zig-zag Delta:     %.1f%%\n", cfg.Levels.ZigzagPercentDelta*100)
	output.Printf("  Touch Band:        %.2f%%\n", cfg.Levels.TouchPercent*100)
	output.Printf("  Min Touches:       %d\n", cfg.Levels.MinTouches)
	output.Printf("  ATR Period:        %d\n", cfg.Levels.ATRPeriod)
	output.Printf("  High Vol Cutoff:   %.1f%% ATR/price\n", cfg.Levels.HighVolatilityPercent*100)
	output.Printf("  Lookback:          %d months\n", cfg.Levels.LookbackMonths)
	output.Println()

	output.Bold("Risk")
	output.Printf("  Stop Band:         %.1f%%\n", cfg.Risk.StopBandPercent)
	output.Printf("  Min Risk/Reward:   %.2f\n", cfg.Risk.MinRiskReward)
	output.Println()

	output.Bold("Data")
	output.Printf("  CSV Directory:     %s\n", cfg.Data.CSVDir)
	output.Printf("  Cache:             %s\n", cfg.Data.CachePath)
	output.Printf("  Cache Max Age:     %dh\n", cfg.Data.CacheMaxAgeH)
}
