package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"swing-analyzer/internal/dataprovider"
	"swing-analyzer/internal/levels"
)

func newLevelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels <symbol>",
		Short: "Compute support and resistance levels",
		Long: `Compute support and resistance levels for a symbol from daily OHLCV
history, cross-validated against the weekly timeframe, with a trade-viability
verdict.

History comes from the SQLite cache when fresh, falling back to CSV files in
the configured data directory (<csv-dir>/<SYMBOL>.csv).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			output := NewOutput(cmd)

			res, err := app.analyze(cmd.Context(), cmd, symbol)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(res)
			}
			renderAnalysis(output, symbol, res)
			return nil
		},
	}

	cmd.Flags().String("csv-dir", "", "override CSV data directory")
	cmd.Flags().Bool("no-cache", false, "bypass the local cache")
	return cmd
}

func newViabilityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viability <symbol>",
		Short: "Assess trade viability only",
		Long:  "Run the full level analysis but report only the trade-viability verdict.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			output := NewOutput(cmd)

			res, err := app.analyze(cmd.Context(), cmd, symbol)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(res.TradeViability)
			}
			renderViability(output, res)
			return nil
		},
	}

	cmd.Flags().String("csv-dir", "", "override CSV data directory")
	cmd.Flags().Bool("no-cache", false, "bypass the local cache")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <symbol>",
		Short: "Show stored analysis snapshots",
		Long:  "List previously computed analyses for a symbol, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])
			output := NewOutput(cmd)

			if app.Store == nil {
				output.Error("cache unavailable; no history")
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			snaps, err := app.Store.GetAnalysisHistory(cmd.Context(), symbol, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(snaps)
			}
			renderHistory(output, symbol, snaps, app.Config.UI.DateFormat)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "maximum snapshots to show")
	return cmd
}

// analyze loads price history through the provider chain, runs the engine,
// and persists bars and the result on success.
func (app *App) analyze(ctx context.Context, cmd *cobra.Command, symbol string) (*levels.Result, error) {
	csvDir, _ := cmd.Flags().GetString("csv-dir")
	if csvDir == "" {
		csvDir = app.Config.Data.CSVDir
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")

	var providers []dataprovider.Provider
	var cache *dataprovider.CacheProvider
	if app.Store != nil && !noCache {
		maxAge := time.Duration(app.Config.Data.CacheMaxAgeH) * time.Hour
		cache = dataprovider.NewCacheProvider(app.Store, maxAge)
		providers = append(providers, cache)
	}
	providers = append(providers, dataprovider.NewCSVProvider(csvDir))

	chain := dataprovider.NewFallbackChain(app.Logger, providers...)

	to := time.Now().UTC()
	from := to.AddDate(0, -app.Config.Levels.LookbackMonths, 0)

	daily, err := chain.GetDaily(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	engine := levels.NewEngine(EngineConfig(app.Config))
	res, err := engine.Analyze(daily)
	if err != nil {
		return nil, err
	}

	// Persistence is best effort; the analysis already succeeded.
	if cache != nil {
		if err := cache.Warm(ctx, symbol, daily); err != nil {
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("failed to warm cache")
		}
	}
	if app.Store != nil {
		if prev, err := app.Store.GetLatestAnalysis(ctx, symbol); err == nil && prev != nil &&
			prev.Result.TradeViability.Verdict != res.TradeViability.Verdict {
			app.Logger.Info().
				Str("symbol", symbol).
				Str("from", string(prev.Result.TradeViability.Verdict)).
				Str("to", string(res.TradeViability.Verdict)).
				Msg("viability verdict changed since last run")
		}
		if err := app.Store.SaveAnalysis(ctx, symbol, res); err != nil {
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("failed to store analysis")
		}
	}

	app.Logger.Info().
		Str("symbol", symbol).
		Str("method", string(res.Method)).
		Str("verdict", string(res.TradeViability.Verdict)).
		Int("bars", daily.Len()).
		Msg("analysis complete")

	return res, nil
}
