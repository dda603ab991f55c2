// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/models"
)

// DataStore defines the interface for the local price cache and analysis
// history.
type DataStore interface {
	// Price bars
	SaveBars(ctx context.Context, symbol string, timeframe models.Timeframe, bars models.PriceSeries) error
	GetBars(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) (models.PriceSeries, error)
	GetBarsFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error)

	// Analysis snapshots
	SaveAnalysis(ctx context.Context, symbol string, result *levels.Result) error
	GetLatestAnalysis(ctx context.Context, symbol string) (*AnalysisSnapshot, error)
	GetAnalysisHistory(ctx context.Context, symbol string, limit int) ([]AnalysisSnapshot, error)

	// Sync bookkeeping
	GetLastSync(symbol string) time.Time
	SetLastSync(symbol string, t time.Time) error

	// Lifecycle
	Close() error
}

// AnalysisSnapshot is one stored analysis run. Snapshots let the CLI show how
// levels drifted between runs without refetching or recomputing history.
type AnalysisSnapshot struct {
	Symbol    string
	CreatedAt time.Time
	Result    levels.Result
}

// Freshness describes how old a symbol's cached bars are.
type Freshness struct {
	Symbol      string
	LastUpdated time.Time
	Age         time.Duration
	IsFresh     bool
}

// CheckFreshness evaluates cached-bar age against a staleness threshold.
func CheckFreshness(lastUpdated time.Time, now time.Time, staleAfter time.Duration) Freshness {
	age := now.Sub(lastUpdated)
	return Freshness{
		LastUpdated: lastUpdated,
		Age:         age,
		IsFresh:     !lastUpdated.IsZero() && age <= staleAfter,
	}
}
