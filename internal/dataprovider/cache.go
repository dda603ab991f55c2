package dataprovider

import (
	"context"
	"time"

	"swing-analyzer/internal/models"
	"swing-analyzer/internal/store"
)

// CacheProvider serves price history from the local SQLite cache. Placed
// first in the chain it makes repeated analyses cheap and lets the tool run
// fully offline once a symbol has been loaded. A cache older than maxAge
// declines, so the chain falls through to the CSV source and Warm re-syncs.
type CacheProvider struct {
	store  store.DataStore
	maxAge time.Duration
}

// NewCacheProvider creates a provider over an open data store. maxAge is the
// staleness cutoff for cached bars.
func NewCacheProvider(s store.DataStore, maxAge time.Duration) *CacheProvider {
	return &CacheProvider{store: s, maxAge: maxAge}
}

func (p *CacheProvider) Name() string { return "cache" }

// GetDaily reads cached daily bars. A stale or empty cache returns an empty
// series, which makes the fallback chain move to the next provider.
func (p *CacheProvider) GetDaily(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	// Freshness is anchored on the last sync from source; bar dates are the
	// fallback for caches written before sync times were recorded.
	last := p.store.GetLastSync(symbol)
	if last.IsZero() {
		var err error
		last, err = p.store.GetBarsFreshness(ctx, symbol, models.TimeframeDaily)
		if err != nil {
			return nil, err
		}
	}
	if !store.CheckFreshness(last, time.Now().UTC(), p.maxAge).IsFresh {
		return nil, nil
	}

	return p.store.GetBars(ctx, symbol, models.TimeframeDaily, from, to)
}

// GetWeekly derives weekly bars from cached daily data rather than caching a
// second timeframe that can drift out of sync with it.
func (p *CacheProvider) GetWeekly(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	daily, err := p.GetDaily(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	return daily.ToWeekly(), nil
}

// Warm persists a freshly loaded series so later runs hit the cache, and
// records the sync time the freshness check is anchored on.
func (p *CacheProvider) Warm(ctx context.Context, symbol string, daily models.PriceSeries) error {
	if err := p.store.SaveBars(ctx, symbol, models.TimeframeDaily, daily); err != nil {
		return err
	}
	return p.store.SetLastSync(symbol, time.Now().UTC())
}
