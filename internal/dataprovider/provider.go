// Package dataprovider supplies OHLCV price history from local sources. The
// tool never originates network calls; providers read CSV exports and the
// SQLite cache, and a fallback chain makes the source order explicit.
package dataprovider

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"swing-analyzer/internal/errors"
	"swing-analyzer/internal/models"
	"swing-analyzer/pkg/utils"
)

// Provider fetches price history for one symbol. Implementations must return
// series sorted ascending by date.
type Provider interface {
	Name() string
	GetDaily(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
	GetWeekly(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
}

// FallbackChain tries providers in order until one returns data. Each
// provider gets the configured retry budget before the chain moves on.
type FallbackChain struct {
	providers []Provider
	retry     utils.RetryConfig
	log       zerolog.Logger
}

// NewFallbackChain creates a chain over the given providers, first preferred.
func NewFallbackChain(log zerolog.Logger, providers ...Provider) *FallbackChain {
	return &FallbackChain{
		providers: providers,
		retry:     utils.DefaultRetryConfig(),
		log:       log,
	}
}

func (c *FallbackChain) Name() string { return "fallback-chain" }

// GetDaily returns the first provider's daily series that succeeds, or
// ErrProviderFailed when every provider is exhausted.
func (c *FallbackChain) GetDaily(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	return c.fetch(ctx, symbol, func(p Provider) (models.PriceSeries, error) {
		return p.GetDaily(ctx, symbol, from, to)
	})
}

// GetWeekly returns the first provider's weekly series that succeeds, or
// ErrProviderFailed when every provider is exhausted.
func (c *FallbackChain) GetWeekly(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	return c.fetch(ctx, symbol, func(p Provider) (models.PriceSeries, error) {
		return p.GetWeekly(ctx, symbol, from, to)
	})
}

func (c *FallbackChain) fetch(ctx context.Context, symbol string, get func(Provider) (models.PriceSeries, error)) (models.PriceSeries, error) {
	var lastErr error

	for _, p := range c.providers {
		series, err := utils.RetryWithResult(ctx, c.retry, func() (models.PriceSeries, error) {
			return get(p)
		})
		if err == nil && len(series) > 0 {
			c.log.Debug().
				Str("provider", p.Name()).
				Str("symbol", symbol).
				Int("bars", len(series)).
				Msg("price history fetched")
			return series, nil
		}
		if err == nil {
			err = errors.ErrDataNotFound
		}
		lastErr = err
		c.log.Warn().
			Str("provider", p.Name()).
			Str("symbol", symbol).
			Err(err).
			Msg("provider failed, trying next")
	}

	return nil, errors.Wrapf(errors.ErrProviderFailed, "symbol %s: last error: %v", symbol, lastErr)
}
