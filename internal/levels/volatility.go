package levels

import (
	"swing-analyzer/internal/models"
)

// ATR computes the Average True Range over the configured period using
// Wilder smoothing, seeded with a simple average of the first period true
// ranges. Returns the latest value, or 0 when the series is too short.
func ATR(series models.PriceSeries, period int) float64 {
	if period <= 0 || series.Len() < period+1 {
		return 0
	}

	n := series.Len()
	tr := make([]float64, n)
	tr[0] = series[0].High - series[0].Low
	for i := 1; i < n; i++ {
		tr[i] = trueRange(series[i], series[i-1])
	}

	// Seed with SMA of the first period true ranges.
	atr := mean(tr[:period])

	// Wilder smoothing: ATR += (TR - ATR) / period
	for i := period; i < n; i++ {
		atr += (tr[i] - atr) / float64(period)
	}

	return atr
}

// ClassifyVolatility computes ATR and flags the series as high-volatility
// when ATR relative to current price exceeds the configured threshold. A
// high-volatility regime disables the pivot method, which is too noisy
// there, and routes detection straight to clustering.
func ClassifyVolatility(series models.PriceSeries, cfg Config) (atr float64, highVolatility bool) {
	atr = ATR(series, cfg.ATRPeriod)
	price := series.CurrentPrice()
	if price <= 0 || atr <= 0 {
		return atr, false
	}
	return atr, atr/price > cfg.HighVolatilityPercent
}

func trueRange(current, previous models.PriceBar) float64 {
	highLow := current.High - current.Low
	highClose := abs(current.High - previous.Close)
	lowClose := abs(current.Low - previous.Close)
	return max(highLow, max(highClose, lowClose))
}
