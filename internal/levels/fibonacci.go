package levels

import (
	"swing-analyzer/internal/models"
)

// nearATH reports whether current price trades within the configured band of
// the series all-time high.
func nearATH(series models.PriceSeries, currentPrice float64, cfg Config) bool {
	ath := series.MaxHigh()
	if ath <= 0 {
		return false
	}
	return currentPrice >= ath*(1-cfg.ATHThreshold)
}

// ProjectFibonacciResistance synthesizes resistance levels when price trades
// at all-time highs and no historical resistance exists above it. Targets are
// projected at standard extension ratios from the most recent significant
// swing low up to the all-time high. Only projections above current price are
// returned. This augments the chosen method's support levels; it never
// replaces them.
func ProjectFibonacciResistance(series models.PriceSeries, cfg Config, currentPrice float64) []Level {
	ath := series.MaxHigh()
	if ath <= 0 || currentPrice <= 0 {
		return nil
	}

	swingLow, ok := lastMajorSwingLow(series, cfg)
	if !ok || swingLow >= ath {
		return nil
	}

	diff := ath - swingLow
	var out []Level
	for _, ratio := range cfg.FibExtensions {
		target := swingLow + diff*ratio
		if target > currentPrice {
			out = append(out, Level{
				Price:  target,
				Role:   RoleResistance,
				Source: "fibonacci",
			})
		}
	}
	return out
}

// lastMajorSwingLow finds the most recent confirmed swing low. When the
// zig-zag walk confirms none (a relentless uptrend can do that), the lowest
// low of the last quarter of the series stands in.
func lastMajorSwingLow(series models.PriceSeries, cfg Config) (float64, bool) {
	pivots := DetectPivots(series, cfg)
	if p, ok := LastSwingLow(pivots); ok {
		return p.Price, true
	}

	window := series.Len() / 4
	if window < 2 {
		return 0, false
	}
	low := series.Tail(window).MinLow()
	if low <= 0 {
		return 0, false
	}
	return low, true
}
