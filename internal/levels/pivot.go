package levels

import (
	"swing-analyzer/internal/models"
)

// DetectPivots finds significant swing highs and lows using a zig-zag style
// filter. A new pivot is confirmed only once price retraces by the configured
// percent delta from the running extreme, and only when at least
// MinBarsBetweenPivots bars have elapsed since the previous confirmed pivot.
// Unfiltered local extrema would produce hundreds of spurious levels; this
// keeps only the swings that matter.
//
// An empty result is not an error. Very short or monotonic series produce no
// qualifying pivots, which signals the orchestrator to try the next method.
func DetectPivots(series models.PriceSeries, cfg Config) []PivotPoint {
	if series.Len() < 2 {
		return nil
	}

	delta := cfg.ZigzagPercentDelta
	minBars := cfg.MinBarsBetweenPivots

	var pivots []PivotPoint

	// Direction of the current leg: 0 unknown, +1 rising (tracking a high),
	// -1 falling (tracking a low).
	dir := 0
	hiIdx, loIdx := 0, 0
	hi, lo := series[0].High, series[0].Low
	lastPivotIdx := 0

	confirm := func(idx int, price float64, kind PivotKind) {
		pivots = append(pivots, PivotPoint{
			Index:         idx,
			Price:         price,
			Kind:          kind,
			BarsSinceLast: idx - lastPivotIdx,
		})
		lastPivotIdx = idx
	}

	for i := 1; i < series.Len(); i++ {
		b := series[i]

		switch dir {
		case 0:
			if b.High > hi {
				hi, hiIdx = b.High, i
			}
			if b.Low < lo {
				lo, loIdx = b.Low, i
			}
			// The first leg direction is decided by whichever extreme sees a
			// qualifying retrace first.
			if hi > 0 && (hi-b.Low)/hi >= delta {
				if hiIdx-lastPivotIdx >= minBars {
					confirm(hiIdx, hi, PivotHigh)
				}
				dir = -1
				lo, loIdx = b.Low, i
			} else if lo > 0 && (b.High-lo)/lo >= delta {
				if loIdx-lastPivotIdx >= minBars {
					confirm(loIdx, lo, PivotLow)
				}
				dir = 1
				hi, hiIdx = b.High, i
			}

		case 1:
			if b.High > hi {
				hi, hiIdx = b.High, i
				continue
			}
			if (hi-b.Low)/hi >= delta {
				// Retrace confirmed; spacing below the minimum is treated as
				// noise and flips the leg without recording a pivot.
				if hiIdx-lastPivotIdx >= minBars {
					confirm(hiIdx, hi, PivotHigh)
				}
				dir = -1
				lo, loIdx = b.Low, i
			}

		case -1:
			if b.Low < lo {
				lo, loIdx = b.Low, i
				continue
			}
			if lo > 0 && (b.High-lo)/lo >= delta {
				if loIdx-lastPivotIdx >= minBars {
					confirm(loIdx, lo, PivotLow)
				}
				dir = 1
				hi, hiIdx = b.High, i
			}
		}
	}

	return pivots
}

// LastSwingLow returns the most recent confirmed swing low, or ok=false when
// the pivot walk found none.
func LastSwingLow(pivots []PivotPoint) (PivotPoint, bool) {
	for i := len(pivots) - 1; i >= 0; i-- {
		if pivots[i].Kind == PivotLow {
			return pivots[i], true
		}
	}
	return PivotPoint{}, false
}
