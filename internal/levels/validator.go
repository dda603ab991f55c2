package levels

import (
	"math"
	"time"

	"swing-analyzer/internal/errors"
	"swing-analyzer/internal/models"
)

// ValidateSeries checks a price series for sufficiency and integrity before
// any detection runs. It returns an InsufficientDataError when the series is
// too short and a DataIntegrityError when any bar carries a non-finite price,
// more than the configured tolerance of bars violate the OHLC invariants,
// dates are non-monotonic, or calendar gaps suggest a data outage. Integrity
// failures should send the caller back to an alternate data source, not into
// the fallback ladder.
func ValidateSeries(series models.PriceSeries, minBars int, cfg Config) error {
	if series.Len() < minBars {
		return errors.NewInsufficientDataError(series.Len(), minBars)
	}

	if !series.SortedByDate() {
		return errors.NewDataIntegrityError("non-monotonic dates", 1, series.Len())
	}

	violations := 0
	for _, b := range series {
		// A single NaN or Inf propagates through the ATR recurrence and
		// level sorting; the bad-bar tolerance does not apply to it.
		if !isFinite(b) {
			return errors.NewDataIntegrityError("non-finite price", 1, series.Len())
		}
		if !b.IsCoherent() {
			violations++
		}
	}

	tolerance := int(math.Ceil(cfg.IntegrityTolerance * float64(series.Len())))
	if violations > tolerance {
		return errors.NewDataIntegrityError("OHLC invariant violations", violations, series.Len())
	}

	if cfg.MaxGapDays > 0 {
		maxGap := time.Duration(cfg.MaxGapDays) * 24 * time.Hour
		if series.MaxGap() > maxGap {
			return errors.NewDataIntegrityError("calendar gap exceeds limit", 1, series.Len())
		}
	}

	return nil
}

func isFinite(b models.PriceBar) bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
