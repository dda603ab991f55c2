package levels

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"swing-analyzer/internal/models"
)

// barGen generates a valid OHLCV bar with coherent price relationships.
func barGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.PriceBar{}), map[string]gopter.Gen{
		"Open":   gen.Float64Range(100.0, 1000.0),
		"High":   gen.Float64Range(100.0, 1000.0),
		"Low":    gen.Float64Range(100.0, 1000.0),
		"Close":  gen.Float64Range(100.0, 1000.0),
		"Volume": gen.Int64Range(1000, 10_000_000),
	}).Map(func(b models.PriceBar) models.PriceBar {
		if b.Open <= 0 {
			b.Open = 100.0
		}
		if b.Close <= 0 {
			b.Close = 100.0
		}
		// Enforce OHLC coherence: High >= max(Open, Close), Low <= min(Open, Close).
		b.High = math.Max(b.High, math.Max(b.Open, b.Close))
		b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))
		if b.Low > b.High {
			b.Low, b.High = b.High, b.Low
		}
		return b
	})
}

// seriesGen generates a valid daily series of at least minLen bars with
// strictly increasing consecutive dates.
func seriesGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, barGen()).Map(func(bars []models.PriceBar) models.PriceSeries {
		if len(bars) == 0 {
			bars = []models.PriceBar{{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}}
		}
		for len(bars) < minLen {
			bars = append(bars, bars[len(bars)-1])
		}
		series := make(models.PriceSeries, len(bars))
		for i, b := range bars {
			b.Date = testEpoch.AddDate(0, 0, i)
			// Re-validate after shrinking.
			if b.Open <= 0 {
				b.Open = 100.0
			}
			if b.Close <= 0 {
				b.Close = 100.0
			}
			b.High = math.Max(b.High, math.Max(b.Open, b.Close))
			b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))
			if b.Low > b.High {
				b.Low, b.High = b.High, b.Low
			}
			series[i] = b
		}
		return series
	})
}

func TestProperty_LevelsOrderedAroundPrice(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("every support < current price < every resistance", prop.ForAll(
		func(daily models.PriceSeries) bool {
			engine := NewEngine(DefaultConfig())
			res, err := engine.Compute(daily, nil)
			if err != nil {
				// Data-quality rejections are acceptable for generated input.
				return true
			}

			for _, s := range res.AllSupport {
				if s >= res.CurrentPrice {
					return false
				}
			}
			for _, r := range res.AllResistance {
				if r <= res.CurrentPrice {
					return false
				}
			}
			return true
		},
		seriesGen(100, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_CuratedLevelsAreSubsets(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("curated arrays are capped prefixes of the full sets", prop.ForAll(
		func(daily models.PriceSeries) bool {
			cfg := DefaultConfig()
			engine := NewEngine(cfg)
			res, err := engine.Compute(daily, nil)
			if err != nil {
				return true
			}

			if len(res.Support) > cfg.MaxLevels || len(res.Resistance) > cfg.MaxLevels {
				return false
			}
			for i, s := range res.Support {
				if res.AllSupport[i] != s {
					return false
				}
			}
			for i, r := range res.Resistance {
				if res.AllResistance[i] != r {
					return false
				}
			}
			// Nearest-first ordering: supports descend, resistances ascend.
			for i := 1; i < len(res.AllSupport); i++ {
				if res.AllSupport[i] > res.AllSupport[i-1] {
					return false
				}
			}
			for i := 1; i < len(res.AllResistance); i++ {
				if res.AllResistance[i] < res.AllResistance[i-1] {
					return false
				}
			}
			return true
		},
		seriesGen(100, 200),
	))

	properties.TestingRun(t)
}

func TestProperty_AnalysisIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("identical input yields an identical result", prop.ForAll(
		func(daily models.PriceSeries) bool {
			engine := NewEngine(DefaultConfig())
			first, err1 := engine.Analyze(daily)
			second, err2 := engine.Analyze(daily)
			if err1 != nil || err2 != nil {
				return (err1 == nil) == (err2 == nil)
			}
			return reflect.DeepEqual(first, second)
		},
		seriesGen(100, 160),
	))

	properties.TestingRun(t)
}

func TestProperty_ConfluenceWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("confluence fraction stays in [0, 1] when present", prop.ForAll(
		func(daily models.PriceSeries) bool {
			engine := NewEngine(DefaultConfig())
			res, err := engine.Analyze(daily)
			if err != nil {
				return true
			}
			if res.MTFConfluencePct == nil {
				return true
			}
			return *res.MTFConfluencePct >= 0 && *res.MTFConfluencePct <= 1
		},
		seriesGen(220, 300),
	))

	properties.TestingRun(t)
}

func TestProperty_ViabilityVerdictConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("a viable verdict always carries a stop below price", prop.ForAll(
		func(daily models.PriceSeries) bool {
			engine := NewEngine(DefaultConfig())
			res, err := engine.Compute(daily, nil)
			if err != nil {
				return true
			}

			v := res.TradeViability
			switch v.Verdict {
			case VerdictViable:
				return v.StopSuggestion < res.CurrentPrice && v.RiskReward >= DefaultConfig().MinRiskReward
			case VerdictCaution, VerdictNotViable:
				return true
			default:
				return false
			}
		},
		seriesGen(100, 200),
	))

	properties.TestingRun(t)
}
