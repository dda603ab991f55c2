package levels

import (
	"sort"

	"swing-analyzer/internal/models"
)

// levelStrategy is one detection method in the fallback ladder. Detect
// returns ok=false to decline, which is a normal transition to the next
// strategy, never an error. Reordering the ladder is a one-line change in
// NewEngine.
type levelStrategy interface {
	Method() Method
	Detect(series models.PriceSeries, cfg Config, currentPrice, atr float64, highVolatility bool) ([]Level, bool)
}

// Engine runs the detection ladder and the downstream stages. It holds no
// mutable state; one engine value can serve concurrent callers.
type Engine struct {
	cfg        Config
	strategies []levelStrategy
}

// NewEngine creates an engine with the standard ladder: pivot detection,
// agglomerative clustering on raw prices, then volume profile as last resort.
func NewEngine(cfg Config) *Engine {
	return NewEngineWithStrategies(cfg,
		pivotStrategy{},
		clusterStrategy{},
		volumeProfileStrategy{},
	)
}

// NewEngineWithStrategies creates an engine with a custom ladder.
func NewEngineWithStrategies(cfg Config, strategies ...levelStrategy) *Engine {
	return &Engine{cfg: cfg, strategies: strategies}
}

// Analyze computes support/resistance and trade viability for a daily
// series, deriving the weekly series for confluence from the same data.
func (e *Engine) Analyze(daily models.PriceSeries) (*Result, error) {
	return e.Compute(daily, daily.ToWeekly())
}

// Compute computes support/resistance and trade viability for a daily
// series, cross-validating against the supplied weekly series. A nil or
// too-short weekly series skips confluence scoring; the result then reports
// MTFConfluencePct as unavailable rather than zero.
func (e *Engine) Compute(daily, weekly models.PriceSeries) (*Result, error) {
	detected, err := e.detect(daily, e.cfg.MinBars)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Method:         detected.method,
		CurrentPrice:   detected.currentPrice,
		ATR:            detected.atr,
		HighVolatility: detected.highVolatility,
		FibProjected:   detected.fibProjected,
		Levels:         detected.levels,
	}

	if weekly != nil {
		if wk, werr := e.detect(weekly, e.cfg.MinBarsWeekly); werr == nil {
			pct := e.reconcile(res.Levels, wk.levels)
			res.MTFConfluencePct = &pct
		}
	}

	e.curate(res)
	res.TradeViability = AssessViability(res.Levels, res.CurrentPrice, res.ATR, e.cfg)

	return res, nil
}

// detection carries the intermediate state of one ladder run.
type detection struct {
	levels         []Level
	method         Method
	currentPrice   float64
	atr            float64
	highVolatility bool
	fibProjected   bool
}

// detect runs validation, volatility classification, the strategy ladder,
// and the Fibonacci gate on one series.
func (e *Engine) detect(series models.PriceSeries, minBars int) (*detection, error) {
	if err := ValidateSeries(series, minBars, e.cfg); err != nil {
		return nil, err
	}

	currentPrice := series.CurrentPrice()
	atr, highVol := ClassifyVolatility(series, e.cfg)

	d := &detection{
		currentPrice:   currentPrice,
		atr:            atr,
		highVolatility: highVol,
	}

	for _, s := range e.strategies {
		if lv, ok := s.Detect(series, e.cfg, currentPrice, atr, highVol); ok {
			d.levels = lv
			d.method = s.Method()
			break
		}
	}

	// At all-time highs no historical resistance exists above price; project
	// synthetic targets from the last major swing instead. This augments the
	// chosen method's support levels, never replaces them.
	if nearATH(series, currentPrice, e.cfg) && !hasResistanceAbove(d.levels, currentPrice) {
		if fib := ProjectFibonacciResistance(series, e.cfg, currentPrice); len(fib) > 0 {
			d.levels = append(d.levels, fib...)
			d.fibProjected = true
		}
	}

	return d, nil
}

// reconcile marks daily levels that land within the confluence tolerance of
// a weekly level and returns the confluent fraction in [0, 1].
func (e *Engine) reconcile(daily []Level, weekly []Level) float64 {
	if len(daily) == 0 {
		return 0
	}

	confluent := 0
	for i := range daily {
		tolerance := daily[i].Price * e.cfg.MTFConfluenceThreshold
		for _, w := range weekly {
			if abs(daily[i].Price-w.Price) <= tolerance {
				daily[i].Confluent = true
				confluent++
				break
			}
		}
	}

	return float64(confluent) / float64(len(daily))
}

// curate fills the flat price arrays: the closest-N actionable subset and
// the full historical sets kept for pullback guidance. Arrays are always
// present, possibly empty; an empty resistance array near an all-time high
// is an explicit degraded result, never silently padded.
func (e *Engine) curate(res *Result) {
	allSupport := make([]float64, 0)
	allResistance := make([]float64, 0)

	for _, l := range res.Levels {
		switch l.Role {
		case RoleSupport:
			allSupport = append(allSupport, l.Price)
		case RoleResistance:
			allResistance = append(allResistance, l.Price)
		}
	}

	// Nearest first: supports descend from price, resistances ascend.
	sort.Sort(sort.Reverse(sort.Float64Slice(allSupport)))
	sort.Float64s(allResistance)

	res.AllSupport = allSupport
	res.AllResistance = allResistance
	res.Support = firstN(allSupport, e.cfg.MaxLevels)
	res.Resistance = firstN(allResistance, e.cfg.MaxLevels)
}

func firstN(values []float64, n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < len(values) && i < n; i++ {
		out = append(out, values[i])
	}
	return out
}

func hasResistanceAbove(levels []Level, price float64) bool {
	for _, l := range levels {
		if l.Role == RoleResistance && l.Price > price {
			return true
		}
	}
	return false
}

// pivotStrategy detects levels from zig-zag swing pivots. It declines in
// high-volatility regimes and whenever scoring does not leave at least one
// support and one resistance.
type pivotStrategy struct{}

func (pivotStrategy) Method() Method { return MethodPivot }

func (pivotStrategy) Detect(series models.PriceSeries, cfg Config, currentPrice, atr float64, highVolatility bool) ([]Level, bool) {
	if highVolatility {
		return nil, false
	}

	pivots := DetectPivots(series, cfg)
	if len(pivots) == 0 {
		return nil, false
	}

	clusters := Agglomerate(pivotPoints(pivots), cfg.MergePercent*currentPrice)
	lv := scoreClusters(clusters, series, cfg, currentPrice, "pivot", true)

	if countRole(lv, RoleSupport) == 0 || countRole(lv, RoleResistance) == 0 {
		return nil, false
	}
	return lv, true
}

// clusterStrategy clusters raw recent highs and lows, a wider input set than
// confirmed pivots. It succeeds whenever any level survives scoring.
type clusterStrategy struct{}

func (clusterStrategy) Method() Method { return MethodAgglomerative }

func (clusterStrategy) Detect(series models.PriceSeries, cfg Config, currentPrice, atr float64, highVolatility bool) ([]Level, bool) {
	recent := series.Tail(cfg.RawLookback)

	points := make([]pricePoint, 0, recent.Len()*2)
	offset := series.Len() - recent.Len()
	for i, b := range recent {
		points = append(points,
			pricePoint{price: b.High, index: offset + i},
			pricePoint{price: b.Low, index: offset + i},
		)
	}

	clusters := Agglomerate(points, cfg.MergePercent*currentPrice)
	lv := scoreClusters(clusters, series, cfg, currentPrice, "cluster", true)
	if len(lv) == 0 {
		return nil, false
	}
	return lv, true
}

// volumeProfileStrategy is the terminal fallback; it always succeeds, even
// with an empty level set, so the ladder ends in an explicit degraded result.
type volumeProfileStrategy struct{}

func (volumeProfileStrategy) Method() Method { return MethodVolumeProfile }

func (volumeProfileStrategy) Detect(series models.PriceSeries, cfg Config, currentPrice, atr float64, highVolatility bool) ([]Level, bool) {
	return VolumeProfileLevels(series, cfg, currentPrice), true
}

func countRole(levels []Level, role Role) int {
	n := 0
	for _, l := range levels {
		if l.Role == role {
			n++
		}
	}
	return n
}
