// Package levels computes support and resistance price levels from OHLCV
// history and derives a trade-viability verdict from them.
//
// The package is a pure, synchronous computation: every result is a function
// of (PriceSeries, Config) with no I/O, no shared state, and no randomness.
// It is safe to invoke concurrently for different symbols.
package levels

// Config is the immutable parameter bundle passed into every computation.
// Values come from versioned defaults rather than per-request tuning so
// results stay reproducible.
type Config struct {
	// Validation
	MinBars            int     // minimum daily bars
	MinBarsWeekly      int     // minimum weekly bars for confluence
	MaxGapDays         int     // calendar gap suggesting a data outage
	IntegrityTolerance float64 // fraction of bad bars tolerated

	// Volatility gate
	ATRPeriod             int
	HighVolatilityPercent float64 // ATR/price above this disables the pivot method

	// Pivot detection
	ZigzagPercentDelta   float64
	MinBarsBetweenPivots int

	// Clustering
	MergePercent float64 // merge distance as fraction of current price
	RawLookback  int     // bars fed to the raw-price cluster variant

	// Scoring
	TouchPercent float64 // touch band as fraction of level price
	MinTouches   int

	// Volume profile fallback
	VolumeBins int

	// Fibonacci projection
	ATHThreshold  float64
	FibExtensions []float64

	// Multi-timeframe confluence
	MTFConfluenceThreshold float64

	// Output curation and viability
	MaxLevels       int // curated closest-N subset size
	StopBandPercent float64
	MinRiskReward   float64
}

// DefaultConfig returns the versioned default parameters.
func DefaultConfig() Config {
	return Config{
		MinBars:                100,
		MinBarsWeekly:          30,
		MaxGapDays:             10,
		IntegrityTolerance:     0.02,
		ATRPeriod:              14,
		HighVolatilityPercent:  0.04,
		ZigzagPercentDelta:     0.05,
		MinBarsBetweenPivots:   5,
		MergePercent:           0.02,
		RawLookback:            60,
		TouchPercent:           0.0075,
		MinTouches:             2,
		VolumeBins:             20,
		ATHThreshold:           0.05,
		FibExtensions:          []float64{1.272, 1.618, 2.0},
		MTFConfluenceThreshold: 0.015,
		MaxLevels:              3,
		StopBandPercent:        7.0,
		MinRiskReward:          0.75,
	}
}

// Method identifies which detection strategy produced a result. The set is
// closed; consumers should switch exhaustively.
type Method string

const (
	MethodPivot         Method = "pivot"
	MethodAgglomerative Method = "agglomerative"
	MethodVolumeProfile Method = "volume_profile"
)

// Role classifies a level relative to current price at evaluation time.
// A level is never stored with a fixed role; it is recomputed per request.
type Role string

const (
	RoleSupport    Role = "support"
	RoleResistance Role = "resistance"
)

// PivotKind distinguishes swing highs from swing lows.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// PivotPoint is a confirmed local price extreme. Created per detection call
// and discarded after clustering.
type PivotPoint struct {
	Index         int
	Price         float64
	Kind          PivotKind
	BarsSinceLast int
}

// Level is a consolidated support or resistance level with its score.
type Level struct {
	Price        float64 `json:"price"`
	Role         Role    `json:"role"`
	TouchCount   int     `json:"touchCount"`
	LastTouch    int     `json:"lastTouch"`
	RoleReversal bool    `json:"roleReversal"`
	Confluent    bool    `json:"confluent"`
	Source       string  `json:"source"` // "pivot", "cluster", "volume", "fibonacci"
}

// Verdict is the trade-viability classification.
type Verdict string

const (
	VerdictViable    Verdict = "viable"
	VerdictCaution   Verdict = "caution"
	VerdictNotViable Verdict = "not_viable"
)

// Viability is the terminal assessment derived from the final level set.
type Viability struct {
	Verdict            Verdict   `json:"verdict"`
	SupportDistancePct float64   `json:"supportDistancePct"`
	StopSuggestion     float64   `json:"stopSuggestion"`
	RiskReward         float64   `json:"riskReward"`
	PositionSizeAdvice string    `json:"positionSizeAdvice"`
	RiskRewardContext  string    `json:"riskRewardContext"`
	PullbackZones      []float64 `json:"pullbackZones,omitempty"`
}

// Result is the engine's output for one analysis request. Field presence is
// stable across methods; only Method and MTFConfluencePct vary in meaning.
// Created fresh on every request and never cached by the engine.
type Result struct {
	Support        []float64 `json:"support"`
	Resistance     []float64 `json:"resistance"`
	AllSupport     []float64 `json:"allSupport"`
	AllResistance  []float64 `json:"allResistance"`
	Method         Method    `json:"method"`
	CurrentPrice   float64   `json:"currentPrice"`
	ATR            float64   `json:"atr"`
	HighVolatility bool      `json:"highVolatility"`
	FibProjected   bool      `json:"fibProjected"`
	// MTFConfluencePct is nil when no weekly series was available, which is
	// distinct from a computed value of zero.
	MTFConfluencePct *float64  `json:"mtfConfluencePct"`
	Levels           []Level   `json:"levels"`
	TradeViability   Viability `json:"tradeViability"`
}
