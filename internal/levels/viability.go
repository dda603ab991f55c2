package levels

import (
	"fmt"
	"sort"
)

// AssessViability classifies the setup implied by the final level set: is
// the nearest support close enough to anchor a sensible stop, and does the
// distance to resistance leave enough reward for the risk. It is a pure
// function of its inputs; nothing here is cached or mutated.
func AssessViability(all []Level, currentPrice, atr float64, cfg Config) Viability {
	if currentPrice <= 0 {
		return Viability{
			Verdict:            VerdictNotViable,
			PositionSizeAdvice: "no position",
			RiskRewardContext:  "current price unavailable",
		}
	}

	nearestSupport, hasSupport := nearestBelow(all, currentPrice)
	nearestResistance, hasResistance := nearestAbove(all, currentPrice)

	if !hasSupport {
		return Viability{
			Verdict:            VerdictNotViable,
			PositionSizeAdvice: "no position; wait for a pullback toward prior demand",
			RiskRewardContext:  "no support below current price",
			PullbackZones:      pullbackZones(all, currentPrice, cfg.MaxLevels),
		}
	}

	distPct := (currentPrice - nearestSupport) / currentPrice * 100

	// Flat or broken data yields a zero ATR; the verdict is indeterminate
	// rather than a fabricated number.
	if atr <= 0 {
		return Viability{
			Verdict:            VerdictNotViable,
			SupportDistancePct: distPct,
			PositionSizeAdvice: "no position",
			RiskRewardContext:  "ATR is zero or negative; volatility indeterminate",
		}
	}

	stop := nearestSupport - 0.25*atr
	risk := currentPrice - nearestSupport

	var reward float64
	var rewardNote string
	if hasResistance {
		reward = nearestResistance - currentPrice
		rewardNote = fmt.Sprintf("first resistance at %.2f", nearestResistance)
	} else {
		reward = 2 * atr
		rewardNote = "no overhead resistance; reward estimated at 2x ATR"
	}
	rr := reward / risk

	v := Viability{
		SupportDistancePct: distPct,
		StopSuggestion:     stop,
		RiskReward:         rr,
		RiskRewardContext:  fmt.Sprintf("risk %.2f to stop vs reward %.2f (%s), R:R %.2f", risk, reward, rewardNote, rr),
	}

	switch {
	case distPct > 2*cfg.StopBandPercent:
		// Price is too extended above all known support to trade now; the
		// historical supports become pullback re-entry zones instead.
		v.Verdict = VerdictNotViable
		v.PositionSizeAdvice = "no position; price extended far above support"
		v.PullbackZones = pullbackZones(all, currentPrice, cfg.MaxLevels)
	case distPct <= cfg.StopBandPercent && rr >= cfg.MinRiskReward:
		v.Verdict = VerdictViable
		v.PositionSizeAdvice = "full size; stop below nearest support"
	case distPct <= cfg.StopBandPercent:
		v.Verdict = VerdictCaution
		v.PositionSizeAdvice = "reduced size; tight stop but thin reward to first resistance"
	default:
		v.Verdict = VerdictCaution
		v.PositionSizeAdvice = "half size or staged entry; stop is wide"
	}

	return v
}

// nearestBelow returns the closest level price strictly below the reference.
func nearestBelow(levels []Level, price float64) (float64, bool) {
	best := 0.0
	found := false
	for _, l := range levels {
		if l.Price < price && (!found || l.Price > best) {
			best = l.Price
			found = true
		}
	}
	return best, found
}

// nearestAbove returns the closest level price strictly above the reference.
func nearestAbove(levels []Level, price float64) (float64, bool) {
	best := 0.0
	found := false
	for _, l := range levels {
		if l.Price > price && (!found || l.Price < best) {
			best = l.Price
			found = true
		}
	}
	return best, found
}

// pullbackZones lists up to n historical support prices below current price,
// nearest first.
func pullbackZones(levels []Level, price float64, n int) []float64 {
	var zones []float64
	for _, l := range levels {
		if l.Price < price {
			zones = append(zones, l.Price)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(zones)))
	if n > 0 && len(zones) > n {
		zones = zones[:n]
	}
	return zones
}
