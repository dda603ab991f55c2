package levels

import (
	"sort"

	"swing-analyzer/internal/models"
)

// touchStats holds the touch profile of one candidate level.
type touchStats struct {
	total        int
	asSupport    int
	asResistance int
	lastTouch    int
}

// countTouches counts bars whose high or low falls within the touch band of
// the level. A bar closing above the level with its low in the band touched
// it as support; a bar closing below with its high in the band touched it as
// resistance. A level touched from both sides has held after a role flip,
// the strongest kind of price memory.
func countTouches(series models.PriceSeries, level float64, touchPercent float64) touchStats {
	band := level * touchPercent
	var stats touchStats
	stats.lastTouch = -1

	for i, b := range series {
		touched := false
		if abs(b.Low-level) <= band {
			touched = true
			if b.Close >= level {
				stats.asSupport++
			}
		}
		if abs(b.High-level) <= band {
			touched = true
			if b.Close <= level {
				stats.asResistance++
			}
		}
		if touched {
			stats.total++
			stats.lastTouch = i
		}
	}

	return stats
}

// scoreClusters collapses clusters to their member-price median, counts
// touches against the full series, and ranks the survivors. Levels touched
// fewer than minTouches times are noise, not yet validated as support or
// resistance, and are discarded when enforceMinTouches is set (the volume
// profile fallback keeps everything it finds). Roles are assigned relative
// to current price at evaluation time; levels sitting exactly at the current
// price are dropped.
func scoreClusters(clusters []cluster, series models.PriceSeries, cfg Config, currentPrice float64, source string, enforceMinTouches bool) []Level {
	var out []Level

	for _, c := range clusters {
		price := median(c.prices())
		if price <= 0 || price == currentPrice {
			continue
		}

		stats := countTouches(series, price, cfg.TouchPercent)
		if enforceMinTouches && stats.total < cfg.MinTouches {
			continue
		}

		role := RoleSupport
		if price > currentPrice {
			role = RoleResistance
		}

		out = append(out, Level{
			Price:        price,
			Role:         role,
			TouchCount:   stats.total,
			LastTouch:    stats.lastTouch,
			RoleReversal: stats.asSupport > 0 && stats.asResistance > 0,
			Source:       source,
		})
	}

	rankLevels(out)
	return out
}

// rankLevels orders levels descending by touch count, with a bonus for role
// reversal; ties break by recency, then by price for determinism.
func rankLevels(levels []Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		si, sj := levelScore(levels[i]), levelScore(levels[j])
		if si != sj {
			return si > sj
		}
		if levels[i].LastTouch != levels[j].LastTouch {
			return levels[i].LastTouch > levels[j].LastTouch
		}
		return levels[i].Price < levels[j].Price
	})
}

func levelScore(l Level) int {
	score := l.TouchCount
	if l.RoleReversal {
		score += 2
	}
	return score
}
