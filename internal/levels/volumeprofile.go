package levels

import (
	"sort"

	"swing-analyzer/internal/models"
)

// VolumeProfileLevels derives levels from high-volume price buckets. It is
// the last resort when both the pivot and clustering methods produce nothing
// usable, which happens with extremely short histories or pathological data.
// Results carry MethodVolumeProfile so consumers can discount them.
func VolumeProfileLevels(series models.PriceSeries, cfg Config, currentPrice float64) []Level {
	if series.Len() == 0 || cfg.VolumeBins <= 0 {
		return nil
	}

	low := series.MinLow()
	high := series.MaxHigh()
	if high <= low {
		return nil
	}

	binWidth := (high - low) / float64(cfg.VolumeBins)
	volumes := make([]int64, cfg.VolumeBins)

	for _, b := range series {
		// Attribute the bar's volume to the bucket of its typical price.
		tp := (b.High + b.Low + b.Close) / 3
		idx := int((tp - low) / binWidth)
		if idx >= cfg.VolumeBins {
			idx = cfg.VolumeBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		volumes[idx] += b.Volume
	}

	type bin struct {
		index  int
		volume int64
	}
	bins := make([]bin, 0, cfg.VolumeBins)
	for i, v := range volumes {
		if v > 0 {
			bins = append(bins, bin{index: i, volume: v})
		}
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].volume != bins[j].volume {
			return bins[i].volume > bins[j].volume
		}
		return bins[i].index < bins[j].index
	})

	keep := cfg.MaxLevels * 2
	if keep > len(bins) {
		keep = len(bins)
	}

	clusters := make([]cluster, 0, keep)
	for _, b := range bins[:keep] {
		center := low + (float64(b.index)+0.5)*binWidth
		clusters = append(clusters, cluster{points: []pricePoint{{price: center, index: b.index}}})
	}

	// Touch counts are reported for context but never used to discard here;
	// a last-resort method that filters itself to nothing helps nobody.
	return scoreClusters(clusters, series, cfg, currentPrice, "volume", false)
}
