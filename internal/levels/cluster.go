package levels

import (
	"sort"
)

// pricePoint is a raw price observation fed into clustering: a pivot price,
// or a bar's high/low in the raw-price variant.
type pricePoint struct {
	price float64
	index int
}

// cluster is a group of nearby price points under construction.
type cluster struct {
	points []pricePoint
}

func (c *cluster) meanPrice() float64 {
	var s float64
	for _, p := range c.points {
		s += p.price
	}
	return s / float64(len(c.points))
}

func (c *cluster) prices() []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		out[i] = p.price
	}
	return out
}

func (c *cluster) lastIndex() int {
	last := c.points[0].index
	for _, p := range c.points[1:] {
		if p.index > last {
			last = p.index
		}
	}
	return last
}

// Agglomerate merges nearby prices into consolidated clusters using
// bottom-up hierarchical clustering with no fixed cluster count. Merge
// distance adapts to price scale: threshold = MergePercent x currentPrice.
// Linkage is the average pairwise distance between cluster members, so a few
// outliers cannot drag a cluster far from its core. Merging stops when the
// minimum remaining inter-cluster distance exceeds the threshold.
//
// Natural price congestion zones vary per stock and regime; a fixed-k
// clustering either merges distinct zones or fragments one zone into several
// spurious levels, which is why the count is data-driven.
func Agglomerate(points []pricePoint, threshold float64) []cluster {
	if len(points) == 0 || threshold <= 0 {
		return nil
	}

	sorted := make([]pricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].price != sorted[j].price {
			return sorted[i].price < sorted[j].price
		}
		return sorted[i].index < sorted[j].index
	})

	clusters := make([]cluster, len(sorted))
	for i, p := range sorted {
		clusters[i] = cluster{points: []pricePoint{p}}
	}

	// Clusters stay sorted by price, so only adjacent pairs can be the
	// closest; average linkage between two non-overlapping sorted clusters
	// reduces to the distance between their member means.
	for len(clusters) > 1 {
		best := -1
		bestDist := threshold
		for i := 0; i < len(clusters)-1; i++ {
			d := clusters[i+1].meanPrice() - clusters[i].meanPrice()
			if d <= bestDist {
				// Prefer the leftmost minimum for determinism.
				if best == -1 || d < bestDist {
					best = i
					bestDist = d
				}
			}
		}
		if best == -1 {
			break
		}
		merged := cluster{points: append(append([]pricePoint{}, clusters[best].points...), clusters[best+1].points...)}
		clusters = append(clusters[:best], append([]cluster{merged}, clusters[best+2:]...)...)
	}

	return clusters
}

// pivotPoints converts confirmed pivots into clustering input.
func pivotPoints(pivots []PivotPoint) []pricePoint {
	points := make([]pricePoint, len(pivots))
	for i, p := range pivots {
		points[i] = pricePoint{price: p.Price, index: p.Index}
	}
	return points
}
