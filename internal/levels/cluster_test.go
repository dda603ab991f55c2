package levels

import (
	"math"
	"reflect"
	"testing"
)

func TestAgglomerateMergesWithinThreshold(t *testing.T) {
	// Two tight groups around 100 and 110, far wider apart than the threshold.
	points := []pricePoint{
		{price: 99.8, index: 0},
		{price: 100.0, index: 5},
		{price: 100.3, index: 9},
		{price: 109.7, index: 2},
		{price: 110.0, index: 7},
		{price: 110.2, index: 11},
	}

	clusters := Agglomerate(points, 2.0)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	if got := median(clusters[0].prices()); got != 100.0 {
		t.Errorf("low cluster median = %v, want 100", got)
	}
	if got := median(clusters[1].prices()); got != 110.0 {
		t.Errorf("high cluster median = %v, want 110", got)
	}
	if got := clusters[0].lastIndex(); got != 9 {
		t.Errorf("low cluster lastIndex = %d, want 9", got)
	}
}

func TestAgglomerateKeepsSeparatedPointsApart(t *testing.T) {
	points := []pricePoint{
		{price: 100, index: 0},
		{price: 105, index: 1},
		{price: 110, index: 2},
	}

	// Threshold below every pairwise gap: no merging at all.
	clusters := Agglomerate(points, 4.0)
	if len(clusters) != 3 {
		t.Fatalf("got %d clusters, want 3 singletons", len(clusters))
	}
}

func TestAgglomerateAverageLinkageResistsOutlierChaining(t *testing.T) {
	// A chain 100, 101.5, 103: single linkage would merge all three at
	// threshold 1.6. Average linkage merges 100 and 101.5 first (mean 100.75),
	// leaving 103 at distance 2.25, which stays out.
	points := []pricePoint{
		{price: 100, index: 0},
		{price: 101.5, index: 1},
		{price: 103, index: 2},
	}

	clusters := Agglomerate(points, 1.6)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if got := clusters[0].meanPrice(); math.Abs(got-100.75) > 1e-9 {
		t.Errorf("merged cluster mean = %v, want 100.75", got)
	}
	if got := clusters[1].meanPrice(); got != 103 {
		t.Errorf("outlier cluster mean = %v, want 103", got)
	}
}

func TestAgglomerateIsDeterministic(t *testing.T) {
	points := []pricePoint{
		{price: 110.2, index: 11},
		{price: 100.0, index: 5},
		{price: 109.7, index: 2},
		{price: 100.3, index: 9},
		{price: 99.8, index: 0},
		{price: 110.0, index: 7},
	}

	first := Agglomerate(points, 2.0)
	for run := 0; run < 5; run++ {
		again := Agglomerate(points, 2.0)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first clustering", run)
		}
	}
}

func TestAgglomerateDegenerateInput(t *testing.T) {
	if got := Agglomerate(nil, 2.0); got != nil {
		t.Errorf("nil input produced %v", got)
	}
	if got := Agglomerate([]pricePoint{{price: 100}}, 0); got != nil {
		t.Errorf("zero threshold produced %v", got)
	}
	clusters := Agglomerate([]pricePoint{{price: 100, index: 3}}, 2.0)
	if len(clusters) != 1 || clusters[0].meanPrice() != 100 {
		t.Errorf("single point not returned as its own cluster: %v", clusters)
	}
}
