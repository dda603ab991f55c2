package levels

import (
	"testing"

	"swing-analyzer/internal/models"
)

func TestDetectPivotsOnSwings(t *testing.T) {
	cfg := DefaultConfig()
	series := swingSeries(3, 6, 100, 110)

	pivots := DetectPivots(series, cfg)
	if len(pivots) < 4 {
		t.Fatalf("expected at least 4 pivots on a 3-cycle swing series, got %d", len(pivots))
	}

	// Kinds must alternate once the walk locks onto a direction.
	for i := 1; i < len(pivots); i++ {
		if pivots[i].Kind == pivots[i-1].Kind {
			t.Errorf("pivots %d and %d have the same kind %s", i-1, i, pivots[i].Kind)
		}
		if pivots[i].Index <= pivots[i-1].Index {
			t.Errorf("pivot indexes not increasing: %d then %d", pivots[i-1].Index, pivots[i].Index)
		}
	}

	// High pivots sit near the swing top, low pivots near the bottom.
	for _, p := range pivots {
		switch p.Kind {
		case PivotHigh:
			if p.Price < 108 {
				t.Errorf("high pivot at %.2f, expected near swing top", p.Price)
			}
		case PivotLow:
			if p.Price > 102 {
				t.Errorf("low pivot at %.2f, expected near swing bottom", p.Price)
			}
		}
	}
}

func TestDetectPivotsMonotonicSeriesIsEmpty(t *testing.T) {
	cfg := DefaultConfig()

	// A steady climb with no 5% retrace confirms nothing. Empty output is a
	// fall-through signal, not an error.
	var s models.PriceSeries
	for i := 0; i < 120; i++ {
		p := 100 + float64(i)*0.2
		s = append(s, bar(i, p, p+0.1, p-0.1, p+0.05))
	}

	if pivots := DetectPivots(s, cfg); len(pivots) != 0 {
		t.Fatalf("monotonic series produced %d pivots, want 0", len(pivots))
	}
}

func TestDetectPivotsShallowSwingsAreFiltered(t *testing.T) {
	cfg := DefaultConfig()

	// Oscillation of ~2.3% never reaches the 5% confirmation delta.
	series := twoBandSeries(110, 243.59, 249.15, 246.70)
	if pivots := DetectPivots(series, cfg); len(pivots) != 0 {
		t.Fatalf("shallow swings produced %d pivots, want 0", len(pivots))
	}
}

func TestLastSwingLow(t *testing.T) {
	pivots := []PivotPoint{
		{Index: 10, Price: 100, Kind: PivotLow},
		{Index: 20, Price: 120, Kind: PivotHigh},
		{Index: 30, Price: 105, Kind: PivotLow},
		{Index: 40, Price: 125, Kind: PivotHigh},
	}

	p, ok := LastSwingLow(pivots)
	if !ok || p.Price != 105 {
		t.Fatalf("LastSwingLow = %v, %v; want price 105", p, ok)
	}

	if _, ok := LastSwingLow(nil); ok {
		t.Error("LastSwingLow on empty slice reported ok")
	}
}
